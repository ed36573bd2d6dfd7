package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/storefront-admin/internal/domain/entity"
	"github.com/oksasatya/storefront-admin/internal/domain/repository"
)

// DocumentStore persists schemaless documents in a single jsonb-backed
// table. Save is a plain upsert with no version column: concurrent writers
// race and the last completed save wins.
type DocumentStore struct {
	pool *pgxpool.Pool
}

func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

func (s *DocumentStore) FindOne(ctx context.Context, kind entity.Kind, f repository.Filter) (*entity.Document, error) {
	where, args := buildWhere(kind, f)
	row := s.pool.QueryRow(ctx, `
		SELECT id, kind, data, created_at, updated_at
		FROM documents
		`+where+`
		ORDER BY created_at, id
		LIMIT 1
	`, args...)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNoDocument
		}
		return nil, err
	}
	return doc, nil
}

func (s *DocumentStore) Find(ctx context.Context, kind entity.Kind, f repository.Filter) ([]entity.Document, error) {
	where, args := buildWhere(kind, f)
	rows, err := s.pool.Query(ctx, `
		SELECT id, kind, data, created_at, updated_at
		FROM documents
		`+where+`
		ORDER BY created_at, id
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *doc)
	}
	return out, rows.Err()
}

func (s *DocumentStore) Save(ctx context.Context, doc *entity.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	data, err := json.Marshal(doc.Fields)
	if err != nil {
		return err
	}
	doc.UpdatedAt = time.Now().UTC()

	row := s.pool.QueryRow(ctx, `
		INSERT INTO documents (id, kind, data, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
		RETURNING created_at
	`, doc.ID, string(doc.Kind), data, doc.UpdatedAt)

	return row.Scan(&doc.CreatedAt)
}

func (s *DocumentStore) Delete(ctx context.Context, kind entity.Kind, f repository.Filter) error {
	where, args := buildWhere(kind, f)
	_, err := s.pool.Exec(ctx, `DELETE FROM documents `+where, args...)
	return err
}

// buildWhere renders a filter into a WHERE clause. Field paths come from the
// kind schemas, never from request input, so they are embedded directly.
func buildWhere(kind entity.Kind, f repository.Filter) (string, []any) {
	args := []any{string(kind)}
	clauses := make([]string, 0, len(f.Any))
	for _, c := range f.Any {
		args = append(args, c.Value)
		ref := fieldRef(c.Path)
		switch c.Op {
		case repository.OpContainsFold:
			clauses = append(clauses, fmt.Sprintf("%s ILIKE '%%' || $%d || '%%'", ref, len(args)))
		default:
			if isIDPath(c.Path) {
				clauses = append(clauses, fmt.Sprintf("id::text = $%d", len(args)))
			} else {
				clauses = append(clauses, fmt.Sprintf("%s = $%d", ref, len(args)))
			}
		}
	}
	where := "WHERE kind = $1"
	if len(clauses) > 0 {
		where += " AND (" + strings.Join(clauses, " OR ") + ")"
	}
	return where, args
}

func isIDPath(path []string) bool {
	return len(path) == 1 && path[0] == "id"
}

func fieldRef(path []string) string {
	if isIDPath(path) {
		return "id::text"
	}
	return fmt.Sprintf("data#>>'{%s}'", strings.Join(path, ","))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*entity.Document, error) {
	var (
		doc  entity.Document
		kind string
		data []byte
	)
	if err := row.Scan(&doc.ID, &kind, &data, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	doc.Kind = entity.Kind(kind)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc.Fields); err != nil {
			return nil, err
		}
	}
	if doc.Fields == nil {
		doc.Fields = map[string]any{}
	}
	return &doc, nil
}

var _ repository.DocumentStore = (*DocumentStore)(nil)
