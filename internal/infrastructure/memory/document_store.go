// Package memory provides a map-backed DocumentStore used by tests and the
// no-database development mode.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/storefront-admin/internal/domain/entity"
	"github.com/oksasatya/storefront-admin/internal/domain/repository"
)

type DocumentStore struct {
	mu   sync.RWMutex
	docs map[entity.Kind]map[string]*entity.Document
	seq  map[string]int // insertion order per document id
	next int
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs: map[entity.Kind]map[string]*entity.Document{},
		seq:  map[string]int{},
	}
}

func (s *DocumentStore) FindOne(ctx context.Context, kind entity.Kind, f repository.Filter) (*entity.Document, error) {
	docs, err := s.Find(ctx, kind, f)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, repository.ErrNoDocument
	}
	return &docs[0], nil
}

func (s *DocumentStore) Find(_ context.Context, kind entity.Kind, f repository.Filter) ([]entity.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []entity.Document
	for _, doc := range s.docs[kind] {
		if matches(doc, f) {
			out = append(out, *doc.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return s.seq[out[i].ID] < s.seq[out[j].ID]
	})
	return out, nil
}

func (s *DocumentStore) Save(_ context.Context, doc *entity.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	doc.UpdatedAt = now

	byID := s.docs[doc.Kind]
	if byID == nil {
		byID = map[string]*entity.Document{}
		s.docs[doc.Kind] = byID
	}
	if prev, ok := byID[doc.ID]; ok {
		doc.CreatedAt = prev.CreatedAt
	} else {
		doc.CreatedAt = now
		s.next++
		s.seq[doc.ID] = s.next
	}
	byID[doc.ID] = doc.Clone()
	return nil
}

func (s *DocumentStore) Delete(_ context.Context, kind entity.Kind, f repository.Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, doc := range s.docs[kind] {
		if matches(doc, f) {
			delete(s.docs[kind], id)
			delete(s.seq, id)
		}
	}
	return nil
}

func matches(doc *entity.Document, f repository.Filter) bool {
	if len(f.Any) == 0 {
		return true
	}
	for _, c := range f.Any {
		var val string
		if len(c.Path) == 1 && c.Path[0] == "id" {
			val = doc.ID
		} else {
			val = doc.StringField(c.Path...)
		}
		switch c.Op {
		case repository.OpContainsFold:
			if val != "" && strings.Contains(strings.ToLower(val), strings.ToLower(c.Value)) {
				return true
			}
		default:
			if val == c.Value {
				return true
			}
		}
	}
	return false
}

var _ repository.DocumentStore = (*DocumentStore)(nil)
