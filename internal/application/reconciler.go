package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-admin/internal/domain/entity"
	"github.com/oksasatya/storefront-admin/internal/domain/repository"
	"github.com/oksasatya/storefront-admin/pkg/helpers"
	"github.com/oksasatya/storefront-admin/pkg/validation"
)

// storefrontCacheKey is the Redis key holding the cached public landing
// payload. Catalog writes invalidate it.
const storefrontCacheKey = "storefront:landing"

// Reconciler applies the create-or-merge-then-persist operation uniformly
// across resource kinds. The presence of an identifier is the sole signal
// distinguishing create from update.
//
// The find-merge-save sequence is not transactional: two concurrent calls
// against the same identifier race and the later save wins. That matches the
// store's last-write-wins contract and is accepted, not worked around.
type Reconciler struct {
	Store   repository.DocumentStore
	Redis   *redis.Client
	Logger  *logrus.Logger
	ES      *elasticsearch.Client
	ESIndex string
}

func NewReconciler(store repository.DocumentStore, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *Reconciler {
	return &Reconciler{Store: store, Redis: rdb, Logger: logger, ES: es, ESIndex: esIndex}
}

// Reconcile creates a new document of kind when id is empty, or fetches the
// existing one and merges payload into it field-wise. It returns the saved
// document and a human-readable label for confirmation messaging.
func (r *Reconciler) Reconcile(ctx context.Context, kind entity.Kind, id string, payload map[string]any, actor string) (*entity.Document, string, error) {
	schema, ok := entity.SchemaFor(kind)
	if !ok {
		return nil, "", ErrUnknownKind
	}

	payload = copyPayload(payload)
	creating := id == ""

	if err := r.validate(kind, payload, creating); err != nil {
		return nil, "", err
	}
	if kind == entity.KindUser {
		if err := hashPassword(payload); err != nil {
			return nil, "", &PersistenceError{Err: err}
		}
	}

	var doc *entity.Document
	if creating {
		doc = schema.New(payload)
		if kind == entity.KindPost {
			doc.Fields["author"] = actor
		}
	} else {
		existing, err := r.Store.FindOne(ctx, kind, repository.ByID(id))
		if err != nil {
			if errors.Is(err, repository.ErrNoDocument) {
				return nil, "", ErrNotFound
			}
			return nil, "", &PersistenceError{Err: err}
		}
		doc = existing.Clone()
		schema.Merge(doc, payload)
	}

	if err := r.Store.Save(ctx, doc); err != nil {
		if r.Logger != nil {
			r.Logger.WithError(err).WithField("kind", kind).Error("save failed")
		}
		return nil, "", &PersistenceError{Err: err}
	}

	r.indexDocument(ctx, doc)
	r.invalidateStorefront(ctx, kind)

	return doc, schema.LabelFor(doc), nil
}

// Get fetches a single document by identifier.
func (r *Reconciler) Get(ctx context.Context, kind entity.Kind, id string) (*entity.Document, error) {
	if _, ok := entity.SchemaFor(kind); !ok {
		return nil, ErrUnknownKind
	}
	doc, err := r.Store.FindOne(ctx, kind, repository.ByID(id))
	if err != nil {
		if errors.Is(err, repository.ErrNoDocument) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Err: err}
	}
	return doc, nil
}

// Remove unconditionally deletes by identifier. A missing record is not an
// error; there is no cascading cleanup of related documents.
func (r *Reconciler) Remove(ctx context.Context, kind entity.Kind, id string) error {
	if _, ok := entity.SchemaFor(kind); !ok {
		return ErrUnknownKind
	}
	if err := r.Store.Delete(ctx, kind, repository.ByID(id)); err != nil {
		return &PersistenceError{Err: err}
	}
	r.removeFromIndex(ctx, id)
	r.invalidateStorefront(ctx, kind)
	return nil
}

// List returns documents of kind, optionally narrowed to those where any of
// the kind's searchable fields contains search case-insensitively.
func (r *Reconciler) List(ctx context.Context, kind entity.Kind, search string) ([]entity.Document, error) {
	schema, ok := entity.SchemaFor(kind)
	if !ok {
		return nil, ErrUnknownKind
	}
	filter := repository.Filter{}
	if search != "" {
		filter = repository.AnyContainsFold(schema.Searchable, search)
	}
	docs, err := r.Store.Find(ctx, kind, filter)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	return docs, nil
}

// validate runs the kind-specific rules against the payload. Post and File
// are pass-through.
func (r *Reconciler) validate(kind entity.Kind, payload map[string]any, creating bool) error {
	var msgs []string
	switch kind {
	case entity.KindUser:
		if email, ok := stringValue(payload, "email"); ok && !validation.IsEmail(email) {
			msgs = append(msgs, "Email is not valid")
		}
		password, _ := stringValue(payload, "password")
		confirm, _ := stringValue(payload, "confirmPassword")
		if password != "" || confirm != "" {
			if len(password) < 4 {
				msgs = append(msgs, "Password must be at least 4 characters long")
			}
			if confirm != password {
				msgs = append(msgs, "Passwords do not match")
			}
		}
	case entity.KindProject:
		name, ok := stringValue(payload, "name")
		if (ok || creating) && strings.TrimSpace(name) == "" {
			msgs = append(msgs, "Name is required")
		}
	case entity.KindProduct:
		price, ok := stringValue(payload, "price")
		if (ok || creating) && !validation.IsCurrency(price) {
			msgs = append(msgs, "Price is not valid")
		}
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}

// hashPassword replaces a plaintext password in the payload with its bcrypt
// hash. The confirmation field never reaches storage; it is not mergeable.
func hashPassword(payload map[string]any) error {
	plain, _ := stringValue(payload, "password")
	if plain == "" {
		delete(payload, "password")
		return nil
	}
	hash, err := helpers.HashPassword(plain)
	if err != nil {
		return err
	}
	payload["password"] = hash
	return nil
}

// copyPayload shallow-copies the top level so validation and hashing never
// mutate the caller's map. A stray empty identifier is dropped here; the
// legacy forms always posted one.
func copyPayload(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		if k == "id" || k == "_id" {
			continue
		}
		out[k] = v
	}
	return out
}

func stringValue(payload map[string]any, key string) (string, bool) {
	v, ok := payload[key]
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, true
}

// indexDocument mirrors the saved document into Elasticsearch, best effort.
func (r *Reconciler) indexDocument(ctx context.Context, doc *entity.Document) {
	if r.ES == nil || r.ESIndex == "" {
		return
	}
	body := map[string]any{
		"id":         doc.ID,
		"kind":       doc.Kind,
		"fields":     doc.Fields,
		"updated_at": doc.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(body)
	req := esapi.IndexRequest{Index: r.ESIndex, DocumentID: doc.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, r.ES)
	if err != nil {
		if r.Logger != nil {
			r.Logger.WithError(err).WithField("doc_id", doc.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && r.Logger != nil {
		r.Logger.WithField("status", res.Status()).WithField("doc_id", doc.ID).Warn("es index response error")
	}
}

func (r *Reconciler) removeFromIndex(ctx context.Context, id string) {
	if r.ES == nil || r.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: r.ESIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, r.ES)
	if err != nil {
		if r.Logger != nil {
			r.Logger.WithError(err).WithField("doc_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// invalidateStorefront drops the cached landing payload when the public
// catalog changes.
func (r *Reconciler) invalidateStorefront(ctx context.Context, kind entity.Kind) {
	if r.Redis == nil {
		return
	}
	if kind != entity.KindProject && kind != entity.KindProduct {
		return
	}
	if err := helpers.RedisDel(ctx, r.Redis, storefrontCacheKey); err != nil && r.Logger != nil {
		r.Logger.WithError(err).Warn("storefront cache invalidation failed")
	}
}
