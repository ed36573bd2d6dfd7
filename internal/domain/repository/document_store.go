package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/storefront-admin/internal/domain/entity"
)

// ErrNoDocument is returned by FindOne when nothing matches the filter.
var ErrNoDocument = errors.New("document not found")

// MatchOp is the comparison applied by a filter condition.
type MatchOp int

const (
	// OpEquals matches the field value exactly.
	OpEquals MatchOp = iota
	// OpContainsFold matches when the field contains the value as a
	// case-insensitive substring.
	OpContainsFold
)

// Condition compares one field path against a value.
type Condition struct {
	Path  []string
	Op    MatchOp
	Value string
}

// Filter is a structural predicate over documents of one kind. Conditions
// are OR-combined; an empty filter matches every document.
type Filter struct {
	Any []Condition
}

// ByID filters on the document identifier.
func ByID(id string) Filter {
	return Filter{Any: []Condition{{Path: []string{"id"}, Op: OpEquals, Value: id}}}
}

// FieldEquals filters on one field path matching value exactly.
func FieldEquals(path []string, value string) Filter {
	return Filter{Any: []Condition{{Path: path, Op: OpEquals, Value: value}}}
}

// AnyContainsFold matches documents where any of the given field paths
// contains term case-insensitively.
func AnyContainsFold(paths [][]string, term string) Filter {
	f := Filter{Any: make([]Condition, 0, len(paths))}
	for _, p := range paths {
		f.Any = append(f.Any, Condition{Path: p, Op: OpContainsFold, Value: term})
	}
	return f
}

// DocumentStore is the persistence collaborator for schemaless documents.
// Save is an upsert with last-write-wins semantics: there is no version
// check, the most recently completed save fully determines stored state.
type DocumentStore interface {
	// FindOne returns the first matching document or ErrNoDocument.
	FindOne(ctx context.Context, kind entity.Kind, f Filter) (*entity.Document, error)
	// Find returns matching documents in insertion order.
	Find(ctx context.Context, kind entity.Kind, f Filter) ([]entity.Document, error)
	// Save inserts the document, assigning an ID when empty, or replaces the
	// stored record with the same ID.
	Save(ctx context.Context, doc *entity.Document) error
	// Delete removes matching documents; deleting nothing is not an error.
	Delete(ctx context.Context, kind entity.Kind, f Filter) error
}
