package entity

import (
	"time"
)

// Kind tags a document with its resource type. It selects the schema used
// for merging, validation and search.
type Kind string

const (
	KindUser    Kind = "user"
	KindPost    Kind = "post"
	KindProject Kind = "project"
	KindProduct Kind = "product"
	KindFile    Kind = "file"
)

// ParseKind maps a route/request string onto a known Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindUser, KindPost, KindProject, KindProduct, KindFile:
		return Kind(s), true
	}
	return "", false
}

// Document is a schemaless persisted record. Fields holds the kind-specific
// payload; the set of keys that may appear there is bounded by the kind's
// Schema, not by the struct type.
type Document struct {
	ID        string         `json:"id"`
	Kind      Kind           `json:"kind"`
	Fields    map[string]any `json:"fields"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Field resolves a nested path like ("profile", "name") against Fields.
func (d *Document) Field(path ...string) (any, bool) {
	if d == nil || len(path) == 0 {
		return nil, false
	}
	var cur any = d.Fields
	for _, p := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// StringField returns the value at path when it is a string, else "".
func (d *Document) StringField(path ...string) string {
	v, ok := d.Field(path...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Clone returns a deep copy so callers can merge without aliasing the
// original field maps.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Fields = cloneMap(d.Fields)
	return &cp
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			out[k] = cloneMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}
