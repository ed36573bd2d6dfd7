package entity

// Schema enumerates, per kind, which payload keys are allowed to reach a
// stored document. Merging is a field-wise overwrite over this explicit set;
// unknown keys in a payload are dropped instead of deep-merged blindly.
type Schema struct {
	Kind Kind

	// Mergeable lists the top-level keys a payload may create or overwrite.
	Mergeable []string

	// Nested maps a mergeable key holding an object (e.g. "profile") to the
	// subkeys merged recursively inside it.
	Nested map[string][]string

	// Protected keys are stamped once at creation and never overwritten by a
	// payload (e.g. a post's author).
	Protected []string

	// Searchable are the field paths matched by List's substring search.
	Searchable [][]string

	// Label are the field paths tried in order for a human-readable summary
	// of a saved document.
	Label [][]string
}

var schemas = map[Kind]Schema{
	KindUser: {
		Kind:      KindUser,
		Mergeable: []string{"email", "password", "profile"},
		Nested:    map[string][]string{"profile": {"name", "location", "website"}},
		Searchable: [][]string{
			{"email"},
			{"profile", "name"},
		},
		Label: [][]string{
			{"profile", "name"},
			{"email"},
		},
	},
	KindPost: {
		Kind:       KindPost,
		Mergeable:  []string{"title", "body"},
		Protected:  []string{"author"},
		Searchable: [][]string{{"title"}},
		Label:      [][]string{{"title"}},
	},
	KindProject: {
		Kind:      KindProject,
		Mergeable: []string{"name", "project_url", "description"},
		Searchable: [][]string{
			{"name"},
			{"project_url"},
		},
		Label: [][]string{{"name"}},
	},
	KindProduct: {
		Kind:       KindProduct,
		Mergeable:  []string{"name", "price", "description", "image"},
		Searchable: [][]string{{"name"}},
		Label:      [][]string{{"name"}},
	},
	KindFile: {
		Kind:      KindFile,
		Mergeable: []string{"originalname", "filename", "mimetype", "destination", "size"},
		Searchable: [][]string{
			{"originalname"},
			{"filename"},
		},
		Label: [][]string{{"originalname"}},
	},
}

// SchemaFor returns the schema registered for a kind.
func SchemaFor(k Kind) (Schema, bool) {
	s, ok := schemas[k]
	return s, ok
}

// New builds a fresh document of the schema's kind from a payload. Keys
// outside the mergeable set (including a stray empty "id") are discarded.
func (s Schema) New(payload map[string]any) *Document {
	doc := &Document{Kind: s.Kind, Fields: map[string]any{}}
	s.Merge(doc, payload)
	return doc
}

// Merge copies payload values into dst field-wise: every mergeable key
// present in the payload overwrites the stored value, keys absent from the
// payload are preserved. Nested object keys are merged subkey by subkey.
func (s Schema) Merge(dst *Document, payload map[string]any) {
	if dst.Fields == nil {
		dst.Fields = map[string]any{}
	}
	for _, key := range s.Mergeable {
		v, ok := payload[key]
		if !ok {
			continue
		}
		sub, nested := s.Nested[key]
		if !nested {
			dst.Fields[key] = v
			continue
		}
		src, ok := v.(map[string]any)
		if !ok {
			// scalar where an object lives: overwrite wholesale
			dst.Fields[key] = v
			continue
		}
		cur, _ := dst.Fields[key].(map[string]any)
		if cur == nil {
			cur = map[string]any{}
		}
		for _, sk := range sub {
			if sv, ok := src[sk]; ok {
				cur[sk] = sv
			}
		}
		dst.Fields[key] = cur
	}
}

// LabelFor picks the first non-empty label field for confirmation messages,
// falling back to the document ID.
func (s Schema) LabelFor(d *Document) string {
	for _, path := range s.Label {
		if v := d.StringField(path...); v != "" {
			return v
		}
	}
	return d.ID
}
