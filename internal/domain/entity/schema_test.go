package entity

import (
	"testing"
)

func TestMergeOverwritesOnlyPayloadKeys(t *testing.T) {
	schema, _ := SchemaFor(KindProject)
	doc := schema.New(map[string]any{
		"name":        "Old Name",
		"project_url": "https://old.example.com",
	})

	schema.Merge(doc, map[string]any{"name": "New Name"})

	if got := doc.StringField("name"); got != "New Name" {
		t.Errorf("name = %q, want %q", got, "New Name")
	}
	if got := doc.StringField("project_url"); got != "https://old.example.com" {
		t.Errorf("project_url overwritten: %q", got)
	}
}

func TestMergeDropsUnknownKeys(t *testing.T) {
	schema, _ := SchemaFor(KindProduct)
	doc := schema.New(map[string]any{
		"name":     "Widget",
		"price":    "19.99",
		"is_admin": true,
		"id":       "",
	})

	if _, ok := doc.Fields["is_admin"]; ok {
		t.Error("unknown payload key reached the document")
	}
	if _, ok := doc.Fields["id"]; ok {
		t.Error("stray id key reached the document")
	}
}

func TestMergeNestedProfile(t *testing.T) {
	schema, _ := SchemaFor(KindUser)
	doc := schema.New(map[string]any{
		"email": "a@b.com",
		"profile": map[string]any{
			"name":     "Alice",
			"location": "Lisbon",
		},
	})

	schema.Merge(doc, map[string]any{
		"profile": map[string]any{"name": "Alicia"},
	})

	if got := doc.StringField("profile", "name"); got != "Alicia" {
		t.Errorf("profile.name = %q, want %q", got, "Alicia")
	}
	if got := doc.StringField("profile", "location"); got != "Lisbon" {
		t.Errorf("profile.location = %q, want preserved %q", got, "Lisbon")
	}
	if got := doc.StringField("email"); got != "a@b.com" {
		t.Errorf("email = %q, want preserved", got)
	}
}

func TestMergeSkipsProtectedKeys(t *testing.T) {
	schema, _ := SchemaFor(KindPost)
	doc := schema.New(map[string]any{"title": "Hello", "body": "world"})
	doc.Fields["author"] = "user-1"

	schema.Merge(doc, map[string]any{"title": "Hi", "author": "user-2"})

	if got := doc.StringField("author"); got != "user-1" {
		t.Errorf("author = %q, want unchanged %q", got, "user-1")
	}
	if got := doc.StringField("title"); got != "Hi" {
		t.Errorf("title = %q, want %q", got, "Hi")
	}
}

func TestLabelFor(t *testing.T) {
	userSchema, _ := SchemaFor(KindUser)

	withName := userSchema.New(map[string]any{
		"email":   "a@b.com",
		"profile": map[string]any{"name": "Alice"},
	})
	if got := userSchema.LabelFor(withName); got != "Alice" {
		t.Errorf("label = %q, want %q", got, "Alice")
	}

	withoutName := userSchema.New(map[string]any{"email": "a@b.com"})
	if got := userSchema.LabelFor(withoutName); got != "a@b.com" {
		t.Errorf("label = %q, want fallback to email", got)
	}

	empty := userSchema.New(nil)
	empty.ID = "doc-1"
	if got := userSchema.LabelFor(empty); got != "doc-1" {
		t.Errorf("label = %q, want fallback to id", got)
	}
}

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"user", "post", "project", "product", "file"} {
		if _, ok := ParseKind(valid); !ok {
			t.Errorf("ParseKind(%q) not recognized", valid)
		}
	}
	if _, ok := ParseKind("invoice"); ok {
		t.Error("ParseKind accepted an unknown kind")
	}
}
