package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/oksasatya/storefront-admin/internal/domain/entity"
	"github.com/oksasatya/storefront-admin/internal/infrastructure/memory"
	"github.com/oksasatya/storefront-admin/pkg/helpers"
)

func newTestReconciler() *Reconciler {
	return NewReconciler(memory.NewDocumentStore(), nil, nil, nil, "")
}

func TestReconcileCreatesRecordWithoutID(t *testing.T) {
	rec := newTestReconciler()
	ctx := context.Background()

	doc, label, err := rec.Reconcile(ctx, entity.KindProject, "", map[string]any{
		"id":          "",
		"name":        "Portfolio",
		"project_url": "https://example.com",
	}, "")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if doc.ID == "" {
		t.Error("no identifier assigned")
	}
	if label != "Portfolio" {
		t.Errorf("label = %q, want %q", label, "Portfolio")
	}
	if _, ok := doc.Fields["id"]; ok {
		t.Error("stray empty id persisted")
	}

	docs, err := rec.List(ctx, entity.KindProject, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d, want 1", len(docs))
	}
	if got := docs[0].StringField("name"); got != "Portfolio" {
		t.Errorf("stored name = %q", got)
	}
}

func TestReconcileMergesIntoExisting(t *testing.T) {
	rec := newTestReconciler()
	ctx := context.Background()

	created, _, err := rec.Reconcile(ctx, entity.KindProject, "", map[string]any{
		"name":        "Portfolio",
		"project_url": "https://example.com",
	}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, _, err := rec.Reconcile(ctx, entity.KindProject, created.ID, map[string]any{
		"name": "Portfolio v2",
	}, "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("identifier changed on update: %s -> %s", created.ID, updated.ID)
	}
	if got := updated.StringField("name"); got != "Portfolio v2" {
		t.Errorf("name = %q", got)
	}
	if got := updated.StringField("project_url"); got != "https://example.com" {
		t.Errorf("project_url = %q, want preserved", got)
	}

	// merge is idempotent: applying the same payload again changes nothing
	again, _, err := rec.Reconcile(ctx, entity.KindProject, created.ID, map[string]any{
		"name": "Portfolio v2",
	}, "")
	if err != nil {
		t.Fatalf("repeat update: %v", err)
	}
	if got := again.StringField("name"); got != "Portfolio v2" {
		t.Errorf("name after repeat = %q", got)
	}
	if got := again.StringField("project_url"); got != "https://example.com" {
		t.Errorf("project_url after repeat = %q", got)
	}
}

func TestReconcileUnknownIDIsNotFound(t *testing.T) {
	rec := newTestReconciler()

	_, _, err := rec.Reconcile(context.Background(), entity.KindProject, "missing", map[string]any{
		"name": "Ghost",
	}, "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReconcileUnknownKind(t *testing.T) {
	rec := newTestReconciler()
	if _, _, err := rec.Reconcile(context.Background(), entity.Kind("invoice"), "", nil, ""); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("err = %v, want ErrUnknownKind", err)
	}
}

func TestUserValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		wantMsg string // empty means success
	}{
		{
			name:    "invalid email",
			payload: map[string]any{"email": "bad"},
			wantMsg: "Email is not valid",
		},
		{
			name:    "short password",
			payload: map[string]any{"email": "a@b.com", "password": "abc", "confirmPassword": "abc"},
			wantMsg: "Password must be at least 4 characters long",
		},
		{
			name:    "mismatched confirmation",
			payload: map[string]any{"password": "abcd", "confirmPassword": "xyz"},
			wantMsg: "Passwords do not match",
		},
		{
			name:    "valid",
			payload: map[string]any{"email": "a@b.com", "password": "abcd", "confirmPassword": "abcd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newTestReconciler()
			_, _, err := rec.Reconcile(context.Background(), entity.KindUser, "", tt.payload, "")
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("reconcile: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			found := false
			for _, m := range verr.Messages {
				if m == tt.wantMsg {
					found = true
				}
			}
			if !found {
				t.Errorf("messages %v do not mention %q", verr.Messages, tt.wantMsg)
			}
		})
	}
}

func TestUserPasswordIsHashedAndConfirmationDropped(t *testing.T) {
	rec := newTestReconciler()

	doc, _, err := rec.Reconcile(context.Background(), entity.KindUser, "", map[string]any{
		"email":           "a@b.com",
		"password":        "hunter22",
		"confirmPassword": "hunter22",
	}, "")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	stored := doc.StringField("password")
	if stored == "hunter22" {
		t.Fatal("password stored in plaintext")
	}
	if !helpers.CompareHashAndPassword(stored, "hunter22") {
		t.Error("stored hash does not verify")
	}
	if _, ok := doc.Fields["confirmPassword"]; ok {
		t.Error("confirmation field persisted")
	}
}

func TestProductPriceValidation(t *testing.T) {
	rec := newTestReconciler()
	ctx := context.Background()

	if _, _, err := rec.Reconcile(ctx, entity.KindProduct, "", map[string]any{
		"name": "Widget", "price": "19.99",
	}, ""); err != nil {
		t.Fatalf("valid price rejected: %v", err)
	}

	_, _, err := rec.Reconcile(ctx, entity.KindProduct, "", map[string]any{
		"name": "Freebie", "price": "free",
	}, "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Messages[0] != "Price is not valid" {
		t.Errorf("message = %q", verr.Messages[0])
	}
}

func TestProjectNameRequired(t *testing.T) {
	rec := newTestReconciler()

	_, _, err := rec.Reconcile(context.Background(), entity.KindProject, "", map[string]any{
		"project_url": "https://example.com",
	}, "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestPostAuthorStampedFromActor(t *testing.T) {
	rec := newTestReconciler()
	ctx := context.Background()

	doc, _, err := rec.Reconcile(ctx, entity.KindPost, "", map[string]any{
		"title":  "Hello",
		"body":   "first post",
		"author": "intruder",
	}, "user-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := doc.StringField("author"); got != "user-1" {
		t.Fatalf("author = %q, want actor %q", got, "user-1")
	}

	updated, _, err := rec.Reconcile(ctx, entity.KindPost, doc.ID, map[string]any{
		"title":  "Hello again",
		"author": "user-2",
	}, "user-2")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := updated.StringField("author"); got != "user-1" {
		t.Errorf("author changed on update: %q", got)
	}
}

func TestListSearchIsCaseInsensitiveSubstring(t *testing.T) {
	rec := newTestReconciler()
	ctx := context.Background()

	for _, name := range []string{"Widget", "Gadget", "WIDE-load"} {
		if _, _, err := rec.Reconcile(ctx, entity.KindProduct, "", map[string]any{
			"name": name, "price": "1.00",
		}, ""); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	docs, err := rec.List(ctx, entity.KindProduct, "wid")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("len(docs) = %d, want 2", len(docs))
	}
	for _, d := range docs {
		name := strings.ToLower(d.StringField("name"))
		if !strings.Contains(name, "wid") {
			t.Errorf("unexpected match %q", d.StringField("name"))
		}
	}
}

func TestListSearchMatchesNestedProfileName(t *testing.T) {
	rec := newTestReconciler()
	ctx := context.Background()

	seed := []map[string]any{
		{"email": "alice@example.com", "profile": map[string]any{"name": "Alice"}},
		{"email": "bob@example.com", "profile": map[string]any{"name": "Bob"}},
	}
	for _, p := range seed {
		if _, _, err := rec.Reconcile(ctx, entity.KindUser, "", p, ""); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	docs, err := rec.List(ctx, entity.KindUser, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d, want 1", len(docs))
	}
	if got := docs[0].StringField("email"); got != "alice@example.com" {
		t.Errorf("matched %q", got)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	rec := newTestReconciler()
	ctx := context.Background()

	if err := rec.Remove(ctx, entity.KindProduct, "never-existed"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}

	doc, _, err := rec.Reconcile(ctx, entity.KindProduct, "", map[string]any{
		"name": "Widget", "price": "19.99",
	}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := rec.Remove(ctx, entity.KindProduct, doc.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := rec.Remove(ctx, entity.KindProduct, doc.ID); err != nil {
		t.Fatalf("second remove: %v", err)
	}

	docs, err := rec.List(ctx, entity.KindProduct, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, d := range docs {
		if d.ID == doc.ID {
			t.Error("removed document still listed")
		}
	}
}

// Two concurrent updates against the same identifier race; the store keeps
// whichever save landed last, wholesale. There must be no partial merge of
// both payloads.
func TestConcurrentReconcileLastWriteWins(t *testing.T) {
	rec := newTestReconciler()
	ctx := context.Background()

	doc, _, err := rec.Reconcile(ctx, entity.KindProduct, "", map[string]any{
		"name": "Widget", "price": "1.00",
	}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	payloads := []map[string]any{
		{"name": "Widget A", "price": "2.00"},
		{"name": "Widget B", "price": "3.00"},
	}
	var wg sync.WaitGroup
	for _, p := range payloads {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := rec.Reconcile(ctx, entity.KindProduct, doc.ID, p, ""); err != nil {
				t.Errorf("concurrent reconcile: %v", err)
			}
		}()
	}
	wg.Wait()

	final, err := rec.Get(ctx, entity.KindProduct, doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	name, price := final.StringField("name"), final.StringField("price")
	okA := name == "Widget A" && price == "2.00"
	okB := name == "Widget B" && price == "3.00"
	if !okA && !okB {
		t.Errorf("final state mixes both writers: name=%q price=%q", name, price)
	}
}
