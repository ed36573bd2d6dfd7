package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oksasatya/storefront-admin/internal/domain/entity"
	"github.com/oksasatya/storefront-admin/internal/infrastructure/memory"
	"github.com/oksasatya/storefront-admin/pkg/helpers"
)

func seedUser(t *testing.T, store *memory.DocumentStore, email, password string) *entity.Document {
	t.Helper()
	hash, err := helpers.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	doc := &entity.Document{
		Kind: entity.KindUser,
		Fields: map[string]any{
			"email":    email,
			"password": hash,
			"profile":  map[string]any{"name": "Admin"},
		},
	}
	if err := store.Save(context.Background(), doc); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return doc
}

func newTestAuth(store *memory.DocumentStore) *AuthService {
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	return NewAuthService(store, jwt, nil, nil)
}

func TestAuthenticate(t *testing.T) {
	store := memory.NewDocumentStore()
	seedUser(t, store, "admin@example.com", "changeme")
	svc := newTestAuth(store)
	ctx := context.Background()

	u, err := svc.Authenticate(ctx, "admin@example.com", "changeme")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.StringField("email") != "admin@example.com" {
		t.Errorf("email = %q", u.StringField("email"))
	}

	if _, err := svc.Authenticate(ctx, "admin@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "changeme"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v", err)
	}
}

func TestLoginIssuesUsableTokens(t *testing.T) {
	store := memory.NewDocumentStore()
	user := seedUser(t, store, "admin@example.com", "changeme")
	svc := newTestAuth(store)

	resp, pair, err := svc.Login(context.Background(), "admin@example.com", "changeme")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.UserID != user.ID || resp.Email != "admin@example.com" || resp.Name != "Admin" {
		t.Errorf("resp = %+v", resp)
	}

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("claims.UserID = %q, want %q", claims.UserID, user.ID)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	store := memory.NewDocumentStore()
	user := seedUser(t, store, "admin@example.com", "changeme")
	svc := newTestAuth(store)
	ctx := context.Background()

	_, pair, err := svc.Login(ctx, "admin@example.com", "changeme")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	newPair, userID, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if userID != user.ID {
		t.Errorf("userID = %q, want %q", userID, user.ID)
	}
	if _, err := svc.JWT.ParseAccessToken(newPair.AccessToken); err != nil {
		t.Errorf("rotated access token invalid: %v", err)
	}

	if _, _, err := svc.Refresh(ctx, "garbage"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("garbage refresh: err = %v", err)
	}
	if _, _, err := svc.Refresh(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("access token used as refresh: err = %v", err)
	}
}
