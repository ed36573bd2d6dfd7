package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/storefront-admin/config"
	"github.com/oksasatya/storefront-admin/internal/domain/entity"
	pginfra "github.com/oksasatya/storefront-admin/internal/infrastructure/postgres"
	"github.com/oksasatya/storefront-admin/pkg/helpers"
)

// Seeds a back-office admin user and a small sample catalog.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	store := pginfra.NewDocumentStore(pool)

	password := "changeme"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	admin := &entity.Document{
		Kind: entity.KindUser,
		Fields: map[string]any{
			"email":    "admin@example.com",
			"password": hash,
			"profile":  map[string]any{"name": "Admin"},
		},
	}
	if err := store.Save(ctx, admin); err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=admin@example.com password=%s\n", admin.ID, password)

	samples := []*entity.Document{
		{Kind: entity.KindProduct, Fields: map[string]any{"name": "Widget", "price": "19.99", "description": "A sample widget"}},
		{Kind: entity.KindProduct, Fields: map[string]any{"name": "Gadget", "price": "49.00", "description": "A sample gadget"}},
		{Kind: entity.KindProject, Fields: map[string]any{"name": "Portfolio Site", "project_url": "https://example.com"}},
	}
	for _, doc := range samples {
		if err := store.Save(ctx, doc); err != nil {
			log.Fatalf("failed to seed %s: %v", doc.Kind, err)
		}
		fmt.Printf("seeded %s: id=%s\n", doc.Kind, doc.ID)
	}
}
