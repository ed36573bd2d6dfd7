package application

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/storefront-admin/internal/domain/entity"
	"github.com/oksasatya/storefront-admin/internal/domain/repository"
	"github.com/oksasatya/storefront-admin/pkg/helpers"
)

// Landing is the public storefront payload: the full project portfolio and
// product catalog.
type Landing struct {
	Projects []entity.Document `json:"projects"`
	Products []entity.Document `json:"products"`
}

// StorefrontService serves the public landing data, cached in Redis until a
// catalog write invalidates it.
type StorefrontService struct {
	Store    repository.DocumentStore
	Redis    *redis.Client
	CacheTTL time.Duration
	Logger   *logrus.Logger
}

func NewStorefrontService(store repository.DocumentStore, rdb *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) *StorefrontService {
	return &StorefrontService{Store: store, Redis: rdb, CacheTTL: cacheTTL, Logger: logger}
}

// Landing returns projects and products, fetched concurrently on a cache
// miss.
func (s *StorefrontService) Landing(ctx context.Context) (*Landing, error) {
	if s.Redis != nil {
		var cached Landing
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, storefrontCacheKey, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	var landing Landing
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, err := s.Store.Find(gctx, entity.KindProject, repository.Filter{})
		landing.Projects = docs
		return err
	})
	g.Go(func() error {
		docs, err := s.Store.Find(gctx, entity.KindProduct, repository.Filter{})
		landing.Products = docs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, storefrontCacheKey, &landing, s.CacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("storefront cache write failed")
		}
	}
	return &landing, nil
}
