package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront-admin/internal/container"
	handlers "github.com/oksasatya/storefront-admin/internal/interface/http"
	"github.com/oksasatya/storefront-admin/internal/interface/middleware"
)

// StorefrontModule wires the public routes: the landing catalog and the
// one-shot charge endpoint.
type StorefrontModule struct {
	Handler *handlers.StorefrontHandler
}

func NewStorefrontModule(h *handlers.StorefrontHandler) *StorefrontModule {
	return &StorefrontModule{Handler: h}
}

func (m *StorefrontModule) Register(rg *gin.RouterGroup) {
	landingLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
	chargeLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.GET("/storefront", landingLimiter, m.Handler.Landing)
	rg.POST("/storefront/charge", chargeLimiter, m.Handler.Charge)
}
