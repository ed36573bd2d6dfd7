package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront-admin/internal/container"
	handlers "github.com/oksasatya/storefront-admin/internal/interface/http"
	"github.com/oksasatya/storefront-admin/internal/interface/middleware"
	"github.com/oksasatya/storefront-admin/pkg/helpers"
)

// AdminModule wires the back-office CRUD routes. Everything under /admin
// requires an authenticated session; the session user becomes the acting
// principal for reconciliation.
type AdminModule struct {
	Handler *handlers.AdminHandler
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.AdminHandler, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetRedis(), m.JWT))
	admin.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		admin.POST("/uploads", m.Handler.Upload)
		admin.GET("/:kind", m.Handler.List)
		admin.POST("/:kind", m.Handler.Save)
		admin.GET("/:kind/:id", m.Handler.Get)
		admin.DELETE("/:kind/:id", m.Handler.Delete)
	}
}
