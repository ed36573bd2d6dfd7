package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront-admin/internal/container"
	handlers "github.com/oksasatya/storefront-admin/internal/interface/http"
	"github.com/oksasatya/storefront-admin/internal/interface/middleware"
	"github.com/oksasatya/storefront-admin/pkg/helpers"
)

// AuthModule wires login/refresh/logout for back-office users.
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.POST("/logout", m.Handler.Logout)
	}
}
