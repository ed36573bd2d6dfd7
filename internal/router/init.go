package router

import (
	"github.com/oksasatya/storefront-admin/internal/application"
	"github.com/oksasatya/storefront-admin/internal/container"
	handlers "github.com/oksasatya/storefront-admin/internal/interface/http"
	"github.com/oksasatya/storefront-admin/internal/router/modules"
)

// InitModules builds every application service from the container singletons
// and registers the feature modules with the router registry. Called once
// during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	store := container.GetStore()

	reconciler := application.NewReconciler(store, container.GetRedis(), logger, container.GetES(), cfg.ESDocumentsIndex)
	uploads := application.NewUploadService(reconciler, container.GetGCS(), cfg.GCSBucket, logger)
	auth := application.NewAuthService(store, container.GetJWT(), container.GetRedis(), logger)
	storefront := application.NewStorefrontService(store, container.GetRedis(), cfg.StorefrontCacheTTL, logger)
	payments := application.NewPaymentService(store, container.GetGateway(), cfg.ChargeCurrency, container.GetRabbitPub(), cfg.ReceiptNotifyEmail, logger)

	adminHandler := handlers.NewAdminHandler(reconciler, uploads, cfg.UploadDestination, logger)
	storefrontHandler := handlers.NewStorefrontHandler(storefront, payments, cfg.StripePublicKey, logger)
	authHandler := handlers.NewAuthHandler(auth, logger, cfg.CookieDomain, cfg.CookieSecure)

	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewAdminModule(adminHandler, container.GetJWT()))
	r.Add(modules.NewStorefrontModule(storefrontHandler))
	r.Add(modules.NewDebugModule())
}
