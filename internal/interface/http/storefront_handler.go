package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-admin/internal/application"
	"github.com/oksasatya/storefront-admin/pkg/response"
	"github.com/oksasatya/storefront-admin/pkg/validation"
)

// StorefrontHandler serves the public pages' data: the landing catalog and
// the charge endpoint.
type StorefrontHandler struct {
	Storefront      *application.StorefrontService
	Payments        *application.PaymentService
	StripePublicKey string
	Logger          *logrus.Logger
}

func NewStorefrontHandler(sf *application.StorefrontService, pay *application.PaymentService, stripePublicKey string, logger *logrus.Logger) *StorefrontHandler {
	return &StorefrontHandler{Storefront: sf, Payments: pay, StripePublicKey: stripePublicKey, Logger: logger}
}

// Landing handles GET /storefront.
func (h *StorefrontHandler) Landing(c *gin.Context) {
	landing, err := h.Storefront.Landing(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"projects": landing.Projects,
		"products": landing.Products,
		"stripe":   h.StripePublicKey,
	}, "storefront", nil)
}

type chargeRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Token     string `json:"token" binding:"required"`
}

// Charge handles POST /storefront/charge. Whatever the outcome, the caller
// is expected to land back on the storefront; there is no retry here.
func (h *StorefrontHandler) Charge(c *gin.Context) {
	var req chargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	receipt, err := h.Payments.Charge(c.Request.Context(), req.ProductID, req.Token)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, receipt, "Success: Payment has been accepted.", nil)
}
