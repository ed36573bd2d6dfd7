package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront-admin/internal/application"
	"github.com/oksasatya/storefront-admin/pkg/payment"
	"github.com/oksasatya/storefront-admin/pkg/response"
)

// writeError maps the application error taxonomy onto HTTP statuses. The
// presentation text stays close to the legacy flash messages.
func writeError(c *gin.Context, err error) {
	var verr *application.ValidationError
	var perr *application.PersistenceError

	switch {
	case errors.As(err, &verr):
		response.Fail[any](c, http.StatusBadRequest, "validation failed", verr.Messages)
	case errors.Is(err, application.ErrNotFound), errors.Is(err, application.ErrUnknownKind):
		response.Fail[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, application.ErrBatchTooLarge):
		response.Fail[any](c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, payment.ErrCardDeclined):
		response.Fail[any](c, http.StatusPaymentRequired, "Error: Card has been declined.", nil)
	case errors.Is(err, payment.ErrPaymentFailed):
		response.Fail[any](c, http.StatusPaymentRequired, "Error: Payment did not go through.", nil)
	case errors.As(err, &perr):
		response.Fail[any](c, http.StatusInternalServerError, "could not save record", nil)
	default:
		response.Fail[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}
