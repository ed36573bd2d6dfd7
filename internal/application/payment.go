package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-admin/internal/domain/entity"
	"github.com/oksasatya/storefront-admin/internal/domain/repository"
	"github.com/oksasatya/storefront-admin/pkg/helpers"
	"github.com/oksasatya/storefront-admin/pkg/mailer"
	"github.com/oksasatya/storefront-admin/pkg/payment"
)

// Gateway is the payment collaborator. It returns the gateway charge ID.
type Gateway interface {
	Charge(ctx context.Context, req payment.Request) (string, error)
}

// Receipt summarizes a completed charge.
type Receipt struct {
	ChargeID    string `json:"charge_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
}

// PaymentService charges a one-time payment token for a product. The
// operation is strictly at-most-once from this system's perspective: any
// outcome, success or failure, ends without a retry.
type PaymentService struct {
	Store       repository.DocumentStore
	Gateway     Gateway
	Currency    string
	Pub         *helpers.RabbitPublisher
	NotifyEmail string
	Logger      *logrus.Logger
}

func NewPaymentService(store repository.DocumentStore, gw Gateway, currency string, pub *helpers.RabbitPublisher, notifyEmail string, logger *logrus.Logger) *PaymentService {
	return &PaymentService{Store: store, Gateway: gw, Currency: currency, Pub: pub, NotifyEmail: notifyEmail, Logger: logger}
}

// Charge loads the product, converts its price to minor units and submits a
// single charge. On success a receipt notification job is queued, best
// effort.
func (s *PaymentService) Charge(ctx context.Context, productID, token string) (*Receipt, error) {
	product, err := s.Store.FindOne(ctx, entity.KindProduct, repository.ByID(productID))
	if err != nil {
		if errors.Is(err, repository.ErrNoDocument) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Err: err}
	}

	amount, err := MinorUnits(product.StringField("price"))
	if err != nil {
		return nil, &ValidationError{Messages: []string{"Price is not valid"}}
	}

	name := product.StringField("name")
	chargeID, err := s.Gateway.Charge(ctx, payment.Request{
		Amount:      amount,
		Currency:    s.Currency,
		Description: name,
		Token:       token,
	})
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", productID).Warn("charge failed")
		}
		return nil, err
	}

	receipt := &Receipt{
		ChargeID:    chargeID,
		ProductID:   product.ID,
		ProductName: name,
		Amount:      amount,
		Currency:    s.Currency,
	}
	s.queueReceipt(ctx, receipt)
	return receipt, nil
}

// queueReceipt publishes a receipt email job for the back office. Failures
// are logged, never surfaced: the charge already succeeded.
func (s *PaymentService) queueReceipt(ctx context.Context, r *Receipt) {
	if s.Pub == nil || s.NotifyEmail == "" {
		return
	}
	job := mailer.EmailJob{
		To:      s.NotifyEmail,
		Subject: "Payment received: " + r.ProductName,
		Text: fmt.Sprintf("Charge %s accepted for %s: %d %s (minor units).",
			r.ChargeID, r.ProductName, r.Amount, strings.ToUpper(r.Currency)),
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("charge_id", r.ChargeID).Warn("receipt publish failed")
	}
}

// MinorUnits converts a currency string like "19.99" or "$1,200" into minor
// units (price x 100, rounded).
func MinorUnits(price string) (int64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", "+", "").Replace(strings.TrimSpace(price))
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(f * 100)), nil
}
