// Package payment wraps the card-charging gateway. Credentials are injected
// at construction; nothing reads ambient global configuration.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

var (
	// ErrCardDeclined means the card was rejected by the issuer.
	ErrCardDeclined = errors.New("card declined")
	// ErrPaymentFailed covers every other gateway failure.
	ErrPaymentFailed = errors.New("payment failed")
)

// Request describes a single charge in minor currency units.
type Request struct {
	Amount      int64
	Currency    string
	Description string
	Token       string
}

// Stripe submits charges through the Stripe API. Each charge is issued
// exactly once; retries are the gateway's concern, not ours.
type Stripe struct {
	api *client.API
}

func NewStripe(secretKey string) *Stripe {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Stripe{api: api}
}

// Charge submits one charge request and returns the gateway charge ID.
func (s *Stripe) Charge(ctx context.Context, req Request) (string, error) {
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(req.Amount),
		Currency:    stripe.String(req.Currency),
		Description: stripe.String(req.Description),
	}
	params.Context = ctx
	if err := params.SetSource(req.Token); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	ch, err := s.api.Charges.New(params)
	if err != nil {
		var sErr *stripe.Error
		if errors.As(err, &sErr) && sErr.Type == stripe.ErrorTypeCard {
			return "", fmt.Errorf("%w: %v", ErrCardDeclined, sErr.Msg)
		}
		return "", fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	return ch.ID, nil
}
