package application

import (
	"context"
	"errors"
	"testing"

	"github.com/oksasatya/storefront-admin/internal/domain/entity"
	"github.com/oksasatya/storefront-admin/internal/infrastructure/memory"
	"github.com/oksasatya/storefront-admin/pkg/payment"
)

// fakeGateway records the last charge request and returns a canned outcome.
type fakeGateway struct {
	lastReq  payment.Request
	chargeID string
	err      error
}

func (g *fakeGateway) Charge(_ context.Context, req payment.Request) (string, error) {
	g.lastReq = req
	if g.err != nil {
		return "", g.err
	}
	return g.chargeID, nil
}

func seedProduct(t *testing.T, store *memory.DocumentStore, name, price string) *entity.Document {
	t.Helper()
	doc := &entity.Document{
		Kind:   entity.KindProduct,
		Fields: map[string]any{"name": name, "price": price},
	}
	if err := store.Save(context.Background(), doc); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return doc
}

func TestChargeConvertsPriceToMinorUnits(t *testing.T) {
	store := memory.NewDocumentStore()
	product := seedProduct(t, store, "Widget", "19.99")
	gw := &fakeGateway{chargeID: "ch_123"}
	svc := NewPaymentService(store, gw, "usd", nil, "", nil)

	receipt, err := svc.Charge(context.Background(), product.ID, "tok_visa")
	if err != nil {
		t.Fatalf("charge: %v", err)
	}
	if gw.lastReq.Amount != 1999 {
		t.Errorf("amount = %d, want 1999", gw.lastReq.Amount)
	}
	if gw.lastReq.Currency != "usd" {
		t.Errorf("currency = %q", gw.lastReq.Currency)
	}
	if gw.lastReq.Token != "tok_visa" {
		t.Errorf("token = %q", gw.lastReq.Token)
	}
	if gw.lastReq.Description != "Widget" {
		t.Errorf("description = %q", gw.lastReq.Description)
	}
	if receipt.ChargeID != "ch_123" || receipt.ProductID != product.ID || receipt.Amount != 1999 {
		t.Errorf("receipt = %+v", receipt)
	}
}

func TestChargeUnknownProductIsNotFound(t *testing.T) {
	svc := NewPaymentService(memory.NewDocumentStore(), &fakeGateway{}, "usd", nil, "", nil)

	_, err := svc.Charge(context.Background(), "missing", "tok_visa")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestChargePassesThroughDecline(t *testing.T) {
	store := memory.NewDocumentStore()
	product := seedProduct(t, store, "Widget", "19.99")
	gw := &fakeGateway{err: payment.ErrCardDeclined}
	svc := NewPaymentService(store, gw, "usd", nil, "", nil)

	_, err := svc.Charge(context.Background(), product.ID, "tok_chargeDeclined")
	if !errors.Is(err, payment.ErrCardDeclined) {
		t.Fatalf("err = %v, want ErrCardDeclined", err)
	}
}

func TestChargeRejectsMangledPrice(t *testing.T) {
	store := memory.NewDocumentStore()
	product := seedProduct(t, store, "Widget", "not-a-price")
	svc := NewPaymentService(store, &fakeGateway{}, "usd", nil, "", nil)

	_, err := svc.Charge(context.Background(), product.ID, "tok_visa")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "19.99", want: 1999},
		{in: "0.10", want: 10},
		{in: "$1,200", want: 120000},
		{in: "  49.00 ", want: 4900},
		{in: "+5", want: 500},
		{in: "29.995", want: 3000},
		{in: "free", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := MinorUnits(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("MinorUnits(%q) = %d, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("MinorUnits(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("MinorUnits(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
