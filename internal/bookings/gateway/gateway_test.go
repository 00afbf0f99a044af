package gateway

import (
	"context"
	"strings"
	"testing"
	"time"

	"boatsafari/pkg/logger"
	"boatsafari/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Service: "gateway-test"})
}

func TestFee(t *testing.T) {
	tests := []struct {
		name   string
		method model.PaymentMethod
		amount float64
		want   float64
	}{
		{name: "card takes percentage", method: model.MethodCard, amount: 100.00, want: 2.50},
		{name: "bank transfer is flat", method: model.MethodBankTransfer, amount: 100.00, want: 5.00},
		{name: "bank transfer flat regardless of amount", method: model.MethodBankTransfer, amount: 10.00, want: 5.00},
		{name: "pay on arrival is free", method: model.MethodPayOnArrival, amount: 100.00, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fee(tt.method, tt.amount)
			if got != tt.want {
				t.Errorf("Fee(%s, %.2f) = %.2f, want %.2f", tt.method, tt.amount, got, tt.want)
			}
		})
	}
}

func TestMockGatewayCharge(t *testing.T) {
	g := NewMockGateway(testLogger(), 0)

	outcome, err := g.Charge(context.Background(), &ChargeRequest{
		BookingID: "507f1f77bcf86cd799439011",
		Method:    model.MethodCard,
		Amount:    120.00,
	})
	if err != nil {
		t.Fatalf("Charge returned error: %v", err)
	}
	if outcome.Status != model.PaymentSuccess {
		t.Errorf("status = %s, want %s", outcome.Status, model.PaymentSuccess)
	}
	if outcome.Fee != 3.00 {
		t.Errorf("fee = %.2f, want 3.00", outcome.Fee)
	}
	if !strings.HasPrefix(outcome.TransactionRef, "CC-") {
		t.Errorf("transaction ref %q should carry the CC- prefix", outcome.TransactionRef)
	}
}

func TestMockGatewayDeclinesDesignatedCard(t *testing.T) {
	g := NewMockGateway(testLogger(), 0)

	outcome, err := g.Charge(context.Background(), &ChargeRequest{
		BookingID:  "507f1f77bcf86cd799439011",
		Method:     model.MethodCard,
		Amount:     120.00,
		CardNumber: "4000 0000 0000 0002",
	})
	if err != nil {
		t.Fatalf("Charge returned error: %v", err)
	}
	if outcome.Status != model.PaymentFailed {
		t.Errorf("status = %s, want %s", outcome.Status, model.PaymentFailed)
	}
	if outcome.TransactionRef != "" {
		t.Errorf("declined charge should carry no transaction ref, got %q", outcome.TransactionRef)
	}
	if outcome.Message == "" {
		t.Error("declined charge should explain itself")
	}
}

func TestMockGatewayTransactionRefPrefixes(t *testing.T) {
	g := NewMockGateway(testLogger(), 0)

	tests := []struct {
		method model.PaymentMethod
		prefix string
	}{
		{model.MethodCard, "CC-"},
		{model.MethodBankTransfer, "BT-"},
	}

	for _, tt := range tests {
		outcome, err := g.Charge(context.Background(), &ChargeRequest{
			BookingID: "507f1f77bcf86cd799439011",
			Method:    tt.method,
			Amount:    50.00,
		})
		if err != nil {
			t.Fatalf("Charge(%s) returned error: %v", tt.method, err)
		}
		if !strings.HasPrefix(outcome.TransactionRef, tt.prefix) {
			t.Errorf("ref %q for %s should start with %q", outcome.TransactionRef, tt.method, tt.prefix)
		}
	}
}

func TestMockGatewayHonorsContext(t *testing.T) {
	g := NewMockGateway(testLogger(), 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := g.Charge(ctx, &ChargeRequest{
		BookingID: "507f1f77bcf86cd799439011",
		Method:    model.MethodCard,
		Amount:    50.00,
	})
	if err == nil {
		t.Fatal("expected context deadline error, got nil")
	}
}
