package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"boatsafari/pkg/logger"
	"boatsafari/pkg/model"
)

// Fee schedule per payment method. Card charges carry a percentage
// processing fee; bank transfers a flat handling fee; pay-on-arrival
// costs nothing up front.
const (
	CardFeeRate     = 0.025
	BankTransferFee = 5.00
)

// DeclineCardNumber is the designated card the mock gateway declines,
// borrowed from the classic test-card range. It lets callers exercise
// the declined path without a real issuer.
const DeclineCardNumber = "4000000000000002"

// ChargeRequest carries everything the gateway needs to settle one
// payment attempt.
type ChargeRequest struct {
	BookingID      string
	Method         model.PaymentMethod
	Amount         float64
	CardHolderName string
	CardNumber     string
	AccountNumber  string
}

// ChargeOutcome is the gateway's verdict on a charge attempt.
type ChargeOutcome struct {
	Status         model.PaymentStatus
	Amount         float64
	Fee            float64
	TransactionRef string
	Message        string
}

// PaymentGateway settles charges with an external payment provider.
// Implementations must honor context cancellation: the caller bounds
// every charge with a deadline.
type PaymentGateway interface {
	Charge(ctx context.Context, req *ChargeRequest) (*ChargeOutcome, error)
}

// Fee computes the processing fee for a method and amount.
func Fee(method model.PaymentMethod, amount float64) float64 {
	switch method {
	case model.MethodCard:
		return amount * CardFeeRate
	case model.MethodBankTransfer:
		return BankTransferFee
	}
	return 0
}

type mockGateway struct {
	log *logger.Logger

	// latency simulates provider round-trip time; zero in tests.
	latency time.Duration
}

// NewMockGateway returns an in-process gateway that approves every
// well-formed charge except the designated decline card. It stands in
// for a real provider integration.
func NewMockGateway(log *logger.Logger, latency time.Duration) PaymentGateway {
	return &mockGateway{log: log, latency: latency}
}

func (g *mockGateway) Charge(ctx context.Context, req *ChargeRequest) (*ChargeOutcome, error) {
	if g.latency > 0 {
		select {
		case <-time.After(g.latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.Method == model.MethodCard && strings.ReplaceAll(req.CardNumber, " ", "") == DeclineCardNumber {
		g.log.Warn("Charge declined",
			"booking_id", req.BookingID,
			"method", req.Method,
			"amount", req.Amount,
		)
		return &ChargeOutcome{
			Status:  model.PaymentFailed,
			Amount:  req.Amount,
			Message: "card declined by issuer",
		}, nil
	}

	ref := transactionRef(req.Method)
	fee := Fee(req.Method, req.Amount)

	g.log.Info("Charge approved",
		"booking_id", req.BookingID,
		"method", req.Method,
		"amount", req.Amount,
		"fee", fee,
		"transaction_ref", ref,
	)

	return &ChargeOutcome{
		Status:         model.PaymentSuccess,
		Amount:         req.Amount,
		Fee:            fee,
		TransactionRef: ref,
		Message:        fmt.Sprintf("charge of %.2f approved", req.Amount),
	}, nil
}

func transactionRef(method model.PaymentMethod) string {
	prefix := "TX"
	switch method {
	case model.MethodCard:
		prefix = "CC"
	case model.MethodBankTransfer:
		prefix = "BT"
	}
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(uuid.NewString()[:8]))
}
