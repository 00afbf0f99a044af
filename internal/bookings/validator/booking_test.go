package validator

import (
	"strings"
	"testing"

	"boatsafari/pkg/logger"
	"boatsafari/pkg/model"
)

func newTestValidator(t *testing.T) *BookingValidator {
	t.Helper()
	return NewBookingValidator(logger.New(logger.Config{Level: logger.ERROR, Service: "validator-test"}))
}

func validReservation() *model.ReservationRequest {
	return &model.ReservationRequest{
		TripID:     "507f1f77bcf86cd799439011",
		Name:       "Nimal Perera",
		Contact:    "+94771234567",
		Email:      "nimal@example.com",
		Passengers: 2,
	}
}

func TestValidateReservation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *model.ReservationRequest)
		wantErr string
	}{
		{
			name:   "valid request",
			mutate: func(r *model.ReservationRequest) {},
		},
		{
			name:    "missing trip id",
			mutate:  func(r *model.ReservationRequest) { r.TripID = "" },
			wantErr: "TripID",
		},
		{
			name:    "malformed trip id",
			mutate:  func(r *model.ReservationRequest) { r.TripID = "not-an-oid" },
			wantErr: "TripID",
		},
		{
			name:    "name too short",
			mutate:  func(r *model.ReservationRequest) { r.Name = "A" },
			wantErr: "Name",
		},
		{
			name:    "contact not E.164",
			mutate:  func(r *model.ReservationRequest) { r.Contact = "0771234567" },
			wantErr: "Contact",
		},
		{
			name:    "invalid email",
			mutate:  func(r *model.ReservationRequest) { r.Email = "not-an-email" },
			wantErr: "Email",
		},
		{
			name:    "zero passengers",
			mutate:  func(r *model.ReservationRequest) { r.Passengers = 0 },
			wantErr: "Passengers",
		},
		{
			name:    "too many passengers",
			mutate:  func(r *model.ReservationRequest) { r.Passengers = 500 },
			wantErr: "Passengers",
		},
	}

	v := newTestValidator(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validReservation()
			tt.mutate(req)

			err := v.ValidateReservation(req)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error mentioning %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func validCardPayment() *model.PaymentRequest {
	return &model.PaymentRequest{
		BookingID:      "507f1f77bcf86cd799439011",
		Method:         model.MethodCard,
		CardHolderName: "Nimal Perera",
		CardNumber:     "4111 1111 1111 1111",
		CardExpiry:     "09/27",
		CardCVV:        "123",
	}
}

func TestValidatePaymentCard(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *model.PaymentRequest)
		wantErr string
	}{
		{
			name:   "valid card",
			mutate: func(r *model.PaymentRequest) {},
		},
		{
			name:   "card number without spaces",
			mutate: func(r *model.PaymentRequest) { r.CardNumber = "4111111111111111" },
		},
		{
			name:    "missing holder name",
			mutate:  func(r *model.PaymentRequest) { r.CardHolderName = "  " },
			wantErr: "CardHolderName",
		},
		{
			name:    "card number too short",
			mutate:  func(r *model.PaymentRequest) { r.CardNumber = "4111 1111 1111" },
			wantErr: "CardNumber",
		},
		{
			name:    "card number with letters",
			mutate:  func(r *model.PaymentRequest) { r.CardNumber = "4111x111111111111" },
			wantErr: "CardNumber",
		},
		{
			name:    "expiry month out of range",
			mutate:  func(r *model.PaymentRequest) { r.CardExpiry = "13/27" },
			wantErr: "CardExpiry",
		},
		{
			name:    "expiry wrong format",
			mutate:  func(r *model.PaymentRequest) { r.CardExpiry = "9/2027" },
			wantErr: "CardExpiry",
		},
		{
			name:    "cvv too long",
			mutate:  func(r *model.PaymentRequest) { r.CardCVV = "1234" },
			wantErr: "CardCVV",
		},
	}

	v := newTestValidator(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCardPayment()
			tt.mutate(req)

			err := v.ValidatePayment(req)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error mentioning %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidatePaymentBankTransfer(t *testing.T) {
	tests := []struct {
		name    string
		account string
		wantErr bool
	}{
		{name: "ten digits", account: "1234567890"},
		{name: "twenty digits", account: "12345678901234567890"},
		{name: "too short", account: "123456789", wantErr: true},
		{name: "too long", account: "123456789012345678901", wantErr: true},
		{name: "non-numeric", account: "12345abcde", wantErr: true},
		{name: "empty", account: "", wantErr: true},
	}

	v := newTestValidator(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &model.PaymentRequest{
				BookingID:     "507f1f77bcf86cd799439011",
				Method:        model.MethodBankTransfer,
				AccountNumber: tt.account,
			}

			err := v.ValidatePayment(req)
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidatePaymentPayOnArrival(t *testing.T) {
	v := newTestValidator(t)

	req := &model.PaymentRequest{
		BookingID: "507f1f77bcf86cd799439011",
		Method:    model.MethodPayOnArrival,
	}
	if err := v.ValidatePayment(req); err != nil {
		t.Fatalf("pay-on-arrival needs no instrument details, got %v", err)
	}
}
