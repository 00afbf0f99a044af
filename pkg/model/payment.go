package model

import "time"

// Payment records one payment attempt tied to exactly one booking. A
// booking carries at most one payment; a second attempt on a booking
// whose payment already succeeded is answered with the prior result.
type Payment struct {
	ID             string        `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID      string        `json:"booking_id" bson:"booking_id" validate:"required,mongodb"`
	Method         PaymentMethod `json:"method" bson:"method" validate:"required,oneof=CARD PAY_ON_ARRIVAL BANK_TRANSFER"`
	Amount         float64       `json:"amount" bson:"amount" validate:"gte=0"`
	Fee            float64       `json:"fee" bson:"fee" validate:"gte=0"`
	Status         PaymentStatus `json:"status" bson:"status" validate:"required,oneof=SUCCESS PENDING FAILED"`
	TransactionRef string        `json:"transaction_ref,omitempty" bson:"transaction_ref,omitempty"`
	PaidAt         time.Time     `json:"paid_at" bson:"paid_at"`
}

// PaymentRequest is the client input for paying for a booking. The
// detail fields required depend on the method: CARD needs the four
// card fields, BANK_TRANSFER needs the account number, PAY_ON_ARRIVAL
// needs nothing beyond the booking id.
type PaymentRequest struct {
	BookingID      string        `json:"booking_id" validate:"required,mongodb"`
	Method         PaymentMethod `json:"method" validate:"required,oneof=CARD PAY_ON_ARRIVAL BANK_TRANSFER"`
	CardHolderName string        `json:"card_holder_name,omitempty"`
	CardNumber     string        `json:"card_number,omitempty"`
	CardExpiry     string        `json:"card_expiry,omitempty"`
	CardCVV        string        `json:"card_cvv,omitempty"`
	AccountNumber  string        `json:"account_number,omitempty"`
}

// PaymentReceipt is what callers get back from the payment operation.
type PaymentReceipt struct {
	BookingID     string        `json:"booking_id"`
	PaymentID     string        `json:"payment_id"`
	BookingStatus BookingStatus `json:"booking_status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Message       string        `json:"message"`
}
