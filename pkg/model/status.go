package model

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingProvisional BookingStatus = "PROVISIONAL"
	BookingConfirmed   BookingStatus = "CONFIRMED"
	BookingCancelled   BookingStatus = "CANCELLED"
	BookingExpired     BookingStatus = "EXPIRED"
)

// transitions encodes the booking state machine. PROVISIONAL may move to
// any of the three outcomes; CONFIRMED may still be cancelled (refund
// path); CANCELLED and EXPIRED are terminal.
var transitions = map[BookingStatus][]BookingStatus{
	BookingProvisional: {BookingConfirmed, BookingCancelled, BookingExpired},
	BookingConfirmed:   {BookingCancelled},
	BookingCancelled:   {},
	BookingExpired:     {},
}

func (s BookingStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// PaymentStatus is the outcome state of a payment attempt.
type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentPending PaymentStatus = "PENDING"
	PaymentFailed  PaymentStatus = "FAILED"
)

// PaymentMethod is the closed set of supported payment methods.
type PaymentMethod string

const (
	MethodCard         PaymentMethod = "CARD"
	MethodPayOnArrival PaymentMethod = "PAY_ON_ARRIVAL"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCard, MethodPayOnArrival, MethodBankTransfer:
		return true
	}
	return false
}
