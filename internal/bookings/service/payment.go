package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "boatsafari/internal/bookings/errors"
	"boatsafari/internal/bookings/gateway"
	"boatsafari/internal/bookings/repository"
	"boatsafari/internal/bookings/validator"
	"boatsafari/pkg/config"
	apperrors "boatsafari/pkg/errors"
	"boatsafari/pkg/model"
)

type PaymentService interface {
	ProcessPayment(ctx context.Context, req *model.PaymentRequest) (*model.PaymentReceipt, error)
	GetByID(ctx context.Context, id string) (*model.Payment, error)
	GetByBooking(ctx context.Context, bookingID string) (*model.Payment, error)
}

type paymentService struct {
	bookings    BookingService
	bookingRepo repository.BookingRepository
	payments    repository.PaymentRepository
	gateway     gateway.PaymentGateway
	validator   *validator.BookingValidator
	cfg         *config.Config
	now         func() time.Time
}

func NewPaymentService(
	bookings BookingService,
	bookingRepo repository.BookingRepository,
	payments repository.PaymentRepository,
	gw gateway.PaymentGateway,
	bookingValidator *validator.BookingValidator,
	cfg *config.Config,
) PaymentService {
	return &paymentService{
		bookings:    bookings,
		bookingRepo: bookingRepo,
		payments:    payments,
		gateway:     gw,
		validator:   bookingValidator,
		cfg:         cfg,
		now:         time.Now,
	}
}

// ProcessPayment settles a payment for a booking and confirms it.
//
// The operation is idempotent per booking: if the booking already
// carries a SUCCESS payment, the prior receipt is returned and nothing
// is charged again. Instrument validation runs before the gateway is
// touched, so malformed cards never leave the process.
//
// A successful charge confirms the booking even when the hold lapsed
// while the gateway was settling: the customer's money moved, so the
// seat is honored rather than bounced over a clock race.
func (s *paymentService) ProcessPayment(ctx context.Context, req *model.PaymentRequest) (*model.PaymentReceipt, error) {
	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if prior, done := s.priorReceipt(ctx, booking); done {
		return prior, nil
	}

	if booking.Status == model.BookingCancelled {
		return nil, apperrors.InvalidState(
			"Cannot pay for a cancelled booking",
			map[string]any{"status": string(booking.Status)},
		)
	}

	if err := s.validator.ValidatePayment(req); err != nil {
		s.cfg.Log.Warn("Payment validation failed", "booking_id", req.BookingID, "error", err)
		return nil, apperrors.Validation("Payment validation failed", map[string]any{"error": err.Error()})
	}

	if req.Method == model.MethodPayOnArrival {
		return s.settlePayOnArrival(ctx, booking)
	}
	return s.settleCharge(ctx, booking, req)
}

// priorReceipt returns the receipt of an already-settled payment, if
// one exists. Failed attempts do not count; the customer may retry.
func (s *paymentService) priorReceipt(ctx context.Context, booking *model.Booking) (*model.PaymentReceipt, bool) {
	if booking.PaymentID == "" {
		return nil, false
	}

	payment, err := s.payments.FindByID(ctx, booking.PaymentID)
	if err != nil {
		if !errors.Is(err, bookingserrors.ErrPaymentNotFound) {
			s.cfg.Log.Error("Failed to load prior payment", "payment_id", booking.PaymentID, "error", err)
		}
		return nil, false
	}
	if payment.Status != model.PaymentSuccess {
		return nil, false
	}

	s.cfg.Log.Info("Payment already settled, returning prior receipt",
		"booking_id", booking.ID,
		"payment_id", payment.ID,
	)
	return &model.PaymentReceipt{
		BookingID:     booking.ID,
		PaymentID:     payment.ID,
		BookingStatus: booking.Status,
		PaymentStatus: payment.Status,
		Message:       "Payment already completed for this booking",
	}, true
}

// settleCharge runs a card or bank transfer charge through the gateway
// under the configured deadline and records the outcome either way, so
// a timed-out attempt is never left ambiguous.
func (s *paymentService) settleCharge(ctx context.Context, booking *model.Booking, req *model.PaymentRequest) (*model.PaymentReceipt, error) {
	chargeCtx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()

	outcome, err := s.gateway.Charge(chargeCtx, &gateway.ChargeRequest{
		BookingID:      booking.ID,
		Method:         req.Method,
		Amount:         booking.TotalCost,
		CardHolderName: req.CardHolderName,
		CardNumber:     req.CardNumber,
		AccountNumber:  req.AccountNumber,
	})
	if err != nil {
		payment := s.newPayment(booking, req.Method, model.PaymentFailed, "")
		payment.Fee = 0
		if recordErr := s.recordPayment(ctx, booking, payment); recordErr != nil {
			s.cfg.Log.Error("Failed to record failed payment", "booking_id", booking.ID, "error", recordErr)
		}

		if errors.Is(err, context.DeadlineExceeded) {
			s.cfg.Log.Error("Payment gateway timed out", "booking_id", booking.ID, "method", req.Method)
			return nil, apperrors.Timeout("Payment gateway timed out")
		}
		return nil, apperrors.Internal("Payment gateway call failed", err)
	}

	payment := s.newPayment(booking, req.Method, outcome.Status, outcome.TransactionRef)
	payment.Fee = outcome.Fee
	if err := s.recordPayment(ctx, booking, payment); err != nil {
		return nil, err
	}

	if outcome.Status != model.PaymentSuccess {
		s.cfg.Log.Warn("Payment declined",
			"booking_id", booking.ID,
			"payment_id", payment.ID,
			"message", outcome.Message,
		)
		return &model.PaymentReceipt{
			BookingID:     booking.ID,
			PaymentID:     payment.ID,
			BookingStatus: booking.Status,
			PaymentStatus: payment.Status,
			Message:       "Payment was declined",
		}, nil
	}

	confirmed, err := s.confirmPaidBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Payment settled",
		"booking_id", booking.ID,
		"payment_id", payment.ID,
		"method", payment.Method,
		"amount", payment.Amount,
		"fee", payment.Fee,
	)
	return &model.PaymentReceipt{
		BookingID:     booking.ID,
		PaymentID:     payment.ID,
		BookingStatus: confirmed.Status,
		PaymentStatus: payment.Status,
		Message:       "Payment successful, booking confirmed",
	}, nil
}

// settlePayOnArrival records a PENDING payment and confirms the
// booking immediately; the balance is collected at the jetty.
func (s *paymentService) settlePayOnArrival(ctx context.Context, booking *model.Booking) (*model.PaymentReceipt, error) {
	payment := s.newPayment(booking, model.MethodPayOnArrival, model.PaymentPending, "")
	if err := s.recordPayment(ctx, booking, payment); err != nil {
		return nil, err
	}

	confirmed, err := s.bookings.ForceConfirm(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Pay-on-arrival registered",
		"booking_id", booking.ID,
		"payment_id", payment.ID,
	)
	return &model.PaymentReceipt{
		BookingID:     booking.ID,
		PaymentID:     payment.ID,
		BookingStatus: confirmed.Status,
		PaymentStatus: payment.Status,
		Message:       "Booking confirmed, payment due on arrival",
	}, nil
}

// confirmPaidBooking confirms through the normal transition first and
// falls back to a forced confirmation when the hold lapsed or the
// sweep already marked the booking EXPIRED while the charge settled.
func (s *paymentService) confirmPaidBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	booking, err := s.bookings.Confirm(ctx, bookingID)
	if err == nil {
		return booking, nil
	}

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeHoldExpired && appErr.Code != apperrors.CodeInvalidState {
		return nil, err
	}

	return s.bookings.ForceConfirm(ctx, bookingID)
}

func (s *paymentService) newPayment(booking *model.Booking, method model.PaymentMethod, status model.PaymentStatus, ref string) *model.Payment {
	return &model.Payment{
		ID:             uuid.NewString(),
		BookingID:      booking.ID,
		Method:         method,
		Amount:         booking.TotalCost,
		Status:         status,
		TransactionRef: ref,
		PaidAt:         s.now().UTC().Truncate(time.Millisecond),
	}
}

// recordPayment persists the payment and attaches it to the booking in
// one transaction.
func (s *paymentService) recordPayment(ctx context.Context, booking *model.Booking, payment *model.Payment) error {
	err := s.bookingRepo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.payments.Create(sessCtx, payment); err != nil {
			return apperrors.Internal("Failed to record payment", err)
		}
		if err := s.bookingRepo.AttachPayment(sessCtx, booking.ID, payment.ID); err != nil {
			return apperrors.Internal("Failed to attach payment to booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to record payment", "booking_id", booking.ID, "error", err)
		return err
	}

	booking.PaymentID = payment.ID
	return nil
}

func (s *paymentService) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Payment ID cannot be empty")
	}

	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrPaymentNotFound) {
			return nil, apperrors.NotFoundWithID("Payment", id)
		}
		return nil, apperrors.Internal("Failed to retrieve payment", err)
	}

	return payment, nil
}

func (s *paymentService) GetByBooking(ctx context.Context, bookingID string) (*model.Payment, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	payment, err := s.payments.FindByBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrPaymentNotFound) {
			return nil, apperrors.NotFound("Payment for booking")
		}
		return nil, apperrors.Internal("Failed to retrieve payment", err)
	}

	return payment, nil
}
