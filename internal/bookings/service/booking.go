package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "boatsafari/internal/bookings/errors"
	"boatsafari/internal/bookings/notify"
	"boatsafari/internal/bookings/repository"
	"boatsafari/internal/bookings/validator"
	"boatsafari/pkg/config"
	apperrors "boatsafari/pkg/errors"
	"boatsafari/pkg/model"
	"boatsafari/pkg/sanitizer"
)

// sweepBatchSize bounds how many stale holds one sweep pass expires.
const sweepBatchSize = 500

// Advisory lock tuning. A contended lock is retried a few times before
// reporting a conflict, so the loser of a simultaneous pair usually
// gets the real availability verdict once the winner commits. The
// expiry stamp is a crash fallback; the TTL monitor that honors it
// runs on a minute-scale cycle, not instantly.
const (
	lockHoldTimeout   = 10 * time.Second
	lockRetryAttempts = 3
	lockRetryDelay    = 25 * time.Millisecond
)

type BookingService interface {
	Reserve(ctx context.Context, req *model.ReservationRequest) (*model.Booking, error)
	Confirm(ctx context.Context, id string) (*model.Booking, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id string, to model.BookingStatus) (*model.Booking, error)
	ForceConfirm(ctx context.Context, id string) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	GetByTrip(ctx context.Context, tripID string) ([]*model.Booking, error)
	ExpireStaleHolds(ctx context.Context) (int, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	tripRepo  repository.TripRepository
	lockRepo  repository.TripLockRepository
	validator *validator.BookingValidator
	holds     *HoldManager
	ledger    *CapacityLedger
	hub       *notify.Hub
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	tripRepo repository.TripRepository,
	lockRepo repository.TripLockRepository,
	bookingValidator *validator.BookingValidator,
	holds *HoldManager,
	ledger *CapacityLedger,
	hub *notify.Hub,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		tripRepo:  tripRepo,
		lockRepo:  lockRepo,
		validator: bookingValidator,
		holds:     holds,
		ledger:    ledger,
		hub:       hub,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Reserve creates a PROVISIONAL booking with a seat hold. The capacity
// check and insert run inside one transaction, serialized per trip by
// an advisory lock, so two racing requests can never jointly oversell.
func (s *bookingService) Reserve(ctx context.Context, req *model.ReservationRequest) (*model.Booking, error) {
	s.sanitizeRequest(req)
	if err := s.validator.ValidateReservation(req); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}

	lockID, err := s.acquireTripLock(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseTripLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release trip lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	now := s.now()
	holdExpiry := s.holds.NextExpiry(now)
	var booking *model.Booking

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		trip, err := s.tripRepo.FindByID(sessCtx, req.TripID)
		if err != nil {
			if errors.Is(err, bookingserrors.ErrTripNotFound) {
				return apperrors.NotFoundWithID("Trip", req.TripID)
			}
			return apperrors.Internal("Failed to load trip", err)
		}

		committed, err := s.ledger.CommittedSeats(sessCtx, req.TripID)
		if err != nil {
			return err
		}
		available := trip.Capacity - committed
		if available < 0 {
			available = 0
		}
		if req.Passengers > available {
			return apperrors.CapacityExceeded(req.Passengers, available)
		}

		booking = &model.Booking{
			TripID:        req.TripID,
			Name:          req.Name,
			Contact:       req.Contact,
			Email:         req.Email,
			Passengers:    req.Passengers,
			Status:        model.BookingProvisional,
			HoldExpiresAt: &holdExpiry,
			TotalCost:     trip.Price * float64(req.Passengers),
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to reserve booking", "trip_id", req.TripID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking reserved",
		"id", booking.ID,
		"trip_id", booking.TripID,
		"passengers", booking.Passengers,
		"hold_expires_at", holdExpiry,
	)
	s.hub.BookingCreated(ctx, booking)
	return booking, nil
}

// Confirm moves a PROVISIONAL booking with a live hold to CONFIRMED.
// An expired hold is rejected even before the sweep has marked the
// booking EXPIRED.
func (s *bookingService) Confirm(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status != model.BookingProvisional {
		return nil, apperrors.InvalidState(
			fmt.Sprintf("Cannot confirm booking in status %s", booking.Status),
			map[string]any{"status": string(booking.Status)},
		)
	}
	if booking.HoldExpired(s.now()) {
		return nil, apperrors.HoldExpired(id)
	}

	if err := s.transition(ctx, booking, model.BookingConfirmed); err != nil {
		return nil, err
	}
	return booking, nil
}

// Cancel is allowed from PROVISIONAL or CONFIRMED; terminal states
// reject it.
func (s *bookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransitionTo(model.BookingCancelled) {
		return nil, apperrors.InvalidState(
			fmt.Sprintf("Cannot cancel booking in status %s", booking.Status),
			map[string]any{"status": string(booking.Status)},
		)
	}

	if err := s.transition(ctx, booking, model.BookingCancelled); err != nil {
		return nil, err
	}
	return booking, nil
}

// UpdateStatus applies an administrative transition. The state machine
// still binds: terminal states stay terminal, and an invalid target
// status is rejected before any lookup. Unlike Confirm, the hold timer
// is not consulted, so an operator can confirm a booking whose hold
// lapsed while the customer was on the phone.
func (s *bookingService) UpdateStatus(ctx context.Context, id string, to model.BookingStatus) (*model.Booking, error) {
	if !to.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown booking status %q", string(to)))
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status == to {
		return booking, nil
	}
	if !booking.Status.CanTransitionTo(to) {
		return nil, apperrors.InvalidState(
			fmt.Sprintf("Cannot move booking from %s to %s", booking.Status, to),
			map[string]any{"status": string(booking.Status), "requested": string(to)},
		)
	}

	if err := s.transition(ctx, booking, to); err != nil {
		return nil, err
	}
	return booking, nil
}

// ForceConfirm sets a booking CONFIRMED regardless of hold state. A
// settled payment outranks the hold timer: the money moved, so the
// seat is honored rather than refunded over a clock race. Cancelled
// bookings stay cancelled.
func (s *bookingService) ForceConfirm(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status == model.BookingCancelled {
		return nil, apperrors.InvalidState(
			"Cannot confirm a cancelled booking",
			map[string]any{"status": string(booking.Status)},
		)
	}
	if booking.Status == model.BookingConfirmed {
		return booking, nil
	}

	old := booking.Status
	if err := s.repo.ForceStatus(ctx, id, model.BookingConfirmed); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to force-confirm booking", err)
	}

	booking.Status = model.BookingConfirmed
	booking.HoldExpiresAt = nil

	s.cfg.Log.Warn("Booking force-confirmed past hold state",
		"id", id,
		"previous_status", old,
	)
	s.hub.BookingStatusChanged(ctx, booking, old, model.BookingConfirmed)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) GetByTrip(ctx context.Context, tripID string) ([]*model.Booking, error) {
	if tripID == "" {
		return nil, apperrors.InvalidInput("Trip ID cannot be empty")
	}

	bookings, err := s.repo.FindByTrip(ctx, tripID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings for trip", "trip_id", tripID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings for trip", err)
	}

	return bookings, nil
}

// ExpireStaleHolds transitions every PROVISIONAL booking with a lapsed
// hold to EXPIRED. A booking that was confirmed or cancelled between
// the scan and the update is skipped, not failed: the optimistic status
// filter makes the sweep safe to race against live traffic.
func (s *bookingService) ExpireStaleHolds(ctx context.Context) (int, error) {
	now := s.now()
	stale, err := s.repo.FindStaleProvisional(ctx, now, sweepBatchSize)
	if err != nil {
		return 0, apperrors.Internal("Failed to scan for stale holds", err)
	}

	expired := 0
	for _, booking := range stale {
		err := s.repo.UpdateStatus(ctx, booking.ID, model.BookingProvisional, model.BookingExpired, nil)
		if err != nil {
			if errors.Is(err, bookingserrors.ErrStatusChanged) || errors.Is(err, bookingserrors.ErrNotFound) {
				continue
			}
			s.cfg.Log.Error("Failed to expire stale hold", "id", booking.ID, "error", err)
			continue
		}

		old := booking.Status
		booking.Status = model.BookingExpired
		booking.HoldExpiresAt = nil
		expired++

		s.cfg.Log.Info("Stale hold expired", "id", booking.ID, "trip_id", booking.TripID)
		s.hub.BookingStatusChanged(ctx, booking, old, model.BookingExpired)
	}

	return expired, nil
}

// --- Helpers ---

// transition performs an optimistic status update from the booking's
// loaded status and emits the change. Losing the race surfaces as an
// invalid-state conflict.
func (s *bookingService) transition(ctx context.Context, booking *model.Booking, to model.BookingStatus) error {
	old := booking.Status

	err := s.repo.UpdateStatus(ctx, booking.ID, old, to, nil)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrStatusChanged) {
			return apperrors.InvalidState(
				"Booking status changed concurrently, please retry",
				map[string]any{"expected_status": string(old)},
			)
		}
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", booking.ID)
		}
		return apperrors.Internal("Failed to update booking status", err)
	}

	booking.Status = to
	booking.HoldExpiresAt = nil

	s.cfg.Log.Info("Booking status updated",
		"id", booking.ID,
		"old_status", old,
		"new_status", to,
	)
	s.hub.BookingStatusChanged(ctx, booking, old, to)
	return nil
}

func (s *bookingService) sanitizeRequest(req *model.ReservationRequest) {
	req.TripID = sanitizer.TrimAndNormalize(req.TripID)
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Contact = sanitizer.NormalizeContact(req.Contact)
	req.Email = sanitizer.NormalizeEmail(req.Email)
}

// acquireTripLock creates an advisory lock to serialize reservations
// for one trip. A held lock is retried briefly before giving up with a
// conflict, since reservation transactions complete well under the
// retry window.
func (s *bookingService) acquireTripLock(ctx context.Context, tripID string) (string, error) {
	lockID := fmt.Sprintf("trip_lock_%s", tripID)

	for attempt := 1; ; attempt++ {
		lock := &model.TripLock{
			ID:        lockID,
			ExpiresAt: s.now().Add(lockHoldTimeout),
		}

		_, err := s.lockRepo.Create(ctx, lock)
		if err == nil {
			return lockID, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Internal("Failed to acquire trip lock", err)
		}
		if attempt == lockRetryAttempts {
			return "", apperrors.Conflict("This trip is currently being booked by another request. Please try again.")
		}

		select {
		case <-ctx.Done():
			return "", apperrors.Internal("Reservation abandoned while waiting for trip lock", ctx.Err())
		case <-time.After(lockRetryDelay):
		}
	}
}

func (s *bookingService) releaseTripLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
