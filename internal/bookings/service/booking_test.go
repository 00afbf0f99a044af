package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "boatsafari/internal/bookings/errors"
	"boatsafari/internal/bookings/notify"
	"boatsafari/internal/bookings/validator"
	"boatsafari/pkg/config"
	mongotx "boatsafari/pkg/db/mongo"
	apperrors "boatsafari/pkg/errors"
	"boatsafari/pkg/logger"
	"boatsafari/pkg/model"
)

// --- Mocks ---

type mockBookingRepo struct {
	createFunc               func(ctx context.Context, booking *model.Booking) error
	findByIDFunc             func(ctx context.Context, id string) (*model.Booking, error)
	findAllFunc              func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	findByTripFunc           func(ctx context.Context, tripID string) ([]*model.Booking, error)
	findStaleProvisionalFunc func(ctx context.Context, now time.Time, limit int) ([]*model.Booking, error)
	updateStatusFunc         func(ctx context.Context, id string, from, to model.BookingStatus, holdExpiresAt *time.Time) error
	forceStatusFunc          func(ctx context.Context, id string, to model.BookingStatus) error
	attachPaymentFunc        func(ctx context.Context, id string, paymentID string) error
	countFunc                func(ctx context.Context) (int64, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "507f1f77bcf86cd799439099"
	return nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepo) FindByTrip(ctx context.Context, tripID string) ([]*model.Booking, error) {
	if m.findByTripFunc != nil {
		return m.findByTripFunc(ctx, tripID)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepo) FindStaleProvisional(ctx context.Context, now time.Time, limit int) ([]*model.Booking, error) {
	if m.findStaleProvisionalFunc != nil {
		return m.findStaleProvisionalFunc(ctx, now, limit)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus, holdExpiresAt *time.Time) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, from, to, holdExpiresAt)
	}
	return nil
}

func (m *mockBookingRepo) ForceStatus(ctx context.Context, id string, to model.BookingStatus) error {
	if m.forceStatusFunc != nil {
		return m.forceStatusFunc(ctx, id, to)
	}
	return nil
}

func (m *mockBookingRepo) AttachPayment(ctx context.Context, id string, paymentID string) error {
	if m.attachPaymentFunc != nil {
		return m.attachPaymentFunc(ctx, id, paymentID)
	}
	return nil
}

func (m *mockBookingRepo) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockTripRepo struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Trip, error)
	findAllFunc  func(ctx context.Context, limit int, offset int64) ([]*model.Trip, error)
	countFunc    func(ctx context.Context) (int64, error)
}

func (m *mockTripRepo) FindByID(ctx context.Context, id string) (*model.Trip, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrTripNotFound
}

func (m *mockTripRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Trip, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Trip{}, nil
}

func (m *mockTripRepo) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

// mockLockRepo emulates the advisory lock collection's unique _id
// semantics in memory.
type mockLockRepo struct {
	mu sync.Mutex

	held map[string]bool
	// fail rejects every Create; transientFailures rejects only the
	// first N, emulating a lock released by its holder mid-contention.
	fail              bool
	transientFailures int
	calls             int
	last              *model.TripLock
}

func newMockLockRepo() *mockLockRepo {
	return &mockLockRepo{held: make(map[string]bool)}
}

func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

func (m *mockLockRepo) Create(ctx context.Context, lock *model.TripLock) (*model.TripLock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail || m.held[lock.ID] {
		return nil, duplicateKeyErr()
	}
	if m.transientFailures > 0 {
		m.transientFailures--
		return nil, duplicateKeyErr()
	}
	m.held[lock.ID] = true
	m.last = lock
	return lock, nil
}

func (m *mockLockRepo) Delete(ctx context.Context, lockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, lockID)
	return nil
}

// --- Helpers ---

const (
	testTripID    = "507f1f77bcf86cd799439011"
	testBookingID = "507f1f77bcf86cd799439099"
)

func testConfig() *config.Config {
	return &config.Config{
		Log:            logger.New(logger.Config{Level: logger.ERROR, Service: "service-test"}),
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		HoldDuration:   15 * time.Minute,
		GatewayTimeout: time.Second,
	}
}

func testTrip() *model.Trip {
	return &model.Trip{
		ID:       testTripID,
		Name:     "Morning River Safari",
		Date:     time.Now().Add(48 * time.Hour),
		Capacity: 10,
		Price:    45.00,
	}
}

func validRequest() *model.ReservationRequest {
	return &model.ReservationRequest{
		TripID:     testTripID,
		Name:       "Nimal Perera",
		Contact:    "+94771234567",
		Email:      "nimal@example.com",
		Passengers: 2,
	}
}

func newTestBookingService(t *testing.T, repo *mockBookingRepo, trips *mockTripRepo, locks *mockLockRepo) *bookingService {
	t.Helper()
	cfg := testConfig()
	return &bookingService{
		repo:      repo,
		tripRepo:  trips,
		lockRepo:  locks,
		validator: validator.NewBookingValidator(cfg.Log),
		holds:     NewHoldManager(cfg.HoldDuration),
		ledger:    NewCapacityLedger(trips, repo),
		hub:       notify.NewHub(cfg.Log),
		cfg:       cfg,
		now:       time.Now,
	}
}

func wantAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != code {
		t.Fatalf("error code = %s, want %s (err: %v)", appErr.Code, code, err)
	}
}

// --- Reserve ---

func TestReserve_Success(t *testing.T) {
	trips := &mockTripRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Trip, error) {
			return testTrip(), nil
		},
	}
	repo := &mockBookingRepo{}
	svc := newTestBookingService(t, repo, trips, newMockLockRepo())

	before := time.Now()
	booking, err := svc.Reserve(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Reserve returned error: %v", err)
	}

	if booking.Status != model.BookingProvisional {
		t.Errorf("status = %s, want PROVISIONAL", booking.Status)
	}
	if booking.TotalCost != 90.00 {
		t.Errorf("total cost = %.2f, want 90.00", booking.TotalCost)
	}
	if booking.HoldExpiresAt == nil {
		t.Fatal("hold expiry should be set on a provisional booking")
	}
	wantExpiry := before.Add(15 * time.Minute)
	if booking.HoldExpiresAt.Before(wantExpiry.Add(-time.Minute)) || booking.HoldExpiresAt.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("hold expiry %v not near %v", booking.HoldExpiresAt, wantExpiry)
	}
}

func TestReserve_CapacityExceeded(t *testing.T) {
	trips := &mockTripRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Trip, error) {
			return testTrip(), nil
		},
	}
	repo := &mockBookingRepo{
		findByTripFunc: func(ctx context.Context, tripID string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: "a", TripID: tripID, Passengers: 8, Status: model.BookingConfirmed},
			}, nil
		},
	}
	svc := newTestBookingService(t, repo, trips, newMockLockRepo())

	req := validRequest()
	req.Passengers = 3
	_, err := svc.Reserve(context.Background(), req)
	wantAppErrorCode(t, err, apperrors.CodeCapacity)

	appErr := apperrors.AsAppError(err)
	if appErr.Details["available"] != 2 {
		t.Errorf("available detail = %v, want 2", appErr.Details["available"])
	}
}

func TestReserve_ExpiredHoldFreesSeats(t *testing.T) {
	lapsed := time.Now().Add(-time.Minute)
	trips := &mockTripRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Trip, error) {
			return testTrip(), nil
		},
	}
	repo := &mockBookingRepo{
		findByTripFunc: func(ctx context.Context, tripID string) ([]*model.Booking, error) {
			// The whole boat is held, but the hold has lapsed.
			return []*model.Booking{
				{ID: "a", TripID: tripID, Passengers: 10, Status: model.BookingProvisional, HoldExpiresAt: &lapsed},
			}, nil
		},
	}
	svc := newTestBookingService(t, repo, trips, newMockLockRepo())

	booking, err := svc.Reserve(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("expired hold should free its seats, got %v", err)
	}
	if booking.Status != model.BookingProvisional {
		t.Errorf("status = %s, want PROVISIONAL", booking.Status)
	}
}

func TestReserve_ValidationFails(t *testing.T) {
	svc := newTestBookingService(t, &mockBookingRepo{}, &mockTripRepo{}, newMockLockRepo())

	req := validRequest()
	req.Email = "not-an-email"
	_, err := svc.Reserve(context.Background(), req)
	wantAppErrorCode(t, err, apperrors.CodeValidation)
}

func TestReserve_TripNotFound(t *testing.T) {
	svc := newTestBookingService(t, &mockBookingRepo{}, &mockTripRepo{}, newMockLockRepo())

	_, err := svc.Reserve(context.Background(), validRequest())
	wantAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestReserve_LockConflict(t *testing.T) {
	trips := &mockTripRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Trip, error) {
			return testTrip(), nil
		},
	}
	locks := newMockLockRepo()
	locks.fail = true
	svc := newTestBookingService(t, &mockBookingRepo{}, trips, locks)

	_, err := svc.Reserve(context.Background(), validRequest())
	wantAppErrorCode(t, err, apperrors.CodeConflict)
}

// TestReserve_ContendedLockReportsCapacity covers the simultaneous-pair
// case: the loser waits out the winner's lock and then gets the real
// seat count back, not a bare conflict. The winner here has already
// filled the trip, so the retried attempt lands on CAPACITY_EXCEEDED.
func TestReserve_ContendedLockReportsCapacity(t *testing.T) {
	trips := &mockTripRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Trip, error) {
			return testTrip(), nil
		},
	}
	repo := &mockBookingRepo{
		findByTripFunc: func(ctx context.Context, tripID string) ([]*model.Booking, error) {
			full := provisionalBooking(10 * time.Minute)
			full.Status = model.BookingConfirmed
			full.HoldExpiresAt = nil
			full.Passengers = 10
			return []*model.Booking{full}, nil
		},
	}
	locks := newMockLockRepo()
	locks.transientFailures = 1
	svc := newTestBookingService(t, repo, trips, locks)

	fixed := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	_, err := svc.Reserve(context.Background(), validRequest())
	wantAppErrorCode(t, err, apperrors.CodeCapacity)

	if locks.calls != 2 {
		t.Errorf("lock attempts = %d, want 2 (one contended, one granted)", locks.calls)
	}
	if locks.last == nil {
		t.Fatal("no lock was granted")
	}
	if !locks.last.ExpiresAt.Equal(fixed.Add(lockHoldTimeout)) {
		t.Errorf("lock expiry = %v, want service clock + %v", locks.last.ExpiresAt, lockHoldTimeout)
	}
}

// TestReserve_ConcurrentNoOversell hammers Reserve from many
// goroutines against one 10-seat trip backed by an in-memory store.
// Run with -race. However the interleavings fall, committed seats must
// never exceed capacity.
func TestReserve_ConcurrentNoOversell(t *testing.T) {
	var mu sync.Mutex
	var stored []*model.Booking

	trips := &mockTripRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Trip, error) {
			return testTrip(), nil
		},
	}
	repo := &mockBookingRepo{
		findByTripFunc: func(ctx context.Context, tripID string) ([]*model.Booking, error) {
			mu.Lock()
			defer mu.Unlock()
			out := make([]*model.Booking, len(stored))
			copy(out, stored)
			return out, nil
		},
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			mu.Lock()
			defer mu.Unlock()
			booking.ID = testBookingID
			clone := *booking
			stored = append(stored, &clone)
			return nil
		},
	}
	svc := newTestBookingService(t, repo, trips, newMockLockRepo())

	const workers = 25
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			req := validRequest()
			req.Passengers = 1
			// The advisory lock rejects concurrent holders, so retry
			// on conflict the way a client would.
			for attempt := 0; attempt < 50; attempt++ {
				_, err := svc.Reserve(context.Background(), req)
				if err == nil {
					return
				}
				if apperrors.AsAppError(err).Code == apperrors.CodeConflict {
					time.Sleep(time.Millisecond)
					continue
				}
				return // capacity exhausted
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	seats := 0
	for _, b := range stored {
		seats += b.Passengers
	}
	if seats > 10 {
		t.Fatalf("oversold: %d seats committed on a 10-seat trip", seats)
	}
	if seats != 10 {
		t.Errorf("expected the trip to fill completely, committed %d/10", seats)
	}
}

// --- Confirm / Cancel ---

func provisionalBooking(holdIn time.Duration) *model.Booking {
	expiry := time.Now().Add(holdIn)
	return &model.Booking{
		ID:            testBookingID,
		TripID:        testTripID,
		Name:          "Nimal Perera",
		Contact:       "+94771234567",
		Email:         "nimal@example.com",
		Passengers:    2,
		Status:        model.BookingProvisional,
		HoldExpiresAt: &expiry,
		TotalCost:     90.00,
	}
}

func TestConfirm_Success(t *testing.T) {
	repo := &mockBookingRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return provisionalBooking(10 * time.Minute), nil
		},
	}
	svc := newTestBookingService(t, repo, &mockTripRepo{}, newMockLockRepo())

	booking, err := svc.Confirm(context.Background(), testBookingID)
	if err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}
	if booking.Status != model.BookingConfirmed {
		t.Errorf("status = %s, want CONFIRMED", booking.Status)
	}
	if booking.HoldExpiresAt != nil {
		t.Error("hold expiry should be cleared on confirmation")
	}
}

func TestConfirm_ExpiredHold(t *testing.T) {
	repo := &mockBookingRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return provisionalBooking(-time.Minute), nil
		},
	}
	svc := newTestBookingService(t, repo, &mockTripRepo{}, newMockLockRepo())

	_, err := svc.Confirm(context.Background(), testBookingID)
	wantAppErrorCode(t, err, apperrors.CodeHoldExpired)
}

func TestConfirm_WrongState(t *testing.T) {
	for _, status := range []model.BookingStatus{model.BookingConfirmed, model.BookingCancelled, model.BookingExpired} {
		t.Run(string(status), func(t *testing.T) {
			repo := &mockBookingRepo{
				findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
					b := provisionalBooking(10 * time.Minute)
					b.Status = status
					b.HoldExpiresAt = nil
					return b, nil
				},
			}
			svc := newTestBookingService(t, repo, &mockTripRepo{}, newMockLockRepo())

			_, err := svc.Confirm(context.Background(), testBookingID)
			wantAppErrorCode(t, err, apperrors.CodeInvalidState)
		})
	}
}

func TestConfirm_LostRace(t *testing.T) {
	repo := &mockBookingRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return provisionalBooking(10 * time.Minute), nil
		},
		updateStatusFunc: func(ctx context.Context, id string, from, to model.BookingStatus, holdExpiresAt *time.Time) error {
			// The sweep got here first.
			return bookingserrors.ErrStatusChanged
		},
	}
	svc := newTestBookingService(t, repo, &mockTripRepo{}, newMockLockRepo())

	_, err := svc.Confirm(context.Background(), testBookingID)
	wantAppErrorCode(t, err, apperrors.CodeInvalidState)
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name     string
		status   model.BookingStatus
		wantCode string
	}{
		{name: "provisional cancels", status: model.BookingProvisional},
		{name: "confirmed cancels", status: model.BookingConfirmed},
		{name: "expired is terminal", status: model.BookingExpired, wantCode: apperrors.CodeInvalidState},
		{name: "cancelled is terminal", status: model.BookingCancelled, wantCode: apperrors.CodeInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockBookingRepo{
				findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
					b := provisionalBooking(10 * time.Minute)
					b.Status = tt.status
					return b, nil
				},
			}
			svc := newTestBookingService(t, repo, &mockTripRepo{}, newMockLockRepo())

			booking, err := svc.Cancel(context.Background(), testBookingID)
			if tt.wantCode != "" {
				wantAppErrorCode(t, err, tt.wantCode)
				return
			}
			if err != nil {
				t.Fatalf("Cancel returned error: %v", err)
			}
			if booking.Status != model.BookingCancelled {
				t.Errorf("status = %s, want CANCELLED", booking.Status)
			}
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   model.BookingStatus
		to       model.BookingStatus
		wantCode string
	}{
		{name: "provisional confirms past lapsed hold", status: model.BookingProvisional, to: model.BookingConfirmed},
		{name: "confirmed cancels", status: model.BookingConfirmed, to: model.BookingCancelled},
		{name: "same status is idempotent", status: model.BookingConfirmed, to: model.BookingConfirmed},
		{name: "expired is terminal", status: model.BookingExpired, to: model.BookingConfirmed, wantCode: apperrors.CodeInvalidState},
		{name: "unknown status rejected", status: model.BookingProvisional, to: "SHIPPED", wantCode: apperrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockBookingRepo{
				findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
					b := provisionalBooking(-time.Minute)
					b.Status = tt.status
					return b, nil
				},
			}
			svc := newTestBookingService(t, repo, &mockTripRepo{}, newMockLockRepo())

			booking, err := svc.UpdateStatus(context.Background(), testBookingID, tt.to)
			if tt.wantCode != "" {
				wantAppErrorCode(t, err, tt.wantCode)
				return
			}
			if err != nil {
				t.Fatalf("UpdateStatus returned error: %v", err)
			}
			if booking.Status != tt.to {
				t.Errorf("status = %s, want %s", booking.Status, tt.to)
			}
		})
	}
}

func TestForceConfirm(t *testing.T) {
	tests := []struct {
		name     string
		status   model.BookingStatus
		wantCode string
	}{
		{name: "expired booking is revived", status: model.BookingExpired},
		{name: "provisional booking confirms", status: model.BookingProvisional},
		{name: "already confirmed is idempotent", status: model.BookingConfirmed},
		{name: "cancelled stays cancelled", status: model.BookingCancelled, wantCode: apperrors.CodeInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockBookingRepo{
				findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
					b := provisionalBooking(-time.Minute)
					b.Status = tt.status
					return b, nil
				},
			}
			svc := newTestBookingService(t, repo, &mockTripRepo{}, newMockLockRepo())

			booking, err := svc.ForceConfirm(context.Background(), testBookingID)
			if tt.wantCode != "" {
				wantAppErrorCode(t, err, tt.wantCode)
				return
			}
			if err != nil {
				t.Fatalf("ForceConfirm returned error: %v", err)
			}
			if booking.Status != model.BookingConfirmed {
				t.Errorf("status = %s, want CONFIRMED", booking.Status)
			}
		})
	}
}

// --- Sweep ---

func TestExpireStaleHolds(t *testing.T) {
	stale1 := provisionalBooking(-2 * time.Minute)
	stale1.ID = "507f1f77bcf86cd799439001"
	stale2 := provisionalBooking(-5 * time.Minute)
	stale2.ID = "507f1f77bcf86cd799439002"

	repo := &mockBookingRepo{
		findStaleProvisionalFunc: func(ctx context.Context, now time.Time, limit int) ([]*model.Booking, error) {
			return []*model.Booking{stale1, stale2}, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, from, to model.BookingStatus, holdExpiresAt *time.Time) error {
			if id == stale2.ID {
				// Confirmed by a payment while the sweep was scanning.
				return bookingserrors.ErrStatusChanged
			}
			if from != model.BookingProvisional || to != model.BookingExpired {
				t.Errorf("unexpected transition %s -> %s", from, to)
			}
			return nil
		},
	}
	svc := newTestBookingService(t, repo, &mockTripRepo{}, newMockLockRepo())

	expired, err := svc.ExpireStaleHolds(context.Background())
	if err != nil {
		t.Fatalf("ExpireStaleHolds returned error: %v", err)
	}
	if expired != 1 {
		t.Errorf("expired = %d, want 1 (the contested booking is skipped)", expired)
	}
}

func TestExpireStaleHolds_Empty(t *testing.T) {
	svc := newTestBookingService(t, &mockBookingRepo{}, &mockTripRepo{}, newMockLockRepo())

	expired, err := svc.ExpireStaleHolds(context.Background())
	if err != nil {
		t.Fatalf("ExpireStaleHolds returned error: %v", err)
	}
	if expired != 0 {
		t.Errorf("expired = %d, want 0", expired)
	}
}
