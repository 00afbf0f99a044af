package service

import (
	"context"
	"time"

	"boatsafari/pkg/logger"
)

// sweepRunTimeout bounds one sweep pass against a slow database.
const sweepRunTimeout = 30 * time.Second

// Sweeper periodically expires stale provisional holds. It is a safety
// net behind the lazy per-read expiry: capacity math is already correct
// without it, the sweep just moves lapsed bookings to their terminal
// EXPIRED state.
type Sweeper struct {
	bookings BookingService
	interval time.Duration
	log      *logger.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewSweeper(bookings BookingService, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{
		bookings: bookings,
		interval: interval,
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs one sweep immediately to clear holds that lapsed while
// the service was down, then sweeps on the configured interval until
// Stop is called.
func (s *Sweeper) Start() {
	go func() {
		defer close(s.doneCh)

		s.log.Info("Hold sweeper started", "interval", s.interval)
		s.sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopCh:
				s.log.Info("Hold sweeper stopped")
				return
			}
		}
	}()
}

// Stop halts the sweep loop and waits for any in-flight pass to finish.
func (s *Sweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepRunTimeout)
	defer cancel()

	expired, err := s.bookings.ExpireStaleHolds(ctx)
	if err != nil {
		s.log.Error("Hold sweep failed", "error", err)
		return
	}
	if expired > 0 {
		s.log.Info("Hold sweep completed", "expired", expired)
	}
}
