package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"boatsafari/pkg/logger"
)

type sweepCountingService struct {
	BookingService
	sweeps atomic.Int64
}

func (s *sweepCountingService) ExpireStaleHolds(ctx context.Context) (int, error) {
	s.sweeps.Add(1)
	return 0, nil
}

var _ BookingService = (*sweepCountingService)(nil)

func TestSweeperRunsOnStartupAndInterval(t *testing.T) {
	svc := &sweepCountingService{}
	log := logger.New(logger.Config{Level: logger.ERROR, Service: "sweeper-test"})
	sweeper := NewSweeper(svc, 10*time.Millisecond, log)

	sweeper.Start()
	time.Sleep(55 * time.Millisecond)
	sweeper.Stop()

	got := svc.sweeps.Load()
	if got < 2 {
		t.Errorf("expected the startup sweep plus at least one tick, got %d sweeps", got)
	}
}

func TestSweeperStopHaltsLoop(t *testing.T) {
	svc := &sweepCountingService{}
	log := logger.New(logger.Config{Level: logger.ERROR, Service: "sweeper-test"})
	sweeper := NewSweeper(svc, 5*time.Millisecond, log)

	sweeper.Start()
	sweeper.Stop()

	settled := svc.sweeps.Load()
	time.Sleep(30 * time.Millisecond)
	if got := svc.sweeps.Load(); got != settled {
		t.Errorf("sweeps continued after Stop: %d -> %d", settled, got)
	}
}
