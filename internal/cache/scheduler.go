package cache

import (
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the automatic refresh period
const DefaultInterval = 5 * time.Second

// Scheduler decides when a snapshot fetch starts.
// At most one fetch is in flight; manual requests made while busy coalesce into a single follow-up fetch.
// Every method that returns true obliges the caller to start exactly one fetch and to call Complete when it ends.
type Scheduler struct {
	interval time.Duration
	nextDue  time.Time
	inFlight bool
	pending  bool

	started int // Fetches started
	skipped int // Ticks dropped because a fetch was in flight
	logger  *zap.Logger
}

// NewScheduler creates a scheduler with the given interval
func NewScheduler(interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		interval: interval,
		logger:   logger,
	}
}

// Begin starts the initial fetch
func (s *Scheduler) Begin(now time.Time) bool {
	s.logger.Info("Starting refresh scheduler", zap.Duration("interval", s.interval))
	if s.inFlight {
		return false
	}
	s.start(now)
	return true
}

// Tick starts a fetch when the countdown has elapsed and nothing is in flight
func (s *Scheduler) Tick(now time.Time) bool {
	if now.Before(s.nextDue) {
		return false
	}
	if s.inFlight {
		s.skipped++
		s.nextDue = now.Add(s.interval)
		s.logger.Debug("Refresh tick skipped, fetch in flight", zap.Int("skipped", s.skipped))
		return false
	}
	s.start(now)
	return true
}

// RequestNow handles a manual refresh. While a fetch is in flight the request is remembered instead.
func (s *Scheduler) RequestNow(now time.Time) bool {
	s.nextDue = now.Add(s.interval)
	if s.inFlight {
		if !s.pending {
			s.logger.Debug("Refresh requested while in flight, coalescing")
		}
		s.pending = true
		return false
	}
	s.start(now)
	return true
}

// Complete marks the running fetch as finished. It returns true when a coalesced request must start now.
func (s *Scheduler) Complete(now time.Time) bool {
	if !s.inFlight {
		return false
	}
	s.inFlight = false
	s.nextDue = now.Add(s.interval)

	if s.pending {
		s.pending = false
		s.start(now)
		return true
	}
	return false
}

// Remaining returns the time until the next automatic fetch
func (s *Scheduler) Remaining(now time.Time) time.Duration {
	if s.inFlight {
		return 0
	}
	d := s.nextDue.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// InFlight reports whether a fetch is running
func (s *Scheduler) InFlight() bool {
	return s.inFlight
}

// Pending reports whether a coalesced fetch is queued
func (s *Scheduler) Pending() bool {
	return s.pending
}

// Interval returns the refresh interval
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// GetStatus returns the scheduler counters
func (s *Scheduler) GetStatus() SchedulerStatus {
	return SchedulerStatus{
		InFlight: s.inFlight,
		Pending:  s.pending,
		Started:  s.started,
		Skipped:  s.skipped,
		Interval: s.interval,
	}
}

// SchedulerStatus represents the current state of the scheduler
type SchedulerStatus struct {
	InFlight bool
	Pending  bool
	Started  int
	Skipped  int
	Interval time.Duration
}

func (s *Scheduler) start(now time.Time) {
	s.inFlight = true
	s.started++
	s.nextDue = now.Add(s.interval)
}
