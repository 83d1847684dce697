package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"odidscan/internal/capture"
	"odidscan/internal/odid"
)

// ScanState is the state of the scan scheduler
type ScanState int

const (
	ScanIdle ScanState = iota
	ScanRunning
	ScanFailed
)

// String returns the display name of a ScanState
func (s ScanState) String() string {
	switch s {
	case ScanIdle:
		return "idle"
	case ScanRunning:
		return "running"
	case ScanFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SchedulerConfig configures the scan loop
type SchedulerConfig struct {
	Interval time.Duration // pause between passes
	Repeat   bool          // false stops after one pass

	// OnStateChange is called with every new state, if set
	OnStateChange func(ScanState)

	// OnPassComplete is called with the result of every pass, if set
	OnPassComplete func(error)
}

// Scheduler triggers scan passes on a capture source. A new pass only
// starts after the previous one has reported completion.
type Scheduler struct {
	source capture.Source
	config SchedulerConfig
	logger *logrus.Logger

	mu       sync.Mutex
	state    ScanState
	passes   uint64
	failures uint64
}

// NewScheduler creates a new scan scheduler
func NewScheduler(source capture.Source, config SchedulerConfig, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		source: source,
		config: config,
		logger: logger,
		state:  ScanIdle,
	}
}

// Run scans until ctx is cancelled, or once when Repeat is false.
// Failed passes are logged and scanning continues. Cancellation is not
// an error. Without Repeat the result of the single pass is returned.
func (s *Scheduler) Run(ctx context.Context, out chan<- odid.RawFrame) error {
	for {
		if ctx.Err() != nil {
			s.setState(ScanIdle)
			return nil
		}

		s.setState(ScanRunning)
		start := time.Now()
		err := s.source.Scan(ctx, out)

		if ctx.Err() != nil && (err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			s.setState(ScanIdle)
			return nil
		}

		s.finishPass(err, time.Since(start))

		if !s.config.Repeat {
			return err
		}

		select {
		case <-ctx.Done():
			s.setState(ScanIdle)
			return nil
		case <-time.After(s.config.Interval):
		}
	}
}

// State returns the current scan state
func (s *Scheduler) State() ScanState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Passes returns the number of completed and failed passes
func (s *Scheduler) Passes() (completed, failed uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passes, s.failures
}

func (s *Scheduler) finishPass(err error, elapsed time.Duration) {
	s.mu.Lock()
	s.passes++
	if err != nil {
		s.failures++
	}
	pass := s.passes
	s.mu.Unlock()

	entry := s.logger.WithFields(logrus.Fields{
		"pass":    pass,
		"elapsed": elapsed,
	})
	if err != nil {
		entry.WithError(err).Warn("Scan pass failed")
		s.setState(ScanFailed)
	} else {
		entry.Debug("Scan pass complete")
		s.setState(ScanIdle)
	}

	if s.config.OnPassComplete != nil {
		s.config.OnPassComplete(err)
	}
}

func (s *Scheduler) setState(state ScanState) {
	s.mu.Lock()
	changed := s.state != state
	s.state = state
	s.mu.Unlock()

	if changed && s.config.OnStateChange != nil {
		s.config.OnStateChange(state)
	}
}
