// Package scheduler runs the periodic price refresh.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/logging"
	"github.com/ndewijer/folio/internal/model"
)

// Refresher refreshes the quote cache.
type Refresher interface {
	Refresh(ctx context.Context) (model.RefreshResult, error)
}

// Syncer publishes the widget snapshot.
type Syncer interface {
	Sync(ctx context.Context) (model.Snapshot, error)
}

// Scheduler triggers a refresh every N minutes and syncs the snapshot after each run.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	syncer    Syncer
	timeout   time.Duration

	mu      sync.Mutex
	entry   cron.EntryID
	minutes int
}

// New creates a stopped Scheduler. timeout bounds a single run.
func New(refresher Refresher, syncer Syncer, timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		syncer:    syncer,
		timeout:   timeout,
	}
}

// Start starts the cron runner. Jobs only fire once an interval is set.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Interval returns the active interval in minutes; 0 means disabled.
func (s *Scheduler) Interval() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minutes
}

// Reschedule replaces the timer with one firing every minutes. Zero disables it.
func (s *Scheduler) Reschedule(minutes int) error {
	if minutes < 0 {
		return fmt.Errorf("%w: %d", apperrors.ErrInvalidRefreshInterval, minutes)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entry != 0 {
		s.cron.Remove(s.entry)
		s.entry = 0
	}
	s.minutes = minutes
	if minutes == 0 {
		logging.Get().Infow("price refresh timer disabled")
		return nil
	}

	id, err := s.cron.AddFunc(fmt.Sprintf("@every %dm", minutes), func() {
		s.Tick(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule price refresh: %w", err)
	}
	s.entry = id
	logging.Get().Infow("price refresh timer set", "minutes", minutes)
	return nil
}

// NextRun returns when the timer fires next, or the zero time when disabled.
func (s *Scheduler) NextRun() time.Time {
	s.mu.Lock()
	id := s.entry
	s.mu.Unlock()
	if id == 0 {
		return time.Time{}
	}
	return s.cron.Entry(id).Next
}

// Tick runs one refresh and snapshot sync. A refresh already in flight is skipped
// without syncing.
func (s *Scheduler) Tick(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	log := logging.Get()
	result, err := s.refresher.Refresh(ctx)
	if errors.Is(err, apperrors.ErrRefreshInProgress) {
		log.Infow("scheduled refresh skipped, another refresh is running")
		return
	}
	if err != nil {
		log.Errorw("scheduled refresh failed", "error", err)
		return
	}
	for symbol, msg := range result.Errors {
		log.Warnw("quote not updated", "symbol", symbol, "reason", msg)
	}

	if _, err := s.syncer.Sync(ctx); err != nil {
		log.Errorw("snapshot sync failed", "error", err)
	}
}
