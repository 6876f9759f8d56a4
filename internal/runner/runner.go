// Package runner drives the resolution engine on a polling loop. A file
// lock keeps the loop single-instance per data directory; the store-level
// conditional transitions make a second accidental runner safe, but running
// two loops just burns provider quota.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"

	"pressmark/internal/config"
	"pressmark/internal/engine"
	"pressmark/internal/inbox"
	"pressmark/internal/logging"
)

// ErrAlreadyRunning reports that another runner holds the instance lock.
var ErrAlreadyRunning = errors.New("another resolver instance is already running")

// Runner owns the polling loop around one engine and one store.
type Runner struct {
	cfg    *config.Config
	store  *inbox.Store
	engine *engine.Engine
	logger *slog.Logger
	lock   *flock.Flock

	pollInterval time.Duration
	staleAfter   time.Duration
	now          func() time.Time
}

// Options tunes loop behavior. Zero values fall back to the config.
type Options struct {
	Logger *slog.Logger
	// Now overrides the clock in tests.
	Now func() time.Time
}

// New builds a runner from an opened store and a constructed engine.
func New(cfg *config.Config, store *inbox.Store, eng *engine.Engine, opts Options) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if store == nil {
		return nil, errors.New("store is required")
	}
	if eng == nil {
		return nil, errors.New("engine is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Runner{
		cfg:          cfg,
		store:        store,
		engine:       eng,
		logger:       logging.NewComponentLogger(logger, "runner"),
		lock:         flock.New(cfg.LockPath()),
		pollInterval: time.Duration(cfg.Resolver.PollIntervalSeconds) * time.Second,
		staleAfter:   time.Duration(cfg.Resolver.StaleClaimSeconds) * time.Second,
		now:          now,
	}, nil
}

// Run acquires the instance lock and polls until ctx is canceled. The first
// tick fires immediately so a freshly started runner does not sit idle for a
// full poll interval.
func (r *Runner) Run(ctx context.Context) error {
	ok, err := r.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", r.cfg.LockPath(), err)
	}
	if !ok {
		return ErrAlreadyRunning
	}
	defer r.lock.Unlock()

	r.logger.Info("resolver loop started",
		logging.Duration("poll_interval", r.pollInterval),
		logging.String("lock_path", r.cfg.LockPath()),
	)

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		r.Tick(ctx)
		select {
		case <-ctx.Done():
			r.logger.Info("resolver loop stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Tick performs one full pass: reclaim stranded claims, then drain OCR and
// lookup work. Errors are logged, not returned; one bad pass must not kill
// the loop.
func (r *Runner) Tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	cutoff := r.now().Add(-r.staleAfter)
	if reclaimed, err := r.store.ReclaimStale(ctx, cutoff); err != nil {
		r.logger.Error("reclaim stale claims", logging.Error(err))
	} else if reclaimed > 0 {
		r.logger.Warn("reclaimed stranded claims", logging.Int64("count", reclaimed))
	}

	ocrStats, err := r.engine.DrainOCR(ctx)
	if err != nil {
		r.logger.Error("drain ocr", logging.Error(err))
	} else if ocrStats.Processed > 0 {
		r.logger.Info("ocr pass complete",
			logging.Int("processed", ocrStats.Processed),
			logging.Int("errored", ocrStats.Errored),
		)
	}

	lookupStats, err := r.engine.DrainLookup(ctx)
	if err != nil {
		r.logger.Error("drain lookup", logging.Error(err))
		return
	}
	if lookupStats.Processed > 0 {
		r.logger.Info("lookup pass complete",
			logging.Int("processed", lookupStats.Processed),
			logging.Int("committed", lookupStats.Committed),
			logging.Int("needs_review", lookupStats.NeedsReview),
			logging.Int("errored", lookupStats.Errored),
			logging.Bool("halted", lookupStats.Halted),
		)
	}
}
