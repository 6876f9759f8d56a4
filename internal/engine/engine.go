package engine

import (
	"log/slog"
	"math/rand"
	"time"

	"pressmark/internal/backoff"
	"pressmark/internal/config"
	"pressmark/internal/inbox"
	"pressmark/internal/logging"
	"pressmark/internal/ocr"
	"pressmark/internal/provider"
	"pressmark/internal/scoring"
)

// maxRetries is how many transient failures an item absorbs before its
// lookup (or OCR) is parked as FAILED until a human requeues it.
const maxRetries = 8

// Options configures an Engine. Zero values fall back to defaults.
type Options struct {
	Extractor     ocr.Extractor
	Scorer        *scoring.Scorer
	Policy        scoring.CommitPolicy
	Backoff       backoff.Scheduler
	Logger        *slog.Logger
	BatchSize     int
	OCRTimeout    time.Duration
	LookupTimeout time.Duration
	Now           func() time.Time
	Rand          *rand.Rand
}

// OptionsFromConfig builds engine options from application configuration.
// The extractor and logger are wired separately by the caller.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Policy: scoring.CommitPolicy{
			CommitThreshold: cfg.Resolver.CommitThreshold,
			RunnerUpGap:     cfg.Resolver.RunnerUpGap,
		},
		Backoff: backoff.Scheduler{
			APIErrorBase:  time.Duration(cfg.Backoff.APIErrorSeconds) * time.Second,
			OfflineBase:   time.Duration(cfg.Backoff.OfflineSeconds) * time.Second,
			RateLimitBase: time.Duration(cfg.Backoff.RateLimitSeconds) * time.Second,
			MaxDelay:      time.Duration(cfg.Backoff.MaxDelaySeconds) * time.Second,
		},
		BatchSize:     cfg.Resolver.BatchSize,
		OCRTimeout:    time.Duration(cfg.Resolver.OCRTimeoutSeconds) * time.Second,
		LookupTimeout: time.Duration(cfg.Resolver.LookupTimeoutSeconds) * time.Second,
	}
}

// Engine resolves inbox items against the catalog provider.
type Engine struct {
	store         *inbox.Store
	searcher      provider.Searcher
	extractor     ocr.Extractor
	scorer        *scoring.Scorer
	policy        scoring.CommitPolicy
	backoff       backoff.Scheduler
	logger        *slog.Logger
	batchSize     int
	ocrTimeout    time.Duration
	lookupTimeout time.Duration
	now           func() time.Time
	rng           *rand.Rand
}

// New constructs an Engine. store and searcher are required; a nil extractor
// disables the OCR drain (cover photos then wait for manual field edits).
func New(store *inbox.Store, searcher provider.Searcher, opts Options) *Engine {
	eng := &Engine{
		store:         store,
		searcher:      searcher,
		extractor:     opts.Extractor,
		scorer:        opts.Scorer,
		policy:        opts.Policy,
		backoff:       opts.Backoff,
		logger:        opts.Logger,
		batchSize:     opts.BatchSize,
		ocrTimeout:    opts.OCRTimeout,
		lookupTimeout: opts.LookupTimeout,
		now:           opts.Now,
		rng:           opts.Rand,
	}
	if eng.scorer == nil {
		eng.scorer = scoring.NewScorer(scoring.DefaultWeights())
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.batchSize <= 0 {
		eng.batchSize = 25
	}
	if eng.ocrTimeout <= 0 {
		eng.ocrTimeout = 45 * time.Second
	}
	if eng.lookupTimeout <= 0 {
		eng.lookupTimeout = 20 * time.Second
	}
	if eng.now == nil {
		eng.now = time.Now
	}
	if eng.rng == nil {
		eng.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	eng.logger = logging.NewComponentLogger(eng.logger, "engine")
	return eng
}

// DrainStats summarizes one drain pass.
type DrainStats struct {
	Processed   int
	Committed   int
	NeedsReview int
	Errored     int
	// Halted is set when a rate-limit response stopped the pass early;
	// remaining items stay untouched for the next pass.
	Halted bool
}
