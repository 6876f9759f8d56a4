package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"pressmark/internal/inbox"
	"pressmark/internal/logging"
	"pressmark/internal/provider"
	"pressmark/internal/reason"
	"pressmark/internal/scoring"
)

// DrainLookup runs one lookup pass: it claims every due PENDING item up to
// the batch size, queries the provider with the item's strongest evidence,
// scores the candidates, and commits or routes to review. A rate-limit
// response finishes the current item and halts the rest of the batch.
func (e *Engine) DrainLookup(ctx context.Context) (DrainStats, error) {
	var stats DrainStats

	ctx = logging.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, e.logger)

	now := e.now().UTC()
	items, err := e.store.LookupCandidates(ctx, now, e.batchSize)
	if err != nil {
		return stats, fmt.Errorf("select lookup candidates: %w", err)
	}

	for _, item := range items {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		claimed, err := e.store.ClaimLookup(ctx, item.ID)
		if err != nil {
			return stats, fmt.Errorf("claim item %d: %w", item.ID, err)
		}
		if !claimed {
			continue
		}

		itemLogger := logger.With(logging.Args(logging.Int64(logging.FieldItemID, item.ID))...)
		halted, err := e.resolveItem(ctx, itemLogger, item, &stats)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return stats, err
			}
			itemLogger.Error("lookup pass failed", logging.Error(err))
			stats.Errored++
			continue
		}
		stats.Processed++
		if halted {
			stats.Halted = true
			logger.Warn("provider rate limited, halting lookup pass",
				logging.Int("remaining", len(items)-stats.Processed-stats.Errored))
			break
		}
	}
	return stats, nil
}

// resolveItem performs the provider round trip and persists the outcome for
// one claimed item. The returned bool requests a batch halt (rate limit).
func (e *Engine) resolveItem(ctx context.Context, logger *slog.Logger, item *inbox.Item, stats *DrainStats) (bool, error) {
	candidates, lookupErr := e.lookupCandidates(ctx, item)
	if lookupErr != nil {
		code := classify(lookupErr)
		if err := e.finishLookupFailure(ctx, item, code); err != nil {
			return false, err
		}
		logger.Warn("provider lookup failed",
			logging.String("error_code", string(code)),
			logging.Int("retry_count", item.RetryCount),
			logging.Error(lookupErr))
		return code == inbox.ErrorRateLimit, nil
	}

	if len(candidates) == 0 {
		item.LookupStatus = inbox.LookupNeedsReview
		item.ErrorCode = inbox.ErrorNoMatch
		item.Confidence = 0
		item.ReasonsJSON = reason.Encode([]reason.Code{reason.NoAPIMatch})
		item.NextLookupAt = nil
		if err := e.store.FinishLookup(ctx, item); err != nil {
			return false, e.tolerateStale(err)
		}
		stats.NeedsReview++
		logger.Info("no catalog match, routed to review")
		return false, nil
	}

	query := queryFromItem(item)
	scores := e.scorer.Rank(query, candidates)
	top := scores[0]
	second := 0
	reasons := top.Reasons
	if len(scores) > 1 {
		second = scores[1].Confidence
		reasons = append(reasons, reason.MultipleCandidates)
		if e.policy.GapStrong(top.Confidence, second) {
			reasons = append(reasons, reason.RunnerUpGapStrong)
		}
	}

	item.Confidence = top.Confidence
	item.ReasonsJSON = reason.Encode(reasons)
	item.ErrorCode = inbox.ErrorNone
	item.NextLookupAt = nil

	if e.policy.ShouldAutoCommit(top.Confidence, second, item.WasUndone) {
		item.LookupStatus = inbox.LookupCommitted
		item.CommittedProvider = top.Candidate.Provider
		item.CommittedRelease = top.Candidate.ReleaseID
		if err := e.store.FinishLookup(ctx, item); err != nil {
			return false, e.tolerateStale(err)
		}
		stats.Committed++
		logger.Info("auto-committed release",
			logging.String("provider", top.Candidate.Provider),
			logging.String("release", top.Candidate.ReleaseID),
			logging.Int("confidence", top.Confidence))
		return false, nil
	}

	item.LookupStatus = inbox.LookupNeedsReview
	if err := e.store.FinishLookup(ctx, item); err != nil {
		return false, e.tolerateStale(err)
	}
	stats.NeedsReview++
	logger.Info("routed to review",
		logging.Int("confidence", top.Confidence),
		logging.Int("runner_up", second),
		logging.Int("candidates", len(scores)))
	return false, nil
}

// lookupCandidates queries the provider using the strongest evidence the
// item has, falling through to weaker evidence on an empty result.
func (e *Engine) lookupCandidates(ctx context.Context, item *inbox.Item) ([]provider.Candidate, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()

	if item.Barcode != "" {
		candidates, err := e.searcher.LookupByBarcode(callCtx, item.Barcode)
		if err != nil || len(candidates) > 0 {
			return candidates, err
		}
	}
	if catalogNumber := item.EffectiveCatalogNumber(); catalogNumber != "" {
		candidates, err := e.searcher.LookupByCatalogNumber(callCtx, catalogNumber, item.ExtractedLabel)
		if err != nil || len(candidates) > 0 {
			return candidates, err
		}
	}
	if title, artist := item.EffectiveTitle(), item.EffectiveArtist(); title != "" && artist != "" {
		return e.searcher.SearchByTitleArtist(callCtx, title, artist)
	}
	return nil, nil
}

// finishLookupFailure persists a transient failure: the item returns to
// PENDING with a scheduled retry, or parks as FAILED once retries are
// exhausted.
func (e *Engine) finishLookupFailure(ctx context.Context, item *inbox.Item, code inbox.ErrorCode) error {
	item.ErrorCode = code
	item.RetryCount++
	if item.RetryCount >= maxRetries {
		item.LookupStatus = inbox.LookupFailed
		item.NextLookupAt = nil
	} else {
		item.LookupStatus = inbox.LookupPending
		next := e.backoff.NextAttempt(e.now().UTC(), code, item.RetryCount-1, e.rng)
		item.NextLookupAt = &next
	}
	if err := e.store.FinishLookup(ctx, item); err != nil {
		return e.tolerateStale(err)
	}
	return nil
}

// tolerateStale downgrades a lost finish race to a non-error: the winning
// runner already persisted an outcome for the item.
func (e *Engine) tolerateStale(err error) error {
	if errors.Is(err, inbox.ErrStaleClaim) {
		return nil
	}
	return err
}

func queryFromItem(item *inbox.Item) scoring.Query {
	return scoring.Query{
		Title:         item.EffectiveTitle(),
		Artist:        item.EffectiveArtist(),
		Label:         item.ExtractedLabel,
		CatalogNumber: item.EffectiveCatalogNumber(),
		Barcode:       item.Barcode,
		Format:        "vinyl",
	}
}
