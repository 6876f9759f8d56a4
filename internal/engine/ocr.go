package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"pressmark/internal/inbox"
	"pressmark/internal/logging"
	"pressmark/internal/ocr"
)

// DrainOCR runs one text-extraction pass over due cover-photo items. With
// no extractor wired the pass is a no-op; photos then wait for manual field
// edits.
func (e *Engine) DrainOCR(ctx context.Context) (DrainStats, error) {
	var stats DrainStats
	if e.extractor == nil {
		return stats, nil
	}

	ctx = logging.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, e.logger)

	now := e.now().UTC()
	items, err := e.store.OCRCandidates(ctx, now, e.batchSize)
	if err != nil {
		return stats, fmt.Errorf("select ocr candidates: %w", err)
	}

	for _, item := range items {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		claimed, err := e.store.ClaimOCR(ctx, item.ID)
		if err != nil {
			return stats, fmt.Errorf("claim item %d: %w", item.ID, err)
		}
		if !claimed {
			continue
		}

		itemLogger := logger.With(logging.Args(logging.Int64(logging.FieldItemID, item.ID))...)
		if err := e.extractItem(ctx, itemLogger, item); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return stats, err
			}
			itemLogger.Error("ocr pass failed", logging.Error(err))
			stats.Errored++
			continue
		}
		stats.Processed++
	}
	return stats, nil
}

func (e *Engine) extractItem(ctx context.Context, logger *slog.Logger, item *inbox.Item) error {
	callCtx, cancel := context.WithTimeout(ctx, e.ocrTimeout)
	extraction, extractErr := e.extractor.Extract(callCtx, item.PhotoRefs[0])
	cancel()

	if extractErr != nil {
		return e.finishOCRFailure(ctx, logger, item, extractErr)
	}

	lines := extraction.Lines
	if len(lines) == 0 {
		lines = ocr.SplitLines(extraction.RawText)
	}
	fields := ocr.ParseFields(lines)

	item.OCRStatus = inbox.OCRDone
	item.ExtractedTitle = fields.Title
	item.ExtractedArtist = fields.Artist
	item.ExtractedLabel = fields.Label
	item.ExtractedCatalogNumber = fields.CatalogNumber
	item.ErrorCode = inbox.ErrorNone
	item.NextOCRAt = nil
	// Extraction may have produced the evidence lookup was waiting for.
	if item.LookupStatus == inbox.LookupNotEligible {
		item.LookupStatus = item.DeriveLookupStatus()
	}

	if err := e.store.FinishOCR(ctx, item); err != nil {
		return e.tolerateStale(err)
	}
	logger.Info("extracted sleeve text",
		logging.Bool("has_title", fields.Title != ""),
		logging.Bool("has_artist", fields.Artist != ""),
		logging.Bool("has_catalog_number", fields.CatalogNumber != ""),
		logging.String("lookup_status", string(item.LookupStatus)))
	return nil
}

// finishOCRFailure reschedules a failed extraction, or marks the item's OCR
// FAILED once retries are exhausted (the photo is treated as unreadable).
func (e *Engine) finishOCRFailure(ctx context.Context, logger *slog.Logger, item *inbox.Item, cause error) error {
	code := classify(cause)
	item.RetryCount++

	if item.RetryCount >= maxRetries {
		item.OCRStatus = inbox.OCRFailed
		item.ErrorCode = code
		item.NextOCRAt = nil
		if err := e.store.FinishOCR(ctx, item); err != nil {
			return e.tolerateStale(err)
		}
		logger.Warn("extraction retries exhausted, photo marked unreadable",
			logging.String("error_code", string(code)),
			logging.Error(cause))
		return nil
	}

	next := e.backoff.NextAttempt(e.now().UTC(), code, item.RetryCount-1, e.rng)
	if err := e.store.FinishOCRFailed(ctx, item.ID, code, item.RetryCount, next); err != nil {
		return e.tolerateStale(err)
	}
	logger.Warn("extraction failed, rescheduled",
		logging.String("error_code", string(code)),
		logging.Int("retry_count", item.RetryCount),
		logging.Error(cause))
	return nil
}
