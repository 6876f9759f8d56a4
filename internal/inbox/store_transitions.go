package inbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ClaimOCR atomically moves an item NOT_STARTED -> IN_PROGRESS. A false
// return without error means another runner won the claim.
func (s *Store) ClaimOCR(ctx context.Context, id int64) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE inbox_items
         SET ocr_status = ?, last_attempt_at = ?, updated_at = ?
         WHERE id = ? AND ocr_status = ?`,
		string(OCRInProgress), now, now, id, string(OCRNotStarted),
	)
	if err != nil {
		return false, fmt.Errorf("claim ocr: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ClaimLookup atomically moves an item PENDING -> IN_PROGRESS.
func (s *Store) ClaimLookup(ctx context.Context, id int64) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE inbox_items
         SET lookup_status = ?, last_attempt_at = ?, updated_at = ?
         WHERE id = ? AND lookup_status = ?`,
		string(LookupInProgress), now, now, id, string(LookupPending),
	)
	if err != nil {
		return false, fmt.Errorf("claim lookup: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// FinishOCR persists the result of an OCR pass. The update is conditional on
// the item still being IN_PROGRESS; a lost condition returns ErrStaleClaim.
func (s *Store) FinishOCR(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	switch item.OCRStatus {
	case OCRDone, OCRFailed:
	default:
		return fmt.Errorf("finish ocr: unexpected status %q", item.OCRStatus)
	}
	item.UpdatedAt = time.Now().UTC()
	res, err := s.execWithRetry(
		ctx,
		`UPDATE inbox_items
         SET ocr_status = ?, extracted_title = ?, extracted_artist = ?, extracted_label = ?,
             extracted_catalog_number = ?, lookup_status = ?, error_code = ?, retry_count = ?,
             next_ocr_at = ?, updated_at = ?
         WHERE id = ? AND ocr_status = ?`,
		string(item.OCRStatus),
		nullableString(item.ExtractedTitle),
		nullableString(item.ExtractedArtist),
		nullableString(item.ExtractedLabel),
		nullableString(item.ExtractedCatalogNumber),
		string(item.LookupStatus),
		nullableString(string(item.ErrorCode)),
		item.RetryCount,
		nullableTime(item.NextOCRAt),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
		string(OCRInProgress),
	)
	if err != nil {
		return fmt.Errorf("finish ocr: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish ocr item %d: %w", item.ID, ErrStaleClaim)
	}
	return nil
}

// FinishOCRFailed reverts a claimed OCR pass to NOT_STARTED with retry
// bookkeeping, leaving the item eligible again once nextOCRAt passes.
func (s *Store) FinishOCRFailed(ctx context.Context, id int64, errCode ErrorCode, retryCount int, nextOCRAt time.Time) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE inbox_items
         SET ocr_status = ?, error_code = ?, retry_count = ?, next_ocr_at = ?, updated_at = ?
         WHERE id = ? AND ocr_status = ?`,
		string(OCRNotStarted),
		string(errCode),
		retryCount,
		nextOCRAt.UTC().Format(time.RFC3339Nano),
		now,
		id,
		string(OCRInProgress),
	)
	if err != nil {
		return fmt.Errorf("finish ocr failed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish ocr failed item %d: %w", id, ErrStaleClaim)
	}
	return nil
}

// FinishLookup persists the result of a lookup pass, conditional on the item
// still being IN_PROGRESS. A COMMITTED result must carry a committed release
// reference; the invariant is enforced here so no write path can violate it.
func (s *Store) FinishLookup(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	switch item.LookupStatus {
	case LookupCommitted:
		if strings.TrimSpace(item.CommittedRelease) == "" {
			return errors.New("finish lookup: committed item missing release reference")
		}
	case LookupNeedsReview, LookupFailed, LookupPending, LookupNotEligible:
	default:
		return fmt.Errorf("finish lookup: unexpected status %q", item.LookupStatus)
	}
	item.UpdatedAt = time.Now().UTC()
	res, err := s.execWithRetry(
		ctx,
		`UPDATE inbox_items
         SET lookup_status = ?, committed_provider = ?, committed_release = ?, confidence = ?,
             reasons_json = ?, error_code = ?, retry_count = ?, next_lookup_at = ?, updated_at = ?
         WHERE id = ? AND lookup_status = ?`,
		string(item.LookupStatus),
		nullableString(item.CommittedProvider),
		nullableString(item.CommittedRelease),
		item.Confidence,
		nullableString(item.ReasonsJSON),
		nullableString(string(item.ErrorCode)),
		item.RetryCount,
		nullableTime(item.NextLookupAt),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
		string(LookupInProgress),
	)
	if err != nil {
		return fmt.Errorf("finish lookup: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish lookup item %d: %w", item.ID, ErrStaleClaim)
	}
	return nil
}

// UndoCommit reverses an automatic commit: the item returns to NEEDS_REVIEW
// with the committed reference cleared and was_undone set, which permanently
// disables auto-commit for this item.
func (s *Store) UndoCommit(ctx context.Context, id int64) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE inbox_items
         SET lookup_status = ?, committed_provider = NULL, committed_release = NULL,
             was_undone = 1, updated_at = ?
         WHERE id = ? AND lookup_status = ?`,
		string(LookupNeedsReview), now, id, string(LookupCommitted),
	)
	if err != nil {
		return false, fmt.Errorf("undo commit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// MarkUnknown records a human decision that the item cannot be identified:
// the engine stops touching it until new evidence arrives via a field edit.
func (s *Store) MarkUnknown(ctx context.Context, id int64) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE inbox_items
         SET lookup_status = ?, error_code = NULL, next_lookup_at = NULL, updated_at = ?
         WHERE id = ? AND lookup_status NOT IN (?, ?)`,
		string(LookupNotEligible), now, id,
		string(LookupCommitted), string(LookupInProgress),
	)
	if err != nil {
		return false, fmt.Errorf("mark unknown: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// UpdateFields applies a manual edit to the raw title/artist/catalog fields
// and re-arms lookup eligibility from the merged evidence. Items currently
// committed or in flight are left alone.
func (s *Store) UpdateFields(ctx context.Context, id int64, title, artist, catalogNumber string) (*Item, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if item.LookupStatus == LookupCommitted || item.LookupStatus == LookupInProgress {
		return item, fmt.Errorf("update fields: item %d is %s", id, item.LookupStatus)
	}

	item.RawTitle = strings.TrimSpace(title)
	item.RawArtist = strings.TrimSpace(artist)
	item.RawCatalogNumber = strings.TrimSpace(catalogNumber)
	newStatus := item.DeriveLookupStatus()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE inbox_items
         SET raw_title = ?, raw_artist = ?, raw_catalog_number = ?,
             lookup_status = ?, error_code = NULL, retry_count = 0,
             next_lookup_at = NULL, updated_at = ?
         WHERE id = ? AND lookup_status = ?`,
		nullableString(item.RawTitle),
		nullableString(item.RawArtist),
		nullableString(item.RawCatalogNumber),
		string(newStatus),
		now,
		id,
		string(item.LookupStatus),
	)
	if err != nil {
		return nil, fmt.Errorf("update fields: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("update fields item %d: %w", id, ErrStaleClaim)
	}
	return s.GetByID(ctx, id)
}

// RetryFailed moves every FAILED item back to PENDING with its retry
// bookkeeping cleared, so the next drain pass picks it up immediately.
func (s *Store) RetryFailed(ctx context.Context) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE inbox_items
         SET lookup_status = ?, error_code = NULL, retry_count = 0,
             next_lookup_at = NULL, updated_at = ?
         WHERE lookup_status = ?`,
		string(LookupPending), now, string(LookupFailed),
	)
	if err != nil {
		return 0, fmt.Errorf("retry failed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

// ReclaimStale returns items stuck IN_PROGRESS past the cutoff to their
// pre-claim status so a crashed drain run cannot strand them.
func (s *Store) ReclaimStale(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoffStr := cutoff.UTC().Format(time.RFC3339Nano)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	ocrRes, err := s.execWithRetry(
		ctx,
		`UPDATE inbox_items
         SET ocr_status = ?, updated_at = ?
         WHERE ocr_status = ? AND last_attempt_at IS NOT NULL AND last_attempt_at < ?`,
		string(OCRNotStarted), now, string(OCRInProgress), cutoffStr,
	)
	if err != nil {
		return 0, fmt.Errorf("reclaim stale ocr: %w", err)
	}
	ocrCount, err := ocrRes.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	lookupRes, err := s.execWithRetry(
		ctx,
		`UPDATE inbox_items
         SET lookup_status = ?, updated_at = ?
         WHERE lookup_status = ? AND last_attempt_at IS NOT NULL AND last_attempt_at < ?`,
		string(LookupPending), now, string(LookupInProgress), cutoffStr,
	)
	if err != nil {
		return 0, fmt.Errorf("reclaim stale lookup: %w", err)
	}
	lookupCount, err := lookupRes.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return ocrCount + lookupCount, nil
}
