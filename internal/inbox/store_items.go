package inbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const itemColumns = "id, source, barcode, raw_title, raw_artist, raw_catalog_number, raw_row_json, photo_refs, " +
	"extracted_title, extracted_artist, extracted_label, extracted_catalog_number, ocr_status, lookup_status, " +
	"committed_provider, committed_release, confidence, reasons_json, error_code, retry_count, " +
	"next_ocr_at, next_lookup_at, last_attempt_at, was_undone, created_at, updated_at"

// Add inserts a freshly ingested item and returns the stored copy.
func (s *Store) Add(ctx context.Context, item *Item) (*Item, error) {
	if item == nil {
		return nil, errors.New("item is nil")
	}
	if item.OCRStatus == "" {
		item.OCRStatus = OCRNotStarted
	}
	if item.LookupStatus == "" {
		item.LookupStatus = item.DeriveLookupStatus()
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	photoRefs, err := encodePhotoRefs(item.PhotoRefs)
	if err != nil {
		return nil, fmt.Errorf("encode photo refs: %w", err)
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO inbox_items (
            source, barcode, raw_title, raw_artist, raw_catalog_number, raw_row_json, photo_refs,
            ocr_status, lookup_status, confidence, retry_count, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`,
		string(item.Source),
		nullableString(item.Barcode),
		nullableString(item.RawTitle),
		nullableString(item.RawArtist),
		nullableString(item.RawCatalogNumber),
		nullableString(item.RawRowJSON),
		photoRefs,
		string(item.OCRStatus),
		string(item.LookupStatus),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert inbox item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches an item by identifier. A missing item returns (nil, nil).
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+itemColumns+` FROM inbox_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get inbox item: %w", err)
	}
	return item, nil
}

// List returns items filtered by lookup status (all items when no status is
// provided), oldest first.
func (s *Store) List(ctx context.Context, statuses ...LookupStatus) ([]*Item, error) {
	baseQuery := `SELECT ` + itemColumns + ` FROM inbox_items`
	orderClause := ` ORDER BY created_at, id`

	var (
		rows *sql.Rows
		err  error
	)
	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ensureContext(ctx), baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = string(status)
		}
		rows, err = s.db.QueryContext(ensureContext(ctx), baseQuery+` WHERE lookup_status IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list inbox items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// OCRCandidates returns up to limit items whose OCR pass is due, oldest
// first. Results are re-checked against OCREligible before claiming.
func (s *Store) OCRCandidates(ctx context.Context, now time.Time, limit int) ([]*Item, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT `+itemColumns+` FROM inbox_items
         WHERE ocr_status = ? AND photo_refs != '[]'
           AND (next_ocr_at IS NULL OR next_ocr_at <= ?)
         ORDER BY created_at, id LIMIT ?`,
		string(OCRNotStarted),
		now.UTC().Format(time.RFC3339Nano),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query ocr candidates: %w", err)
	}
	defer rows.Close()

	items, err := collectItems(rows)
	if err != nil {
		return nil, err
	}
	eligible := items[:0]
	for _, item := range items {
		if OCREligible(item, now) {
			eligible = append(eligible, item)
		}
	}
	return eligible, nil
}

// LookupCandidates returns up to limit items whose lookup pass is due,
// oldest first. Results are re-checked against LookupEligible before
// claiming, which also enforces the evidence precondition.
func (s *Store) LookupCandidates(ctx context.Context, now time.Time, limit int) ([]*Item, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT `+itemColumns+` FROM inbox_items
         WHERE lookup_status = ?
           AND (next_lookup_at IS NULL OR next_lookup_at <= ?)
         ORDER BY created_at, id LIMIT ?`,
		string(LookupPending),
		now.UTC().Format(time.RFC3339Nano),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query lookup candidates: %w", err)
	}
	defer rows.Close()

	items, err := collectItems(rows)
	if err != nil {
		return nil, err
	}
	eligible := items[:0]
	for _, item := range items {
		if LookupEligible(item, now) {
			eligible = append(eligible, item)
		}
	}
	return eligible, nil
}

// Stats returns a count of items grouped by lookup status.
func (s *Store) Stats(ctx context.Context) (map[LookupStatus]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT lookup_status, COUNT(1) FROM inbox_items GROUP BY lookup_status`)
	if err != nil {
		return nil, fmt.Errorf("inbox stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[LookupStatus]int)
	for rows.Next() {
		var status LookupStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Remove deletes an item by identifier. Deletion is always an explicit user
// action; nothing in the engine garbage-collects items.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM inbox_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete inbox item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ClearCommitted removes only committed items.
func (s *Store) ClearCommitted(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM inbox_items WHERE lookup_status = ?`, string(LookupCommitted))
	if err != nil {
		return 0, fmt.Errorf("clear committed: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes all items.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM inbox_items`)
	if err != nil {
		return 0, fmt.Errorf("clear inbox: %w", err)
	}
	return res.RowsAffected()
}

func collectItems(rows *sql.Rows) ([]*Item, error) {
	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id               int64
		source           string
		barcode          sql.NullString
		rawTitle         sql.NullString
		rawArtist        sql.NullString
		rawCatalogNo     sql.NullString
		rawRowJSON       sql.NullString
		photoRefsRaw     sql.NullString
		extractedTitle   sql.NullString
		extractedArtist  sql.NullString
		extractedLabel   sql.NullString
		extractedCatalog sql.NullString
		ocrStatus        string
		lookupStatus     string
		committedProv    sql.NullString
		committedRelease sql.NullString
		confidence       sql.NullInt64
		reasonsJSON      sql.NullString
		errorCode        sql.NullString
		retryCount       sql.NullInt64
		nextOCRRaw       sql.NullString
		nextLookupRaw    sql.NullString
		lastAttemptRaw   sql.NullString
		wasUndone        sql.NullInt64
		createdRaw       sql.NullString
		updatedRaw       sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&source,
		&barcode,
		&rawTitle,
		&rawArtist,
		&rawCatalogNo,
		&rawRowJSON,
		&photoRefsRaw,
		&extractedTitle,
		&extractedArtist,
		&extractedLabel,
		&extractedCatalog,
		&ocrStatus,
		&lookupStatus,
		&committedProv,
		&committedRelease,
		&confidence,
		&reasonsJSON,
		&errorCode,
		&retryCount,
		&nextOCRRaw,
		&nextLookupRaw,
		&lastAttemptRaw,
		&wasUndone,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:                     id,
		Source:                 SourceType(source),
		Barcode:                barcode.String,
		RawTitle:               rawTitle.String,
		RawArtist:              rawArtist.String,
		RawCatalogNumber:       rawCatalogNo.String,
		RawRowJSON:             rawRowJSON.String,
		PhotoRefs:              decodePhotoRefs(photoRefsRaw.String),
		ExtractedTitle:         extractedTitle.String,
		ExtractedArtist:        extractedArtist.String,
		ExtractedLabel:         extractedLabel.String,
		ExtractedCatalogNumber: extractedCatalog.String,
		OCRStatus:              OCRStatus(ocrStatus),
		LookupStatus:           LookupStatus(lookupStatus),
		CommittedProvider:      committedProv.String,
		CommittedRelease:       committedRelease.String,
		Confidence:             int(confidence.Int64),
		ReasonsJSON:            reasonsJSON.String,
		ErrorCode:              ErrorCode(errorCode.String),
		RetryCount:             int(retryCount.Int64),
		WasUndone:              wasUndone.Valid && wasUndone.Int64 != 0,
	}
	item.NextOCRAt = parseNullableTime(nextOCRRaw)
	item.NextLookupAt = parseNullableTime(nextLookupRaw)
	item.LastAttemptAt = parseNullableTime(lastAttemptRaw)
	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

func encodePhotoRefs(refs []string) (string, error) {
	if len(refs) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(refs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodePhotoRefs(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var refs []string
	if err := json.Unmarshal([]byte(raw), &refs); err != nil {
		return nil
	}
	return refs
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseNullableTime(value sql.NullString) *time.Time {
	if !value.Valid || value.String == "" {
		return nil
	}
	parsed, err := parseTimeString(value.String)
	if err != nil {
		return nil
	}
	return &parsed
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
