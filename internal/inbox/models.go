package inbox

import (
	"strings"
	"time"
)

// SourceType identifies the ingestion path that created an item.
type SourceType string

const (
	SourceBarcodeScan SourceType = "barcode_scan"
	SourceCoverPhoto  SourceType = "cover_photo"
	SourceManualEntry SourceType = "manual_entry"
	SourceCSVImport   SourceType = "csv_import"
)

// OCRStatus tracks the text-extraction lifecycle of an item.
type OCRStatus string

const (
	OCRNotStarted OCRStatus = "not_started"
	OCRInProgress OCRStatus = "in_progress"
	OCRDone       OCRStatus = "done"
	OCRFailed     OCRStatus = "failed"
)

// LookupStatus tracks the catalog-resolution lifecycle of an item.
type LookupStatus string

const (
	LookupNotEligible LookupStatus = "not_eligible"
	LookupPending     LookupStatus = "pending"
	LookupInProgress  LookupStatus = "in_progress"
	LookupNeedsReview LookupStatus = "needs_review"
	LookupFailed      LookupStatus = "failed"
	LookupCommitted   LookupStatus = "committed"
)

// ErrorCode classifies the most recent failure affecting an item.
type ErrorCode string

const (
	ErrorNone      ErrorCode = ""
	ErrorOffline   ErrorCode = "offline"
	ErrorRateLimit ErrorCode = "rate_limit"
	ErrorAPI       ErrorCode = "api_error"
	// ErrorNoMatch is a content outcome, not a fault: the provider answered
	// with zero usable candidates. It never schedules a retry.
	ErrorNoMatch ErrorCode = "no_match"
)

var lookupStatusSet = map[LookupStatus]struct{}{
	LookupNotEligible: {},
	LookupPending:     {},
	LookupInProgress:  {},
	LookupNeedsReview: {},
	LookupFailed:      {},
	LookupCommitted:   {},
}

// ParseLookupStatus converts free-form input into a known LookupStatus.
func ParseLookupStatus(value string) (LookupStatus, bool) {
	normalized := LookupStatus(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := lookupStatusSet[normalized]
	return normalized, ok
}

// Item is one physical-media record awaiting resolution.
type Item struct {
	ID     int64
	Source SourceType

	// Raw input captured at ingestion.
	Barcode          string
	RawTitle         string
	RawArtist        string
	RawCatalogNumber string
	RawRowJSON       string
	PhotoRefs        []string

	// Extraction results, populated after a successful OCR pass.
	ExtractedTitle         string
	ExtractedArtist        string
	ExtractedLabel         string
	ExtractedCatalogNumber string
	OCRStatus              OCRStatus

	// Lookup results.
	LookupStatus      LookupStatus
	CommittedProvider string
	CommittedRelease  string
	Confidence        int
	ReasonsJSON       string

	// Retry bookkeeping.
	ErrorCode     ErrorCode
	RetryCount    int
	NextOCRAt     *time.Time
	NextLookupAt  *time.Time
	LastAttemptAt *time.Time
	WasUndone     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveTitle prefers the OCR-extracted title over the raw one.
func (i *Item) EffectiveTitle() string {
	if v := strings.TrimSpace(i.ExtractedTitle); v != "" {
		return v
	}
	return strings.TrimSpace(i.RawTitle)
}

// EffectiveArtist prefers the OCR-extracted artist over the raw one.
func (i *Item) EffectiveArtist() string {
	if v := strings.TrimSpace(i.ExtractedArtist); v != "" {
		return v
	}
	return strings.TrimSpace(i.RawArtist)
}

// EffectiveCatalogNumber prefers the OCR-extracted catalog number.
func (i *Item) EffectiveCatalogNumber() string {
	if v := strings.TrimSpace(i.ExtractedCatalogNumber); v != "" {
		return v
	}
	return strings.TrimSpace(i.RawCatalogNumber)
}

// HasLookupEvidence reports whether the item carries enough signal for a
// lookup: a barcode, a catalog number, or a title AND artist pair.
func (i *Item) HasLookupEvidence() bool {
	if strings.TrimSpace(i.Barcode) != "" {
		return true
	}
	if i.EffectiveCatalogNumber() != "" {
		return true
	}
	return i.EffectiveTitle() != "" && i.EffectiveArtist() != ""
}

// DeriveLookupStatus computes the initial (or re-armed) lookup status from
// whatever signals the item currently carries.
func (i *Item) DeriveLookupStatus() LookupStatus {
	if i.HasLookupEvidence() {
		return LookupPending
	}
	return LookupNotEligible
}

// IsTerminal reports whether the engine is done with this item forever.
func (i *Item) IsTerminal() bool {
	return i.LookupStatus == LookupCommitted
}

// NewBarcodeScan builds an item from a scanned barcode.
func NewBarcodeScan(barcode string) *Item {
	item := &Item{Source: SourceBarcodeScan, Barcode: strings.TrimSpace(barcode)}
	item.LookupStatus = item.DeriveLookupStatus()
	item.OCRStatus = OCRNotStarted
	return item
}

// NewCoverPhoto builds an item from captured cover photos awaiting OCR.
func NewCoverPhoto(photoRefs ...string) *Item {
	refs := make([]string, 0, len(photoRefs))
	for _, ref := range photoRefs {
		if ref = strings.TrimSpace(ref); ref != "" {
			refs = append(refs, ref)
		}
	}
	item := &Item{Source: SourceCoverPhoto, PhotoRefs: refs}
	item.LookupStatus = item.DeriveLookupStatus()
	item.OCRStatus = OCRNotStarted
	return item
}

// NewManualEntry builds an item from quick manual input.
func NewManualEntry(title, artist, catalogNumber string) *Item {
	item := &Item{
		Source:           SourceManualEntry,
		RawTitle:         strings.TrimSpace(title),
		RawArtist:        strings.TrimSpace(artist),
		RawCatalogNumber: strings.TrimSpace(catalogNumber),
	}
	item.LookupStatus = item.DeriveLookupStatus()
	item.OCRStatus = OCRNotStarted
	return item
}

// NewImportRow builds an item from one CSV import row. rawRowJSON preserves
// the original row for audit.
func NewImportRow(rawRowJSON, title, artist, barcode, catalogNumber string) *Item {
	item := &Item{
		Source:           SourceCSVImport,
		RawRowJSON:       strings.TrimSpace(rawRowJSON),
		RawTitle:         strings.TrimSpace(title),
		RawArtist:        strings.TrimSpace(artist),
		Barcode:          strings.TrimSpace(barcode),
		RawCatalogNumber: strings.TrimSpace(catalogNumber),
	}
	item.LookupStatus = item.DeriveLookupStatus()
	item.OCRStatus = OCRNotStarted
	return item
}
