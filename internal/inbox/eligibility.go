package inbox

import "time"

// OCREligible reports whether an item is ready for its next OCR pass: OCR
// not yet started, at least one photo to read, and any scheduled retry time
// already reached. Pure; never mutates the item.
func OCREligible(item *Item, now time.Time) bool {
	if item == nil {
		return false
	}
	if item.OCRStatus != OCRNotStarted {
		return false
	}
	if len(item.PhotoRefs) == 0 {
		return false
	}
	if item.NextOCRAt != nil && now.Before(*item.NextOCRAt) {
		return false
	}
	return true
}

// LookupEligible reports whether an item is ready for its next lookup pass:
// status pending, retry window open, and enough evidence to query the
// provider. Pure; never mutates the item.
func LookupEligible(item *Item, now time.Time) bool {
	if item == nil {
		return false
	}
	if item.LookupStatus != LookupPending {
		return false
	}
	if item.NextLookupAt != nil && now.Before(*item.NextLookupAt) {
		return false
	}
	return item.HasLookupEvidence()
}
