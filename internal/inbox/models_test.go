package inbox

import (
	"testing"
	"time"
)

func TestNewBarcodeScanIsPending(t *testing.T) {
	item := NewBarcodeScan(" 5024545152617 ")
	if item.Barcode != "5024545152617" {
		t.Fatalf("barcode not trimmed: %q", item.Barcode)
	}
	if item.LookupStatus != LookupPending {
		t.Fatalf("lookup status = %q, want pending", item.LookupStatus)
	}
	if item.OCRStatus != OCRNotStarted {
		t.Fatalf("ocr status = %q", item.OCRStatus)
	}
}

func TestNewCoverPhotoNotEligibleUntilOCR(t *testing.T) {
	item := NewCoverPhoto("front.jpg", " ", "back.jpg")
	if len(item.PhotoRefs) != 2 {
		t.Fatalf("photo refs = %v", item.PhotoRefs)
	}
	if item.LookupStatus != LookupNotEligible {
		t.Fatalf("lookup status = %q, want not_eligible", item.LookupStatus)
	}
}

func TestNewManualEntryEvidenceRules(t *testing.T) {
	cases := []struct {
		name                  string
		title, artist, catalog string
		want                  LookupStatus
	}{
		{"title and artist", "Dummy", "Portishead", "", LookupPending},
		{"catalog only", "", "", "828 522-1", LookupPending},
		{"title only", "Dummy", "", "", LookupNotEligible},
		{"artist only", "", "Portishead", "", LookupNotEligible},
		{"nothing", "", "", "", LookupNotEligible},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := NewManualEntry(tc.title, tc.artist, tc.catalog)
			if item.LookupStatus != tc.want {
				t.Fatalf("lookup status = %q, want %q", item.LookupStatus, tc.want)
			}
		})
	}
}

func TestEffectiveFieldsPreferExtracted(t *testing.T) {
	item := &Item{
		RawTitle:        "dummy (scribbled)",
		ExtractedTitle:  "Dummy",
		RawArtist:       "portis head",
		ExtractedArtist: "",
	}
	if got := item.EffectiveTitle(); got != "Dummy" {
		t.Fatalf("EffectiveTitle = %q", got)
	}
	if got := item.EffectiveArtist(); got != "portis head" {
		t.Fatalf("EffectiveArtist = %q", got)
	}
}

func TestDeriveLookupStatusAfterExtraction(t *testing.T) {
	item := NewCoverPhoto("front.jpg")
	item.ExtractedTitle = "Dummy"
	item.ExtractedArtist = "Portishead"
	if got := item.DeriveLookupStatus(); got != LookupPending {
		t.Fatalf("DeriveLookupStatus = %q, want pending", got)
	}
}

func TestParseLookupStatus(t *testing.T) {
	if status, ok := ParseLookupStatus(" Needs_Review "); !ok || status != LookupNeedsReview {
		t.Fatalf("ParseLookupStatus = %q, %v", status, ok)
	}
	if _, ok := ParseLookupStatus("bogus"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
	if _, ok := ParseLookupStatus(""); ok {
		t.Fatal("expected empty status to be rejected")
	}
}

func TestIsTerminal(t *testing.T) {
	item := &Item{LookupStatus: LookupCommitted}
	if !item.IsTerminal() {
		t.Fatal("committed items are terminal")
	}
	item.LookupStatus = LookupNeedsReview
	if item.IsTerminal() {
		t.Fatal("needs_review items are not terminal")
	}
}

func TestOCREligible(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)

	item := NewCoverPhoto("front.jpg")
	if !OCREligible(item, now) {
		t.Fatal("fresh cover photo should be eligible")
	}

	item.NextOCRAt = &later
	if OCREligible(item, now) {
		t.Fatal("scheduled retry in the future blocks eligibility")
	}
	if !OCREligible(item, later) {
		t.Fatal("eligibility resumes once the retry time passes")
	}

	item.NextOCRAt = nil
	item.OCRStatus = OCRInProgress
	if OCREligible(item, now) {
		t.Fatal("in-progress items are not eligible")
	}

	if OCREligible(NewBarcodeScan("123"), now) {
		t.Fatal("items without photos are not eligible")
	}
	if OCREligible(nil, now) {
		t.Fatal("nil item is not eligible")
	}
}

func TestLookupEligible(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)

	item := NewBarcodeScan("5024545152617")
	if !LookupEligible(item, now) {
		t.Fatal("barcode scan should be lookup-eligible")
	}

	item.NextLookupAt = &later
	if LookupEligible(item, now) {
		t.Fatal("scheduled retry in the future blocks eligibility")
	}

	item.NextLookupAt = nil
	item.LookupStatus = LookupNeedsReview
	if LookupEligible(item, now) {
		t.Fatal("needs_review items are not eligible")
	}

	// Pending status alone is not enough without evidence.
	empty := &Item{LookupStatus: LookupPending}
	if LookupEligible(empty, now) {
		t.Fatal("evidence precondition must hold")
	}
}
