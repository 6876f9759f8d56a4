package scoring_test

import (
	"reflect"
	"testing"

	"pressmark/internal/provider"
	"pressmark/internal/reason"
	"pressmark/internal/scoring"
)

func hasReason(codes []reason.Code, want reason.Code) bool {
	for _, code := range codes {
		if code == want {
			return true
		}
	}
	return false
}

func TestScoreBarcodeMatchDominates(t *testing.T) {
	scorer := scoring.NewScorer(scoring.DefaultWeights())
	query := scoring.Query{Barcode: "123"}
	candidate := provider.Candidate{Barcode: "123", Title: "Something", Artist: "Someone"}

	score := scorer.Score(query, candidate)
	if score.Confidence < 50 {
		t.Fatalf("barcode match confidence = %d, want >= 50", score.Confidence)
	}
	if !hasReason(score.Reasons, reason.BarcodeMatch) {
		t.Fatalf("missing barcode-match reason: %v", score.Reasons)
	}
	if !hasReason(score.Reasons, reason.BarcodeNormalized) {
		t.Fatalf("missing barcode-normalized reason: %v", score.Reasons)
	}
}

func TestScoreBarcodeChecksumBonus(t *testing.T) {
	scorer := scoring.NewScorer(scoring.DefaultWeights())
	plain := scorer.Score(scoring.Query{Barcode: "123"}, provider.Candidate{Barcode: "123"})
	checked := scorer.Score(scoring.Query{Barcode: "4006381333931"}, provider.Candidate{Barcode: "4006381333931"})

	if !hasReason(checked.Reasons, reason.BarcodeValidChecksum) {
		t.Fatalf("valid checksum not rewarded: %v", checked.Reasons)
	}
	if hasReason(plain.Reasons, reason.BarcodeValidChecksum) {
		t.Fatalf("invalid checksum rewarded: %v", plain.Reasons)
	}
	if checked.Confidence <= plain.Confidence {
		t.Fatalf("checksum bonus missing: %d <= %d", checked.Confidence, plain.Confidence)
	}
}

func TestScoreCatalogNumberUnderEvidenceKey(t *testing.T) {
	scorer := scoring.NewScorer(scoring.DefaultWeights())
	query := scoring.Query{CatalogNumber: "MOV LP-001", Title: "Kind of Blue", Artist: "Miles Davis"}
	candidate := provider.Candidate{CatalogNumber: "MOVLP001", Title: "Kind of Blue", Artist: "Miles Davis"}

	score := scorer.Score(query, candidate)
	if !hasReason(score.Reasons, reason.CatalogNumberMatch) {
		t.Fatalf("spacing variant did not match catalog number: %v", score.Reasons)
	}
	if score.Confidence < 70 {
		t.Fatalf("catalog + exact names confidence = %d, want >= 70", score.Confidence)
	}
}

func TestScoreBarcodeTakesPrecedenceOverCatalog(t *testing.T) {
	scorer := scoring.NewScorer(scoring.DefaultWeights())
	query := scoring.Query{Barcode: "123", CatalogNumber: "ABC 1"}
	candidate := provider.Candidate{Barcode: "123", CatalogNumber: "ABC 1"}

	score := scorer.Score(query, candidate)
	if hasReason(score.Reasons, reason.CatalogNumberMatch) {
		t.Fatalf("catalog bonus applied alongside barcode match: %v", score.Reasons)
	}
}

func TestScoreWeakNameMatch(t *testing.T) {
	scorer := scoring.NewScorer(scoring.DefaultWeights())
	// Artist strings share no characters, so the combined score is capped at
	// the title weight (0.40) and the scaled points stay under the weak
	// threshold no matter how similar the titles are.
	query := scoring.Query{Title: "Maxinquaye", Artist: "aaa"}
	candidate := provider.Candidate{Title: "Dummy", Artist: "zzz"}

	score := scorer.Score(query, candidate)
	if hasReason(score.Reasons, reason.TitleMatch) || hasReason(score.Reasons, reason.ArtistMatch) {
		t.Fatalf("distant names produced strong match reasons: %v", score.Reasons)
	}
	if !hasReason(score.Reasons, reason.WeakMatchTitle) || !hasReason(score.Reasons, reason.WeakMatchArtist) {
		t.Fatalf("partial name overlap missing weak-match reasons: %v", score.Reasons)
	}
}

func TestScoreStrongNameMatch(t *testing.T) {
	scorer := scoring.NewScorer(scoring.DefaultWeights())
	query := scoring.Query{Title: "Kind of Blue", Artist: "Miles Davis"}
	candidate := provider.Candidate{Title: "Kind of Blue", Artist: "Miles Davis"}

	score := scorer.Score(query, candidate)
	if !hasReason(score.Reasons, reason.TitleMatch) || !hasReason(score.Reasons, reason.ArtistMatch) {
		t.Fatalf("exact names missing strong match reasons: %v", score.Reasons)
	}
	if score.Confidence != scorer.Weights().NameScaleMax {
		t.Fatalf("exact names confidence = %d, want %d", score.Confidence, scorer.Weights().NameScaleMax)
	}
}

func TestScoreMissingFieldsPenalized(t *testing.T) {
	scorer := scoring.NewScorer(scoring.DefaultWeights())
	query := scoring.Query{Barcode: "4006381333931", Artist: "Miles Davis"}
	candidate := provider.Candidate{Barcode: "4006381333931", Title: "Kind of Blue", Artist: "Miles Davis"}

	score := scorer.Score(query, candidate)
	if !hasReason(score.Reasons, reason.MissingTitle) {
		t.Fatalf("blank query title not flagged: %v", score.Reasons)
	}
	if hasReason(score.Reasons, reason.MissingArtist) {
		t.Fatalf("present artist flagged missing: %v", score.Reasons)
	}
}

func TestScoreVinylFormatBonus(t *testing.T) {
	scorer := scoring.NewScorer(scoring.DefaultWeights())
	query := scoring.Query{Title: "Kind of Blue", Artist: "Miles Davis", Format: "Vinyl LP"}
	vinyl := provider.Candidate{Title: "Kind of Blue", Artist: "Miles Davis", Format: "Vinyl, LP, Reissue"}
	cd := provider.Candidate{Title: "Kind of Blue", Artist: "Miles Davis", Format: "CD, Album"}

	vinylScore := scorer.Score(query, vinyl)
	cdScore := scorer.Score(query, cd)
	if !hasReason(vinylScore.Reasons, reason.FormatMatchVinyl) {
		t.Fatalf("vinyl format not rewarded: %v", vinylScore.Reasons)
	}
	if vinylScore.Confidence <= cdScore.Confidence {
		t.Fatalf("vinyl bonus missing: %d <= %d", vinylScore.Confidence, cdScore.Confidence)
	}
}

func TestScoreNothingMatched(t *testing.T) {
	scorer := scoring.NewScorer(scoring.DefaultWeights())
	score := scorer.Score(scoring.Query{}, provider.Candidate{Title: "Anything", Artist: "Anyone"})
	if score.Confidence != 0 {
		t.Fatalf("no-signal confidence = %d, want 0", score.Confidence)
	}
	if !reflect.DeepEqual(score.Reasons, []reason.Code{reason.NoAPIMatch}) {
		t.Fatalf("no-signal reasons = %v, want exactly [no-api-match]", score.Reasons)
	}
}

func TestScoreLowSignal(t *testing.T) {
	scorer := scoring.NewScorer(scoring.DefaultWeights())
	query := scoring.Query{Title: "Maxinquaye", Artist: "aaa"}
	candidate := provider.Candidate{Title: "Dummy", Artist: "zzz"}

	score := scorer.Score(query, candidate)
	if score.Confidence <= 0 || score.Confidence >= scorer.Weights().LowSignalThreshold {
		t.Fatalf("expected confidence in (0, %d), got %d", scorer.Weights().LowSignalThreshold, score.Confidence)
	}
	if !hasReason(score.Reasons, reason.LowSignal) {
		t.Fatalf("low total without evidence not flagged: %v (confidence %d)", score.Reasons, score.Confidence)
	}
}

func TestScoreClampedTo100(t *testing.T) {
	scorer := scoring.NewScorer(scoring.DefaultWeights())
	query := scoring.Query{
		Title: "Kind of Blue", Artist: "Miles Davis", Label: "Columbia",
		CatalogNumber: "CL 1355", Barcode: "4006381333931", Format: "Vinyl",
	}
	candidate := provider.Candidate{
		Title: "Kind of Blue", Artist: "Miles Davis", Label: "Columbia",
		CatalogNumber: "CL 1355", Barcode: "4006381333931", Format: "Vinyl, LP",
	}
	if score := scorer.Score(query, candidate); score.Confidence != 100 {
		t.Fatalf("saturated score = %d, want 100", score.Confidence)
	}
}

func TestScoreIsPure(t *testing.T) {
	scorer := scoring.NewScorer(scoring.DefaultWeights())
	query := scoring.Query{Title: "Low", Artist: "David Bowie", Barcode: "123"}
	candidate := provider.Candidate{Title: "Low", Artist: "David Bowie", Barcode: "123"}

	first := scorer.Score(query, candidate)
	second := scorer.Score(query, candidate)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-scoring diverged: %+v vs %+v", first, second)
	}
}

func TestRankOrdersByConfidence(t *testing.T) {
	scorer := scoring.NewScorer(scoring.DefaultWeights())
	query := scoring.Query{Title: "Hounds of Love", Artist: "Kate Bush", Barcode: "123"}
	candidates := []provider.Candidate{
		{ReleaseID: "weak", Title: "The Dreaming", Artist: "Kate Bush"},
		{ReleaseID: "strong", Title: "Hounds of Love", Artist: "Kate Bush", Barcode: "123"},
	}

	ranked := scorer.Rank(query, candidates)
	if len(ranked) != 2 {
		t.Fatalf("ranked length = %d", len(ranked))
	}
	if ranked[0].Candidate.ReleaseID != "strong" {
		t.Fatalf("expected barcode candidate first, got %q", ranked[0].Candidate.ReleaseID)
	}
	if ranked[0].Confidence <= ranked[1].Confidence {
		t.Fatalf("ranking not descending: %d then %d", ranked[0].Confidence, ranked[1].Confidence)
	}
}
