package scoring

import (
	"math"
	"sort"
	"strings"

	"pressmark/internal/fuzzy"
	"pressmark/internal/provider"
	"pressmark/internal/reason"
	"pressmark/internal/textnorm"
)

// Query carries the user-supplied (or OCR-extracted) fields a candidate is
// scored against. Blank fields are simply unused.
type Query struct {
	Title         string
	Artist        string
	Label         string
	CatalogNumber string
	Barcode       string
	Format        string
}

// CandidateScore is the scored outcome for one candidate: an integer
// confidence in [0, 100] plus normalized reason codes.
type CandidateScore struct {
	Candidate  provider.Candidate
	Confidence int
	Reasons    []reason.Code
}

// Scorer computes candidate confidence using a fixed weight table.
type Scorer struct {
	weights Weights
}

// NewScorer builds a scorer, normalizing out-of-range weights to defaults.
func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights.normalized()}
}

// Weights returns the effective weight table.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score evaluates one candidate against the query.
func (s *Scorer) Score(query Query, candidate provider.Candidate) CandidateScore {
	w := s.weights
	points := 0
	var reasons []reason.Code
	structural := false

	queryBarcode := textnorm.EvidenceKey(query.Barcode)
	candidateBarcode := textnorm.EvidenceKey(candidate.Barcode)
	if queryBarcode != "" && queryBarcode == candidateBarcode {
		structural = true
		points += w.BarcodeBonus
		reasons = append(reasons, reason.BarcodeMatch, reason.BarcodeNormalized)
		if textnorm.ValidBarcodeChecksum(query.Barcode) {
			points += w.BarcodeChecksumBonus
			reasons = append(reasons, reason.BarcodeValidChecksum)
		}
	} else if key := textnorm.EvidenceKey(query.CatalogNumber); key != "" && key == textnorm.EvidenceKey(candidate.CatalogNumber) {
		structural = true
		points += w.CatalogNumberBonus
		reasons = append(reasons, reason.CatalogNumberMatch)
	}

	if key := textnorm.EvidenceKey(query.Label); key != "" && key == textnorm.EvidenceKey(candidate.Label) {
		points += w.LabelBonus
		reasons = append(reasons, reason.LabelMatch)
	}

	combined := fuzzy.CombinedScore(query.Artist, query.Title, candidate.Artist, candidate.Title, w.ArtistWeight)
	namePoints := int(math.Round(combined * float64(w.NameScaleMax)))
	points += namePoints
	titleUsable := fuzzy.Normalize(query.Title) != "" && fuzzy.Normalize(candidate.Title) != ""
	artistUsable := fuzzy.Normalize(query.Artist) != "" && fuzzy.Normalize(candidate.Artist) != ""
	if namePoints > 0 {
		strong := namePoints >= w.WeakNameThreshold
		if titleUsable {
			if strong {
				reasons = append(reasons, reason.TitleMatch)
			} else {
				reasons = append(reasons, reason.WeakMatchTitle)
			}
		}
		if artistUsable {
			if strong {
				reasons = append(reasons, reason.ArtistMatch)
			} else {
				reasons = append(reasons, reason.WeakMatchArtist)
			}
		}
	}

	if queryWantsVinyl(query.Format) && candidate.IsVinyl() {
		points += w.FormatBonus
		reasons = append(reasons, reason.FormatMatchVinyl)
	}

	if strings.TrimSpace(query.Title) == "" {
		points -= w.MissingFieldPenalty
		reasons = append(reasons, reason.MissingTitle)
	}
	if strings.TrimSpace(query.Artist) == "" {
		points -= w.MissingFieldPenalty
		reasons = append(reasons, reason.MissingArtist)
	}

	if !structural && points <= 0 {
		return CandidateScore{
			Candidate:  candidate,
			Confidence: 0,
			Reasons:    []reason.Code{reason.NoAPIMatch},
		}
	}
	if !structural && points < w.LowSignalThreshold {
		reasons = append(reasons, reason.LowSignal)
	}

	if points < 0 {
		points = 0
	}
	if points > 100 {
		points = 100
	}
	return CandidateScore{
		Candidate:  candidate,
		Confidence: points,
		Reasons:    reason.Normalize(reasons),
	}
}

// Rank scores every candidate and orders the results by confidence,
// descending. Ordering is stable so equal-confidence candidates keep their
// provider order.
func (s *Scorer) Rank(query Query, candidates []provider.Candidate) []CandidateScore {
	scores := make([]CandidateScore, 0, len(candidates))
	for _, candidate := range candidates {
		scores = append(scores, s.Score(query, candidate))
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Confidence > scores[j].Confidence
	})
	return scores
}

func queryWantsVinyl(format string) bool {
	return provider.FormatIndicatesVinyl(format)
}
