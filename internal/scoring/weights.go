package scoring

import "pressmark/internal/fuzzy"

// Weights centralizes every bonus, penalty, and threshold used by the
// scorer. Zero or out-of-range fields fall back to defaults.
type Weights struct {
	// BarcodeBonus is the dominant-signal bonus for an evidence-key barcode
	// match between query and candidate.
	BarcodeBonus int
	// BarcodeChecksumBonus is added on top of BarcodeBonus when the query
	// barcode carries a valid GTIN check digit.
	BarcodeChecksumBonus int
	// CatalogNumberBonus applies when the catalog numbers match under the
	// evidence key and no barcode match fired.
	CatalogNumberBonus int
	// LabelBonus applies when query and candidate labels match.
	LabelBonus int
	// NameScaleMax is the point ceiling for the combined artist/title fuzzy
	// score (a combined score of 1.0 earns exactly this many points).
	NameScaleMax int
	// WeakNameThreshold splits strong title/artist match reasons from weak
	// ones: scaled name points below this emit weak-match codes.
	WeakNameThreshold int
	// FormatBonus applies when both sides indicate a vinyl pressing.
	FormatBonus int
	// MissingFieldPenalty is subtracted once per blank query title/artist.
	MissingFieldPenalty int
	// LowSignalThreshold marks totals below it (without structural
	// evidence) with the low-signal reason.
	LowSignalThreshold int
	// ArtistWeight is the artist share of the combined fuzzy score.
	ArtistWeight float64
}

// DefaultWeights returns the tuned scoring constants.
func DefaultWeights() Weights {
	return Weights{
		BarcodeBonus:         70,
		BarcodeChecksumBonus: 5,
		CatalogNumberBonus:   35,
		LabelBonus:           8,
		NameScaleMax:         40,
		WeakNameThreshold:    24,
		FormatBonus:          5,
		MissingFieldPenalty:  10,
		LowSignalThreshold:   20,
		ArtistWeight:         fuzzy.DefaultArtistWeight,
	}
}

func (w Weights) normalized() Weights {
	d := DefaultWeights()
	if w.BarcodeBonus <= 0 {
		w.BarcodeBonus = d.BarcodeBonus
	}
	if w.BarcodeChecksumBonus < 0 {
		w.BarcodeChecksumBonus = d.BarcodeChecksumBonus
	}
	if w.CatalogNumberBonus <= 0 {
		w.CatalogNumberBonus = d.CatalogNumberBonus
	}
	if w.LabelBonus < 0 {
		w.LabelBonus = d.LabelBonus
	}
	if w.NameScaleMax <= 0 {
		w.NameScaleMax = d.NameScaleMax
	}
	if w.WeakNameThreshold <= 0 || w.WeakNameThreshold > w.NameScaleMax {
		w.WeakNameThreshold = d.WeakNameThreshold
	}
	if w.FormatBonus < 0 {
		w.FormatBonus = d.FormatBonus
	}
	if w.MissingFieldPenalty < 0 {
		w.MissingFieldPenalty = d.MissingFieldPenalty
	}
	if w.LowSignalThreshold <= 0 {
		w.LowSignalThreshold = d.LowSignalThreshold
	}
	if w.ArtistWeight <= 0 || w.ArtistWeight >= 1 {
		w.ArtistWeight = d.ArtistWeight
	}
	return w
}
