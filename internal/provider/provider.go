package provider

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Sentinel failures a Searcher implementation may return. The engine maps
// these to error classifications; anything else counts as a generic API
// failure.
var (
	ErrRateLimited = errors.New("provider rate limited")
	ErrOffline     = errors.New("provider unreachable")
)

// Candidate is a read-only metadata record returned by a lookup call. Raw
// preserves the provider-native payload for later replay.
type Candidate struct {
	Provider      string
	ReleaseID     string
	Title         string
	Artist        string
	Year          int
	Label         string
	CatalogNumber string
	Format        string
	Thumbnail     string
	Barcode       string
	Raw           json.RawMessage
}

// IsVinyl reports whether the candidate's format summary indicates a vinyl
// pressing.
func (c Candidate) IsVinyl() bool {
	return FormatIndicatesVinyl(c.Format)
}

// FormatIndicatesVinyl matches vinyl/LP hints in a free-form format summary.
func FormatIndicatesVinyl(format string) bool {
	format = strings.ToLower(format)
	if strings.Contains(format, "vinyl") {
		return true
	}
	for _, token := range strings.FieldsFunc(format, func(r rune) bool {
		return r == ' ' || r == ',' || r == '/' || r == ';'
	}) {
		if token == "lp" || token == "12\"" || token == "7\"" || token == "10\"" {
			return true
		}
	}
	return false
}

// Searcher is the metadata lookup surface the engine drives. Implementations
// must honor ctx cancellation and surface throttling as ErrRateLimited.
type Searcher interface {
	LookupByBarcode(ctx context.Context, barcode string) ([]Candidate, error)
	LookupByCatalogNumber(ctx context.Context, catalogNumber, label string) ([]Candidate, error)
	SearchByTitleArtist(ctx context.Context, title, artist string) ([]Candidate, error)
}
