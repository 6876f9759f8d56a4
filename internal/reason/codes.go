package reason

import (
	"encoding/json"
	"sort"
	"strings"
)

// Code is a single scoring rationale token.
type Code string

// Canonical codes in registry order. Order here is display order.
const (
	BarcodeMatch         Code = "barcode-match"
	BarcodeValidChecksum Code = "barcode-valid-checksum"
	BarcodeNormalized    Code = "barcode-normalized"
	CatalogNumberMatch   Code = "catalog-number-match"
	LabelMatch           Code = "label-match"
	TitleMatch           Code = "title-match"
	ArtistMatch          Code = "artist-match"
	WeakMatchTitle       Code = "weak-match-title"
	WeakMatchArtist      Code = "weak-match-artist"
	MissingTitle         Code = "missing-title"
	MissingArtist        Code = "missing-artist"
	FormatMatchVinyl     Code = "format-match-vinyl"
	RunnerUpGapStrong    Code = "runner-up-gap-strong"
	MultipleCandidates   Code = "multiple-candidates"
	LowSignal            Code = "low-signal"
	NoAPIMatch           Code = "no-api-match"
)

var registryOrder = []Code{
	BarcodeMatch,
	BarcodeValidChecksum,
	BarcodeNormalized,
	CatalogNumberMatch,
	LabelMatch,
	TitleMatch,
	ArtistMatch,
	WeakMatchTitle,
	WeakMatchArtist,
	MissingTitle,
	MissingArtist,
	FormatMatchVinyl,
	RunnerUpGapStrong,
	MultipleCandidates,
	LowSignal,
	NoAPIMatch,
}

var registryIndex = func() map[Code]int {
	idx := make(map[Code]int, len(registryOrder))
	for i, code := range registryOrder {
		idx[code] = i
	}
	return idx
}()

// Known reports whether the code belongs to the canonical registry.
func Known(code Code) bool {
	_, ok := registryIndex[code]
	return ok
}

// All returns the canonical codes in registry order.
func All() []Code {
	cp := make([]Code, len(registryOrder))
	copy(cp, registryOrder)
	return cp
}

// Normalize deduplicates and orders codes: canonical codes first in registry
// order, unrecognized codes appended alphabetically. Blank codes are dropped.
func Normalize(codes []Code) []Code {
	if len(codes) == 0 {
		return nil
	}
	seen := make(map[Code]struct{}, len(codes))
	var known, unknown []Code
	for _, code := range codes {
		code = Code(strings.TrimSpace(string(code)))
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		if Known(code) {
			known = append(known, code)
		} else {
			unknown = append(unknown, code)
		}
	}
	sort.Slice(known, func(i, j int) bool {
		return registryIndex[known[i]] < registryIndex[known[j]]
	})
	sort.Slice(unknown, func(i, j int) bool {
		return unknown[i] < unknown[j]
	})
	return append(known, unknown...)
}

// Encode normalizes codes and serializes them as a JSON list. An empty set
// encodes to the empty string.
func Encode(codes []Code) string {
	normalized := Normalize(codes)
	if len(normalized) == 0 {
		return ""
	}
	data, err := json.Marshal(normalized)
	if err != nil {
		return ""
	}
	return string(data)
}

// Decode parses an encoded reason list. Malformed input decodes to nil
// rather than an error so historical rows are always readable.
func Decode(encoded string) []Code {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil
	}
	var codes []Code
	if err := json.Unmarshal([]byte(encoded), &codes); err != nil {
		return nil
	}
	return Normalize(codes)
}

// Append adds a code to an encoded list, renormalizing on write.
func Append(encoded string, code Code) string {
	return Encode(append(Decode(encoded), code))
}

// Remove drops a code from an encoded list, renormalizing on write.
func Remove(encoded string, code Code) string {
	decoded := Decode(encoded)
	kept := decoded[:0]
	for _, c := range decoded {
		if c != code {
			kept = append(kept, c)
		}
	}
	return Encode(kept)
}
