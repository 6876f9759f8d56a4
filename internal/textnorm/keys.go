package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// markStripper decomposes to NFD, drops combining marks, and recomposes.
var markStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics removes combining diacritical marks from text. Input that
// fails transformation is returned unchanged.
func StripDiacritics(text string) string {
	stripped, _, err := transform.String(markStripper, text)
	if err != nil {
		return text
	}
	return stripped
}

// SortKey converts text into a sortable, prefix-searchable key: trimmed,
// diacritic-stripped, lowercased, with every run of characters outside
// [a-z0-9] collapsed to a single space. Empty input yields the empty string.
func SortKey(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToLower(StripDiacritics(text))

	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// EvidenceKey is SortKey with internal spaces removed. Barcodes and catalog
// numbers compare under this key so that "MOV LP-001" and "MOVLP001" collide.
func EvidenceKey(text string) string {
	key := SortKey(text)
	if !strings.Contains(key, " ") {
		return key
	}
	return strings.ReplaceAll(key, " ", "")
}
