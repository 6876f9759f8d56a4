package fuzzy

import (
	"strings"
	"unicode"

	"pressmark/internal/textnorm"
)

// DefaultArtistWeight is the share of CombinedScore carried by the artist
// field when both artist and title are usable.
const DefaultArtistWeight = 0.60

const (
	winklerPrefixCap = 4
	winklerScale     = 0.1
)

// Normalize prepares text for similarity comparison: diacritics stripped,
// lowercased, everything but letters, digits, and spaces removed, whitespace
// collapsed. Empty input yields the empty string.
func Normalize(text string) string {
	text = strings.ToLower(textnorm.StripDiacritics(text))

	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			pendingSpace = true
		}
	}
	return b.String()
}

// Similarity returns the Jaro-Winkler similarity of two strings in [0, 1]
// after normalization. Two empty strings are identical (1.0); exactly one
// empty string scores 0.0.
func Similarity(a, b string) float64 {
	a = Normalize(a)
	b = Normalize(b)
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	jaro := jaroSimilarity([]rune(a), []rune(b))
	prefix := commonPrefix(a, b, winklerPrefixCap)
	return jaro + float64(prefix)*winklerScale*(1-jaro)
}

func jaroSimilarity(a, b []rune) float64 {
	la, lb := len(a), len(b)
	window := la
	if lb > window {
		window = lb
	}
	window = window/2 - 1
	if window < 0 {
		window = 0
	}

	matchedA := make([]bool, la)
	matchedB := make([]bool, lb)
	matches := 0
	for i := 0; i < la; i++ {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window
		if hi > lb-1 {
			hi = lb - 1
		}
		for j := lo; j <= hi; j++ {
			if matchedB[j] || a[i] != b[j] {
				continue
			}
			matchedA[i] = true
			matchedB[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0
	}

	transpositions := 0
	j := 0
	for i := 0; i < la; i++ {
		if !matchedA[i] {
			continue
		}
		for !matchedB[j] {
			j++
		}
		if a[i] != b[j] {
			transpositions++
		}
		j++
	}

	m := float64(matches)
	t := float64(transpositions) / 2
	return (m/float64(la) + m/float64(lb) + (m-t)/m) / 3
}

func commonPrefix(a, b string, limit int) int {
	count := 0
	for count < limit && count < len(a) && count < len(b) && a[count] == b[count] {
		count++
	}
	return count
}

// CombinedScore blends artist and title similarity into one score in [0, 1].
// A field contributes only when both sides carry a non-blank value for it;
// when one field is unusable its weight shifts entirely to the other, and
// when neither is usable the score is 0.
func CombinedScore(userArtist, userTitle, candidateArtist, candidateTitle string, artistWeight float64) float64 {
	if artistWeight <= 0 || artistWeight >= 1 {
		artistWeight = DefaultArtistWeight
	}
	titleWeight := 1 - artistWeight

	artistUsable := Normalize(userArtist) != "" && Normalize(candidateArtist) != ""
	titleUsable := Normalize(userTitle) != "" && Normalize(candidateTitle) != ""
	switch {
	case artistUsable && titleUsable:
	case artistUsable:
		artistWeight, titleWeight = 1, 0
	case titleUsable:
		artistWeight, titleWeight = 0, 1
	default:
		return 0
	}

	score := 0.0
	if artistUsable {
		score += artistWeight * Similarity(userArtist, candidateArtist)
	}
	if titleUsable {
		score += titleWeight * Similarity(userTitle, candidateTitle)
	}
	return score
}
