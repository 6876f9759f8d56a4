package ocr

import (
	"regexp"
	"strings"
)

var (
	whitespacePattern    = regexp.MustCompile(`\s+`)
	catalogLinePattern   = regexp.MustCompile(`(?i)^(?:cat(?:\.|alog(?:ue)?)?\s*(?:no\.?|number)?[:.]?\s*)?([A-Z]{1,5}[- .]?\d{2,6}[A-Z]?)$`)
	catalogTokenPattern  = regexp.MustCompile(`\b([A-Z]{2,5}[- .]?\d{3,6}[A-Z]?)\b`)
	labelSuffixPattern   = regexp.MustCompile(`(?i)\b(records|recordings|recording co\.?|music|label|gramophone)\.?$`)
	sleeveNoisePattern   = regexp.MustCompile(`(?i)^(stereo|mono|hi[- ]?fi(delity)?|long\s+play(ing)?|33\s?1/3\s?rpm|45\s?rpm|side\s+(one|two|a|b)\b.*|made\s+in\b.*|all\s+rights\b.*|unauthori[sz]ed\b.*)$`)
	artistTitleSeparator = regexp.MustCompile(`\s+[-–—]\s+|\s*[/|]\s+`)
)

// Fields holds the structured result of parsing extracted sleeve text.
type Fields struct {
	Title         string
	Artist        string
	Label         string
	CatalogNumber string
}

// Empty reports whether the parse produced no usable evidence at all.
func (f Fields) Empty() bool {
	return f.Title == "" && f.Artist == "" && f.Label == "" && f.CatalogNumber == ""
}

// ParseFields applies sleeve layout heuristics to extracted lines. Catalog
// numbers and label imprints are claimed first; of the remaining lines the
// first is read as the artist and the second as the title, unless a single
// line carries an explicit "Artist - Title" separator.
func ParseFields(lines []string) Fields {
	var fields Fields
	var leftover []string

	for _, line := range lines {
		line = strings.TrimSpace(whitespacePattern.ReplaceAllString(line, " "))
		if line == "" || sleeveNoisePattern.MatchString(line) {
			continue
		}
		if fields.CatalogNumber == "" {
			if m := catalogLinePattern.FindStringSubmatch(line); m != nil {
				fields.CatalogNumber = strings.ToUpper(m[1])
				continue
			}
		}
		if fields.Label == "" && labelSuffixPattern.MatchString(line) {
			fields.Label = line
			continue
		}
		leftover = append(leftover, line)
	}

	for i, line := range leftover {
		parts := artistTitleSeparator.Split(line, 2)
		if len(parts) != 2 {
			continue
		}
		artist := strings.TrimSpace(parts[0])
		title := strings.TrimSpace(parts[1])
		if artist == "" || title == "" {
			continue
		}
		fields.Artist = artist
		fields.Title = title
		leftover = append(leftover[:i], leftover[i+1:]...)
		break
	}

	if fields.Artist == "" && len(leftover) > 0 {
		fields.Artist = leftover[0]
		leftover = leftover[1:]
	}
	if fields.Title == "" && len(leftover) > 0 {
		fields.Title = leftover[0]
		leftover = leftover[1:]
	}

	// A sleeve often prints the catalog number inside a longer line; fall
	// back to a token scan over whatever was not claimed above.
	if fields.CatalogNumber == "" {
		for _, line := range leftover {
			if m := catalogTokenPattern.FindStringSubmatch(line); m != nil {
				fields.CatalogNumber = strings.ToUpper(m[1])
				break
			}
		}
	}
	return fields
}
