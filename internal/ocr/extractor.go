package ocr

import (
	"context"
	"strings"
)

// Extraction is the raw output of a text extraction pass over a cover photo.
type Extraction struct {
	RawText string
	Lines   []string
}

// Extractor produces text from a stored cover photo reference.
type Extractor interface {
	Extract(ctx context.Context, imageRef string) (Extraction, error)
}

// SplitLines converts raw extractor text into trimmed, non-empty lines.
func SplitLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
