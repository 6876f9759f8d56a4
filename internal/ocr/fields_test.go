package ocr

import "testing"

func TestParseFieldsSleeveLayout(t *testing.T) {
	lines := []string{
		"STEREO",
		"John Coltrane",
		"A Love Supreme",
		"Impulse! Records",
		"AS-77",
	}
	got := ParseFields(lines)
	if got.Artist != "John Coltrane" {
		t.Errorf("Artist = %q", got.Artist)
	}
	if got.Title != "A Love Supreme" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Label != "Impulse! Records" {
		t.Errorf("Label = %q", got.Label)
	}
	if got.CatalogNumber != "AS-77" {
		t.Errorf("CatalogNumber = %q", got.CatalogNumber)
	}
}

func TestParseFieldsSeparatorLine(t *testing.T) {
	got := ParseFields([]string{"Portishead - Dummy", "Go! Beat Records"})
	if got.Artist != "Portishead" || got.Title != "Dummy" {
		t.Errorf("Artist/Title = %q/%q", got.Artist, got.Title)
	}
	if got.Label != "Go! Beat Records" {
		t.Errorf("Label = %q", got.Label)
	}
}

func TestParseFieldsCatalogPrefix(t *testing.T) {
	got := ParseFields([]string{"Cat No: PCS 7027", "The Beatles", "Abbey Road"})
	if got.CatalogNumber != "PCS 7027" {
		t.Errorf("CatalogNumber = %q", got.CatalogNumber)
	}
	if got.Artist != "The Beatles" || got.Title != "Abbey Road" {
		t.Errorf("Artist/Title = %q/%q", got.Artist, got.Title)
	}
}

func TestParseFieldsNoiseLines(t *testing.T) {
	lines := []string{
		"33 1/3 RPM",
		"Made in England",
		"Side One",
		"Kind of Blue",
	}
	got := ParseFields(lines)
	if got.Artist != "Kind of Blue" {
		t.Errorf("Artist = %q, want first surviving line", got.Artist)
	}
	if got.Title != "" {
		t.Errorf("Title = %q, want empty", got.Title)
	}
}

func TestParseFieldsEmpty(t *testing.T) {
	if got := ParseFields(nil); !got.Empty() {
		t.Errorf("ParseFields(nil) = %+v, want empty", got)
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("  a \n\n b\n")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("SplitLines = %v", got)
	}
}
