package discogs_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pressmark/internal/provider"
	"pressmark/internal/provider/discogs"
)

func newClient(t *testing.T, baseURL string) *discogs.Client {
	t.Helper()
	client, err := discogs.New("token", baseURL, discogs.WithRequestsPerMinute(0))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresToken(t *testing.T) {
	if _, err := discogs.New("", "https://example.com"); err == nil {
		t.Fatal("expected error when token missing")
	}
}

func TestLookupByBarcodeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Discogs token=token" {
			t.Fatalf("unexpected Authorization header %q", got)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Fatal("expected a User-Agent header")
		}
		query := r.URL.Query()
		if query.Get("barcode") != "5024545152617" {
			t.Fatalf("expected barcode parameter, got %q", r.URL.RawQuery)
		}
		if query.Get("type") != "release" {
			t.Fatalf("expected type=release, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{
			"id":1558648,
			"type":"release",
			"title":"Portishead - Dummy",
			"year":"1994",
			"label":["Go! Beat"],
			"catno":"828 522-1",
			"barcode":["5024545152617"],
			"format":["Vinyl","LP","Album"],
			"thumb":"https://img.example/dummy.jpg"
		}]}`))
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server.URL)
	candidates, err := client.LookupByBarcode(context.Background(), "5024545152617")
	if err != nil {
		t.Fatalf("LookupByBarcode returned error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	got := candidates[0]
	if got.Provider != discogs.ProviderName || got.ReleaseID != "1558648" {
		t.Fatalf("unexpected identity: %#v", got)
	}
	if got.Artist != "Portishead" || got.Title != "Dummy" {
		t.Fatalf("artist/title split failed: %q / %q", got.Artist, got.Title)
	}
	if got.Year != 1994 || got.Label != "Go! Beat" || got.CatalogNumber != "828 522-1" {
		t.Fatalf("unexpected metadata: %#v", got)
	}
	if !got.IsVinyl() {
		t.Fatalf("expected vinyl format, got %q", got.Format)
	}
	if len(got.Raw) == 0 {
		t.Fatal("expected raw payload to be preserved")
	}
}

func TestSearchByTitleArtistParameters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("release_title") != "Dummy" || query.Get("artist") != "Portishead" {
			t.Fatalf("unexpected query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server.URL)
	candidates, err := client.SearchByTitleArtist(context.Background(), "Dummy", "Portishead")
	if err != nil {
		t.Fatalf("SearchByTitleArtist returned error: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(candidates))
	}
}

func TestSearchRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server.URL)
	_, err := client.LookupByCatalogNumber(context.Background(), "PCS 7027", "Parlophone")
	if !errors.Is(err, provider.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server.URL)
	_, err := client.LookupByBarcode(context.Background(), "5024545152617")
	if !errors.Is(err, provider.ErrOffline) {
		t.Fatalf("expected ErrOffline, got %v", err)
	}
}

func TestSearchSkipsNonReleaseResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"id":1,"type":"artist","title":"Portishead"},
			{"id":2,"type":"release","title":"Portishead - Dummy","year":1994}
		]}`))
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server.URL)
	candidates, err := client.SearchByTitleArtist(context.Background(), "Dummy", "")
	if err != nil {
		t.Fatalf("SearchByTitleArtist returned error: %v", err)
	}
	if len(candidates) != 1 || candidates[0].ReleaseID != "2" {
		t.Fatalf("expected only the release result, got %#v", candidates)
	}
	if candidates[0].Year != 1994 {
		t.Fatalf("numeric year not parsed: %#v", candidates[0])
	}
}

func TestLookupByBarcodeEmpty(t *testing.T) {
	client := newClient(t, "https://example.com")
	if _, err := client.LookupByBarcode(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty barcode")
	}
}
