package discogs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"pressmark/internal/provider"
)

// ProviderName is the value recorded on candidates and committed items.
const ProviderName = "discogs"

const defaultUserAgent = "pressmark/1.0"

// searchResult models one entry of the Discogs database search response.
// Title arrives as "Artist - Title"; label, format and barcode are arrays.
type searchResult struct {
	ID      int64     `json:"id"`
	Type    string    `json:"type"`
	Title   string    `json:"title"`
	Year    yearValue `json:"year"`
	Label   []string  `json:"label"`
	CatNo   string    `json:"catno"`
	Barcode []string  `json:"barcode"`
	Format  []string  `json:"format"`
	Thumb   string    `json:"thumb"`
}

type searchResponse struct {
	Results []json.RawMessage `json:"results"`
}

// yearValue tolerates the API returning year as either a string or a number.
type yearValue int

func (y *yearValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.Trim(string(data), `"`)
	if trimmed == "" || trimmed == "null" {
		*y = 0
		return nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		*y = 0
		return nil
	}
	*y = yearValue(parsed)
	return nil
}

// Client talks to the Discogs database search endpoint. It throttles itself
// client-side so a drain pass stays under the per-token request allowance.
type Client struct {
	token      string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ provider.Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithUserAgent overrides the User-Agent header. Discogs rejects requests
// without an identifying agent.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent = strings.TrimSpace(agent); agent != "" {
			c.userAgent = agent
		}
	}
}

// WithRequestsPerMinute sets the client-side throttle. Zero or negative
// disables throttling.
func WithRequestsPerMinute(perMinute int) Option {
	return func(c *Client) {
		if perMinute > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1)
		} else {
			c.limiter = nil
		}
	}
}

// New creates a Discogs client.
func New(token, baseURL string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("discogs token required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("discogs base url required")
	}
	client := &Client{
		token:      token,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// LookupByBarcode searches releases carrying the exact barcode.
func (c *Client) LookupByBarcode(ctx context.Context, barcode string) ([]provider.Candidate, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, errors.New("barcode must not be empty")
	}
	params := url.Values{}
	params.Set("barcode", barcode)
	return c.search(ctx, params)
}

// LookupByCatalogNumber searches releases by catalog number, optionally
// narrowed by label imprint.
func (c *Client) LookupByCatalogNumber(ctx context.Context, catalogNumber, label string) ([]provider.Candidate, error) {
	catalogNumber = strings.TrimSpace(catalogNumber)
	if catalogNumber == "" {
		return nil, errors.New("catalog number must not be empty")
	}
	params := url.Values{}
	params.Set("catno", catalogNumber)
	if label = strings.TrimSpace(label); label != "" {
		params.Set("label", label)
	}
	return c.search(ctx, params)
}

// SearchByTitleArtist performs a free-text release search.
func (c *Client) SearchByTitleArtist(ctx context.Context, title, artist string) ([]provider.Candidate, error) {
	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)
	if title == "" && artist == "" {
		return nil, errors.New("title or artist required")
	}
	params := url.Values{}
	if title != "" {
		params.Set("release_title", title)
	}
	if artist != "" {
		params.Set("artist", artist)
	}
	return c.search(ctx, params)
}

func (c *Client) search(ctx context.Context, params url.Values) ([]provider.Candidate, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("throttle wait: %w", err)
		}
	}

	endpoint, err := url.Parse(c.baseURL + "/database/search")
	if err != nil {
		return nil, fmt.Errorf("parse discogs url: %w", err)
	}
	params.Set("type", "release")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Discogs token="+c.token)
	req.Header.Set("User-Agent", c.userAgent)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("discogs search returned 429 (latency=%v): %w", latency, provider.ErrRateLimited)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("discogs search returned %d (latency=%v): %w", resp.StatusCode, latency, provider.ErrOffline)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("discogs search returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode discogs response: %w", err)
	}

	candidates := make([]provider.Candidate, 0, len(payload.Results))
	for _, raw := range payload.Results {
		var result searchResult
		if err := json.Unmarshal(raw, &result); err != nil {
			continue
		}
		if result.Type != "" && result.Type != "release" {
			continue
		}
		candidates = append(candidates, toCandidate(result, raw))
	}
	return candidates, nil
}

func toCandidate(result searchResult, raw json.RawMessage) provider.Candidate {
	artist, title := splitArtistTitle(result.Title)
	candidate := provider.Candidate{
		Provider:      ProviderName,
		ReleaseID:     strconv.FormatInt(result.ID, 10),
		Title:         title,
		Artist:        artist,
		Year:          int(result.Year),
		CatalogNumber: strings.TrimSpace(result.CatNo),
		Format:        strings.Join(result.Format, ", "),
		Thumbnail:     result.Thumb,
		Raw:           append(json.RawMessage(nil), raw...),
	}
	if len(result.Label) > 0 {
		candidate.Label = strings.TrimSpace(result.Label[0])
	}
	if len(result.Barcode) > 0 {
		candidate.Barcode = strings.TrimSpace(result.Barcode[0])
	}
	return candidate
}

// splitArtistTitle separates the Discogs combined "Artist - Title" form. A
// title with no separator is returned as-is with an empty artist.
func splitArtistTitle(combined string) (artist, title string) {
	combined = strings.TrimSpace(combined)
	if idx := strings.Index(combined, " - "); idx >= 0 {
		return strings.TrimSpace(combined[:idx]), strings.TrimSpace(combined[idx+3:])
	}
	return "", combined
}
