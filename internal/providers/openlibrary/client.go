package openlibrary

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

	"folio/internal/catalog"
	"folio/internal/providers"
)

// ProviderName tags records sourced from Open Library.
const ProviderName = "openlibrary"

const searchFields = "key,title,author_name,first_publish_year,publisher,subject,language,cover_i,ratings_average,ratings_count,first_sentence"

// doc models a single Open Library search result document.
type doc struct {
	Key            string   `json:"key"`
	Title          string   `json:"title"`
	AuthorName     []string `json:"author_name"`
	FirstPublish   int      `json:"first_publish_year"`
	Publisher      []string `json:"publisher"`
	Subject        []string `json:"subject"`
	Language       []string `json:"language"`
	CoverID        int64    `json:"cover_i"`
	RatingsAverage float64  `json:"ratings_average"`
	RatingsCount   int      `json:"ratings_count"`
	FirstSentence  []string `json:"first_sentence"`
}

// response models the Open Library paginated search response.
type response struct {
	NumFound int   `json:"numFound"`
	Docs     []doc `json:"docs"`
}

// Client provides access to the Open Library search API.
type Client struct {
	baseURL      string
	coverBaseURL string
	language     string
	maxResults   int
	httpClient   *http.Client
}

var _ providers.Provider = (*Client)(nil)

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

// WithMaxResults bounds the number of candidates returned per search.
func WithMaxResults(limit int) Option {
	return func(c *Client) {
		if limit > 0 {
			c.maxResults = limit
		}
	}
}

// New creates an Open Library client.
func New(baseURL, coverBaseURL, language string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("openlibrary base url required")
	}
	coverBaseURL = strings.TrimSpace(coverBaseURL)
	if coverBaseURL == "" {
		coverBaseURL = "https://covers.openlibrary.org"
	}
	client := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		coverBaseURL: strings.TrimRight(coverBaseURL, "/"),
		language:     strings.TrimSpace(language),
		maxResults:   10,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Name implements providers.Provider.
func (c *Client) Name() string { return ProviderName }

// Search queries Open Library and maps result documents onto candidate
// metadata records, preserving the provider's relevance order.
func (c *Client) Search(ctx context.Context, query string) ([]*catalog.Metadata, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("fields", searchFields)
	params.Set("limit", strconv.Itoa(c.maxResults))
	if c.language != "" {
		params.Set("lang", c.language)
	}

	var payload response
	if err := c.get(ctx, "/search.json?"+params.Encode(), &payload); err != nil {
		return nil, err
	}

	records := make([]*catalog.Metadata, 0, len(payload.Docs))
	for _, d := range payload.Docs {
		records = append(records, c.recordFromDoc(d))
	}
	return records, nil
}

// SearchCovers returns cover-art URLs for the record, best match first. It
// reuses the search endpoint and collects every distinct cover id.
func (c *Client) SearchCovers(ctx context.Context, record *catalog.Metadata) ([]string, error) {
	if record == nil {
		return nil, errors.New("record must not be nil")
	}
	query := strings.TrimSpace(record.Title)
	if query == "" {
		return nil, errors.New("record has no title to search covers for")
	}
	if author := record.PrimaryAuthor(); author != "" {
		query += " " + author
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("fields", "cover_i")
	params.Set("limit", strconv.Itoa(c.maxResults))

	var payload response
	if err := c.get(ctx, "/search.json?"+params.Encode(), &payload); err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(payload.Docs))
	urls := make([]string, 0, len(payload.Docs))
	for _, d := range payload.Docs {
		if d.CoverID <= 0 {
			continue
		}
		if _, dup := seen[d.CoverID]; dup {
			continue
		}
		seen[d.CoverID] = struct{}{}
		urls = append(urls, c.coverURL(d.CoverID))
	}
	return urls, nil
}

func (c *Client) recordFromDoc(d doc) *catalog.Metadata {
	meta := &catalog.Metadata{
		Title:         strings.TrimSpace(d.Title),
		Authors:       trimmed(d.AuthorName),
		Categories:    trimmed(d.Subject),
		AverageRating: d.RatingsAverage,
		RatingsCount:  d.RatingsCount,
		Provider:      ProviderName,
	}
	if len(d.Publisher) > 0 {
		meta.Publisher = strings.TrimSpace(d.Publisher[0])
	}
	if d.FirstPublish > 0 {
		meta.PublishedDate = strconv.Itoa(d.FirstPublish)
	}
	if len(d.Language) > 0 {
		meta.Language = strings.TrimSpace(d.Language[0])
	}
	if len(d.FirstSentence) > 0 {
		meta.Description = strings.TrimSpace(d.FirstSentence[0])
	}
	if d.CoverID > 0 {
		meta.ThumbnailURL = c.coverURL(d.CoverID)
	}
	return meta
}

func (c *Client) coverURL(coverID int64) string {
	return fmt.Sprintf("%s/b/id/%d-L.jpg", c.coverBaseURL, coverID)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "folio/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("openlibrary request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openlibrary request: unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode openlibrary response: %w", err)
	}
	return nil
}

func trimmed(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value != "" {
			out = append(out, value)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
