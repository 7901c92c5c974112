// Package openalex downloads works for an institution from the OpenAlex API
// and normalizes them into the source tables.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the OpenAlex API base URL.
	BaseURL = "https://api.openalex.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is the default request rate (one request per 200ms).
	RateLimit = 5.0

	// PerPage is the page size for /works, the API maximum.
	PerPage = 200

	// DefaultMaxWorks caps a download when no limit is given.
	DefaultMaxWorks = 1000

	// WorkFields are the fields requested for each work.
	WorkFields = "id,title,publication_year,cited_by_count,authorships,referenced_works,topics"

	institutionSearchLimit = 5
)

// Client is a rate-limited HTTP client for the OpenAlex API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
	apiKey     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMailto joins the polite pool by identifying the caller.
func WithMailto(email string) ClientOption {
	return func(c *Client) {
		c.mailto = email
	}
}

// WithAPIKey sets the premium API key.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithRateLimit sets requests per second. Non-positive values keep the default.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewClient creates a new OpenAlex client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: status %d", ErrNotFound, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	return nil
}

// get issues a rate-limited GET and decodes the JSON body into v.
func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// FindInstitution searches institutions and picks the best match for query:
// the first result whose display name contains every word of the query,
// otherwise the first result. The returned id is the short form (I123...).
func (c *Client) FindInstitution(ctx context.Context, query string) (Institution, error) {
	params := url.Values{}
	params.Set("search", query)
	params.Set("per_page", strconv.Itoa(institutionSearchLimit))

	var resp listResponse[Institution]
	if err := c.get(ctx, "/institutions", params, &resp); err != nil {
		return Institution{}, err
	}
	if len(resp.Results) == 0 {
		return Institution{}, fmt.Errorf("%w: no institution matches %q", ErrNotFound, query)
	}

	best := resp.Results[0]
	for _, inst := range resp.Results {
		if containsAllWords(inst.DisplayName, query) {
			best = inst
			break
		}
	}
	best.ID = ShortID(best.ID)
	return best, nil
}

func containsAllWords(name, query string) bool {
	name = strings.ToLower(name)
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if !strings.Contains(name, strings.Trim(w, ",.")) {
			return false
		}
	}
	return true
}

// FetchWorks pages through works affiliated with the institution and
// published in [yearFrom, yearTo], stopping at an empty page or maxWorks.
// If a page fails, the works fetched so far are returned with the error.
func (c *Client) FetchWorks(ctx context.Context, institutionID string, yearFrom, yearTo, maxWorks int) ([]Work, error) {
	if maxWorks <= 0 {
		maxWorks = DefaultMaxWorks
	}

	var works []Work
	for page := 1; len(works) < maxWorks; page++ {
		params := url.Values{}
		params.Set("filter", fmt.Sprintf("institutions.id:%s,publication_year:%d-%d", ShortID(institutionID), yearFrom, yearTo))
		params.Set("per_page", strconv.Itoa(PerPage))
		params.Set("page", strconv.Itoa(page))
		params.Set("select", WorkFields)

		var resp listResponse[Work]
		if err := c.get(ctx, "/works", params, &resp); err != nil {
			return works, fmt.Errorf("fetching page %d: %w", page, err)
		}
		if len(resp.Results) == 0 {
			break
		}
		works = append(works, resp.Results...)
	}

	if len(works) > maxWorks {
		works = works[:maxWorks]
	}
	return works, nil
}
