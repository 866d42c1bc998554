package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// ClientOptions configures a catalog Client.
type ClientOptions struct {
	// BaseURL is the catalog service root, e.g. "https://api.example.com".
	BaseURL string
	// RequestsPerSecond caps outbound calls. Zero or less means unlimited.
	RequestsPerSecond float64
	// RetryMax is the number of retries after the first attempt. Defaults to 3.
	RetryMax int
	// Timeout bounds a single attempt. Defaults to 10s.
	Timeout time.Duration
	// Logger receives retry diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client reads listings from the remote catalog service over HTTP.
// Transient failures (connection errors, 5xx, 429) are retried with backoff.
type Client struct {
	base    *url.URL
	http    *retryablehttp.Client
	limiter *rate.Limiter
}

// NewClient constructs a Client. Returns an error if BaseURL is not an absolute URL.
func NewClient(opts ClientOptions) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("catalog.NewClient: invalid base URL %q", opts.BaseURL)
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	if opts.RetryMax > 0 {
		rc.RetryMax = opts.RetryMax
	}
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = 10 * time.Second
	if opts.Timeout > 0 {
		rc.HTTPClient.Timeout = opts.Timeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	// *slog.Logger satisfies retryablehttp.LeveledLogger.
	rc.Logger = logger.With("component", "catalog_client")

	limit := rate.Inf
	burst := 1
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
		burst = max(1, int(opts.RequestsPerSecond))
	}

	return &Client{base: base, http: rc, limiter: rate.NewLimiter(limit, burst)}, nil
}

// Listings fetches GET {base}/businesses?category={category}.
// The body may be a bare JSON array or an object with a "data" array.
func (c *Client) Listings(ctx context.Context, category string) ([]domain.Listing, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("catalog.Client.Listings: rate limit: %w", err)
	}

	u := *c.base
	u.Path += "/businesses"
	u.RawQuery = url.Values{"category": {category}}.Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("catalog.Client.Listings: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog.Client.Listings: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog.Client.Listings: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog.Client.Listings: %s returned %d", category, resp.StatusCode)
	}

	listings, err := ParseListings(body)
	if err != nil {
		return nil, fmt.Errorf("catalog.Client.Listings: %w", err)
	}
	return listings, nil
}

// ParseListings decodes a catalog payload. Unknown fields are ignored,
// business_id may be a string or a number, and a null rating stays nil.
func ParseListings(body []byte) ([]domain.Listing, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON payload")
	}
	root := gjson.ParseBytes(body)
	if root.IsObject() {
		root = root.Get("data")
	}
	if !root.IsArray() {
		return nil, fmt.Errorf("expected a JSON array of listings")
	}

	rows := root.Array()
	out := make([]domain.Listing, 0, len(rows))
	for _, r := range rows {
		l := domain.Listing{
			BusinessID:   r.Get("business_id").String(),
			BusinessName: r.Get("businessName").String(),
			BusinessLogo: r.Get("businessLogo").String(),
			Category:     stringList(r.Get("category")),
			Amenities:    stringList(r.Get("amenities")),
			Destination:  r.Get("destination").String(),
			LowestPrice:  r.Get("lowest_price").Float(),
			HighestPrice: r.Get("highest_price").Float(),
		}
		if rating := r.Get("rating"); rating.Exists() && rating.Type == gjson.Number {
			v := rating.Float()
			l.Rating = &v
		}
		out = append(out, l)
	}
	return out, nil
}

// stringList reads a JSON array of strings. A single string is treated as a
// one-element array, since some catalog rows carry a bare category.
func stringList(r gjson.Result) []string {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	if !r.IsArray() {
		return []string{r.String()}
	}
	items := r.Array()
	out := make([]string, 0, len(items))
	for _, v := range items {
		out = append(out, v.String())
	}
	return out
}
