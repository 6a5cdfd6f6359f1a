package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	HomeURL      = "https://www.thedp.com"
	AcademicsURL = "https://www.thedp.com/section/academics"
	UserAgent    = "dp-monitor/1.0 (github.com/pfrederiksen/dp-monitor)"
	Timeout      = 30 * time.Second
)

// StatusError reports a response outside the 2xx range
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// Page is a fetched HTML document
type Page struct {
	URL        string // final URL after redirects
	StatusCode int
	Body       string
}

// Fetcher performs the outbound page requests
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying client
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// New creates a new Fetcher instance
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			Timeout: Timeout,
		},
		userAgent: UserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves url and returns its body. Any 2xx status is a success;
// other statuses return a *StatusError alongside the partially filled Page.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	page := &Page{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return page, &StatusError{URL: page.URL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return page, fmt.Errorf("reading body: %w", err)
	}
	page.Body = string(body)

	return page, nil
}
