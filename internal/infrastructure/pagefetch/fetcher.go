package pagefetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ArticlesDesk/internal/page"
)

// Fetcher loads pages from the catalog origin.
type Fetcher struct {
	base      *url.URL
	client    *http.Client
	userAgent string
}

// NewFetcher wires an HTTP client; a nil client gets a 20s timeout.
func NewFetcher(base *url.URL, client *http.Client, userAgent string) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Fetcher{base: base, client: client, userAgent: userAgent}
}

// Fetch loads the page at path (resolved against the origin) and parses it.
func (f *Fetcher) Fetch(ctx context.Context, path string) (*page.Page, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid page path %q: %w", path, err)
	}
	pageURL := f.base.ResolveReference(ref)

	doc, err := f.fetchDocument(ctx, pageURL.String())
	if err != nil {
		return nil, err
	}
	return page.New(doc, pageURL), nil
}

func (f *Fetcher) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/html")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page %s returned %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	return doc, nil
}
