package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"ArticlesDesk/internal/config"
	"ArticlesDesk/internal/domain"
	"ArticlesDesk/internal/ports"
)

const (
	articlesPath       = "/api/articles/"
	recommendedPath    = "/api/articles/recommended/"
	randomPath         = "/api/articles/random/"
	searchPath         = "/api/articles/search/"
	requestIDHeader    = "X-Request-ID"
	maxErrorBodyBytes  = 64 << 10
	defaultHTTPTimeout = 15 * time.Second
)

// Client talks to the catalog's HTTP API rooted at the page origin.
type Client struct {
	base      *url.URL
	userAgent string
	http      *http.Client
	logger    *slog.Logger
}

var _ ports.Catalog = (*Client)(nil)

// NewClient validates the base URL and wires an HTTP client. A nil httpClient gets
// one with the configured timeout.
func NewClient(cfg config.CatalogConfig, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid catalog base url %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid catalog base url %q: scheme must be http or https", cfg.BaseURL)
	}

	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		base:      base,
		userAgent: cfg.UserAgent,
		http:      httpClient,
		logger:    logger,
	}, nil
}

// BaseURL is the origin requests are resolved against.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// FetchRecommended lists the backend's recommended articles.
func (c *Client) FetchRecommended(ctx context.Context) ([]domain.ArticleSummary, error) {
	return c.list(ctx, "fetch recommended", recommendedPath, nil)
}

// FetchRandom lists a random sample of articles.
func (c *Client) FetchRandom(ctx context.Context) ([]domain.ArticleSummary, error) {
	return c.list(ctx, "fetch random", randomPath, nil)
}

// FetchRelated lists articles related to id.
func (c *Client) FetchRelated(ctx context.Context, id string) ([]domain.ArticleSummary, error) {
	path := articlesPath + url.PathEscape(id) + "/related/"
	return c.list(ctx, "fetch related", path, nil)
}

// Search lists articles matching query.
func (c *Client) Search(ctx context.Context, query domain.SearchQuery) ([]domain.ArticleSummary, error) {
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	return c.list(ctx, "search", searchPath, url.Values{"query": {query.String()}})
}

// Upload posts the form as multipart data and returns the created record.
func (c *Client) Upload(ctx context.Context, req domain.UploadRequest) (domain.ArticleSummary, error) {
	const op = "upload"

	body, contentType, err := encodeMultipart(req)
	if err != nil {
		return domain.ArticleSummary{}, fmt.Errorf("encode upload form: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, articlesPath, nil, body)
	if err != nil {
		return domain.ArticleSummary{}, err
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return domain.ArticleSummary{}, &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if detail := readDetail(resp.Body); detail != "" {
			return domain.ArticleSummary{}, &domain.ApplicationError{Op: op, StatusCode: resp.StatusCode, Detail: detail}
		}
		return domain.ArticleSummary{}, &domain.NetworkError{Op: op, StatusCode: resp.StatusCode}
	}

	var created domain.ArticleSummary
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil && !errors.Is(err, io.EOF) {
		c.logger.Debug("upload response body not decodable", "error", err)
	}
	c.logger.Debug("upload accepted", "id", created.ID, "status", resp.StatusCode)
	return created, nil
}

func (c *Client) list(ctx context.Context, op, path string, query url.Values) ([]domain.ArticleSummary, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &domain.NetworkError{Op: op, StatusCode: resp.StatusCode}
	}

	var articles []domain.ArticleSummary
	if err := json.NewDecoder(resp.Body).Decode(&articles); err != nil {
		return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	if articles == nil {
		articles = []domain.ArticleSummary{}
	}

	c.logger.Debug("catalog list fetched", "op", op, "count", len(articles))
	return articles, nil
}

// newRequest resolves an escaped path against the base URL.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", path, err)
	}
	ref.RawQuery = encodeQuery(query)
	target := c.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set(requestIDHeader, uuid.NewString())
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

// readDetail extracts a string "detail" from a JSON error body; anything else yields "".
func readDetail(body io.Reader) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBodyBytes)).Decode(&payload); err != nil {
		return ""
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return strings.TrimSpace(detail)
}

func encodeMultipart(req domain.UploadRequest) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for name, values := range req.Fields {
		for _, v := range values {
			if err := w.WriteField(name, v); err != nil {
				return nil, "", fmt.Errorf("write field %s: %w", name, err)
			}
		}
	}

	for _, f := range req.Files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("write file part %s: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

// encodeQuery percent-encodes spaces as %20. Encode escapes a literal plus as
// %2B, so every remaining plus stands for a space.
func encodeQuery(query url.Values) string {
	return strings.ReplaceAll(query.Encode(), "+", "%20")
}
