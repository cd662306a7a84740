package controller

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"ArticlesDesk/internal/domain"
	"ArticlesDesk/internal/page"
)

type fakeCatalog struct {
	mu sync.Mutex

	recommended    func() ([]domain.ArticleSummary, error)
	random         func() ([]domain.ArticleSummary, error)
	related        func(id string) ([]domain.ArticleSummary, error)
	search         func(q domain.SearchQuery) ([]domain.ArticleSummary, error)
	upload         func(req domain.UploadRequest) (domain.ArticleSummary, error)
	calls          map[string]int
	uploadRequests []domain.UploadRequest
	relatedIDs     []string
	queries        []domain.SearchQuery
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{calls: map[string]int{}}
}

func (f *fakeCatalog) count(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeCatalog) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeCatalog) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeCatalog) FetchRecommended(context.Context) ([]domain.ArticleSummary, error) {
	f.count("recommended")
	if f.recommended == nil {
		return nil, nil
	}
	return f.recommended()
}

func (f *fakeCatalog) FetchRandom(context.Context) ([]domain.ArticleSummary, error) {
	f.count("random")
	if f.random == nil {
		return nil, nil
	}
	return f.random()
}

func (f *fakeCatalog) FetchRelated(_ context.Context, id string) ([]domain.ArticleSummary, error) {
	f.count("related")
	f.mu.Lock()
	f.relatedIDs = append(f.relatedIDs, id)
	f.mu.Unlock()
	if f.related == nil {
		return nil, nil
	}
	return f.related(id)
}

func (f *fakeCatalog) Search(_ context.Context, q domain.SearchQuery) ([]domain.ArticleSummary, error) {
	f.count("search")
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.search == nil {
		return nil, nil
	}
	return f.search(q)
}

func (f *fakeCatalog) Upload(_ context.Context, req domain.UploadRequest) (domain.ArticleSummary, error) {
	f.count("upload")
	f.mu.Lock()
	f.uploadRequests = append(f.uploadRequests, req)
	f.mu.Unlock()
	if f.upload == nil {
		return domain.ArticleSummary{}, nil
	}
	return f.upload(req)
}

func parsePage(t *testing.T, markup, path string) *page.Page {
	t.Helper()
	p, err := page.Parse(strings.NewReader(markup), &url.URL{Path: path})
	require.NoError(t, err)
	return p
}

func outerHTML(t *testing.T, p *page.Page, sel *goquery.Selection) string {
	t.Helper()
	var (
		out string
		err error
	)
	p.Do(func(*goquery.Document) { out, err = goquery.OuterHtml(sel) })
	require.NoError(t, err)
	return out
}
