package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticlesDesk/internal/domain"
	"ArticlesDesk/internal/page"
)

const articleHTML = `<html><body>
<article><h1>Title</h1><pre><code>x := 1</code></pre></article>
<section class="related-articles">
  <h2>Related</h2>
  <ul id="related-articles-list"><li>Loading...</li></ul>
</section>
</body></html>`

func newArticle(t *testing.T, catalog *fakeCatalog, markup, path string) (*ArticleController, *page.Page) {
	t.Helper()
	p := parsePage(t, markup, path)
	a, err := NewArticleController(ArticleDeps{Page: p, Catalog: catalog})
	require.NoError(t, err)
	return a, p
}

func TestRelatedArticlesRendered(t *testing.T) {
	t.Parallel()

	catalog := newFakeCatalog()
	catalog.related = func(string) ([]domain.ArticleSummary, error) {
		return []domain.ArticleSummary{
			{ID: "2", Title: "Second", FilePath: "static/articles/2.html"},
			{ID: "3", Title: "Third", FilePath: "static/articles/3.html"},
		}, nil
	}

	a, p := newArticle(t, catalog, articleHTML, "/articles/abc.html")
	a.Load(context.Background())

	assert.Equal(t, []string{"abc.html"}, catalog.relatedIDs)
	assert.True(t, a.RelatedVisible())

	var hrefs, titles []string
	p.Do(func(*goquery.Document) {
		a.RelatedList().Find("li > a").Each(func(_ int, link *goquery.Selection) {
			href, _ := link.Attr("href")
			hrefs = append(hrefs, href)
			titles = append(titles, link.Text())
		})
	})
	assert.Equal(t, []string{"/articles/2", "/articles/3"}, hrefs)
	assert.Equal(t, []string{"Second", "Third"}, titles)
}

func TestRelatedSectionHiddenWhenEmptyOrFailed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		related func(string) ([]domain.ArticleSummary, error)
	}{
		{name: "empty", related: func(string) ([]domain.ArticleSummary, error) { return []domain.ArticleSummary{}, nil }},
		{name: "failed", related: func(string) ([]domain.ArticleSummary, error) { return nil, errors.New("boom") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			catalog := newFakeCatalog()
			catalog.related = tt.related

			a, p := newArticle(t, catalog, articleHTML, "/articles/abc.html")
			a.Load(context.Background())

			assert.False(t, a.RelatedVisible())
			assert.True(t, p.Hidden(p.Find(RelatedSectionSelector)))
			assert.Equal(t, "Loading...", p.Text(a.RelatedList()))
		})
	}
}

func TestRelatedSkippedOutsideDocumentView(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		markup string
		path   string
	}{
		{name: "not an article path", markup: articleHTML, path: "/about/abc.html"},
		{name: "trailing slash", markup: articleHTML, path: "/articles/"},
		{name: "no related section", markup: `<html><body><pre><code>x</code></pre></body></html>`, path: "/articles/abc.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			catalog := newFakeCatalog()
			a, _ := newArticle(t, catalog, tt.markup, tt.path)
			a.Load(context.Background())

			assert.Zero(t, catalog.Total())
		})
	}
}

func TestArticleControllerRequiresListWithSection(t *testing.T) {
	t.Parallel()

	p := parsePage(t, `<html><body><section class="related-articles"></section></body></html>`, "/articles/1")
	_, err := NewArticleController(ArticleDeps{Page: p, Catalog: newFakeCatalog()})
	require.ErrorIs(t, err, page.ErrElementNotFound)
}
