package controller

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticlesDesk/internal/domain"
	"ArticlesDesk/internal/page"
	"ArticlesDesk/internal/render"
)

const homeHTML = `<html><body>
<form id="upload-form" action="/api/articles/" method="post">
  <input type="file" name="file">
  <input type="text" name="note" value="">
  <button type="submit">Upload</button>
</form>
<p id="upload-status"></p>
<form id="search-form">
  <input type="text" id="search-query" name="query">
  <button type="submit">Search</button>
</form>
<ul id="search-results"><li>previous result</li></ul>
<ul id="recommended-articles"><li>Loading...</li></ul>
<ul id="random-articles"><li>Loading...</li></ul>
</body></html>`

func newHome(t *testing.T, catalog *fakeCatalog, allowConcurrent bool) (*HomeController, *page.Page) {
	t.Helper()
	p := parsePage(t, homeHTML, "/")
	h, err := NewHomeController(HomeDeps{
		Page:                   p,
		Catalog:                catalog,
		Renderer:               render.NewListRenderer(render.DefaultLinks()),
		AllowConcurrentUploads: allowConcurrent,
	})
	require.NoError(t, err)
	return h, p
}

func listTexts(p *page.Page, sel *goquery.Selection) []string {
	var out []string
	p.Do(func(*goquery.Document) {
		sel.Children().Each(func(_ int, li *goquery.Selection) { out = append(out, li.Text()) })
	})
	return out
}

func TestNewHomeControllerFailsFastOnMissingElements(t *testing.T) {
	t.Parallel()

	p := parsePage(t, `<html><body><form id="upload-form"></form><ul id="random-articles"></ul></body></html>`, "/")
	_, err := NewHomeController(HomeDeps{Page: p, Catalog: newFakeCatalog()})
	require.ErrorIs(t, err, page.ErrElementNotFound)
	assert.Contains(t, err.Error(), "#search-form")
	assert.Contains(t, err.Error(), "#recommended-articles")
	assert.NotContains(t, err.Error(), "#random-articles")
}

func TestLoadRendersBothLists(t *testing.T) {
	t.Parallel()

	catalog := newFakeCatalog()
	catalog.recommended = func() ([]domain.ArticleSummary, error) {
		return []domain.ArticleSummary{{ID: "1", Title: "Rec", FilePath: "static/articles/1.html"}}, nil
	}
	catalog.random = func() ([]domain.ArticleSummary, error) { return []domain.ArticleSummary{}, nil }

	h, p := newHome(t, catalog, false)
	h.Load(context.Background())

	assert.Equal(t, []string{"Rec"}, listTexts(p, h.recommended))
	href, _ := p.Attr(h.recommended.Find("a"), "href")
	assert.Equal(t, "/articles/1.html", href)
	assert.Equal(t, []string{render.MsgNoArticles}, listTexts(p, h.random))
}

func TestLoadFailureIsolatedPerList(t *testing.T) {
	t.Parallel()

	catalog := newFakeCatalog()
	catalog.recommended = func() ([]domain.ArticleSummary, error) {
		return nil, &domain.NetworkError{Op: "fetch recommended", StatusCode: 500}
	}
	catalog.random = func() ([]domain.ArticleSummary, error) {
		return []domain.ArticleSummary{{ID: "2", Title: "Lucky", FilePath: "static/articles/2.html"}}, nil
	}

	h, p := newHome(t, catalog, false)
	h.Load(context.Background())

	assert.Equal(t, []string{render.MsgLoadError}, listTexts(p, h.recommended))
	assert.Equal(t, []string{"Lucky"}, listTexts(p, h.random))
}

func TestSearchBlankQueryDoesNothing(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "\t\n "} {
		catalog := newFakeCatalog()
		h, p := newHome(t, catalog, false)
		before := outerHTML(t, p, h.searchResults)

		p.SetValue(h.searchQuery, raw)
		ev := p.Submit(context.Background(), h.searchForm)

		assert.True(t, ev.DefaultPrevented())
		assert.Zero(t, catalog.Total())
		assert.Equal(t, before, outerHTML(t, p, h.searchResults))
	}
}

func TestSearchRendersResults(t *testing.T) {
	t.Parallel()

	catalog := newFakeCatalog()
	catalog.search = func(q domain.SearchQuery) ([]domain.ArticleSummary, error) {
		return []domain.ArticleSummary{{ID: "1", Title: "Intro to Rust", FilePath: "static/a.md"}}, nil
	}

	h, p := newHome(t, catalog, false)
	p.SetValue(h.searchQuery, "  rust ")
	p.Submit(context.Background(), h.searchForm)

	require.Equal(t, []domain.SearchQuery{"rust"}, catalog.queries)
	assert.Equal(t, []string{"Intro to Rust"}, listTexts(p, h.searchResults))
	href, _ := p.Attr(h.searchResults.Find("li > a"), "href")
	assert.Equal(t, "/a.md", href)
}

func TestSearchFailureRendersSearchError(t *testing.T) {
	t.Parallel()

	catalog := newFakeCatalog()
	catalog.search = func(domain.SearchQuery) ([]domain.ArticleSummary, error) {
		return nil, errors.New("connection refused")
	}

	h, p := newHome(t, catalog, false)
	p.SetValue(h.searchQuery, "go")
	p.Submit(context.Background(), h.searchForm)

	assert.Equal(t, []string{render.MsgSearchError}, listTexts(p, h.searchResults))
}

func TestUploadFailureShowsDetailAndKeepsForm(t *testing.T) {
	t.Parallel()

	catalog := newFakeCatalog()
	catalog.upload = func(domain.UploadRequest) (domain.ArticleSummary, error) {
		return domain.ArticleSummary{}, &domain.ApplicationError{Op: "upload", StatusCode: 400, Detail: "file too large"}
	}

	h, p := newHome(t, catalog, false)
	note := h.uploadForm.Find(`input[name="note"]`)
	p.SetValue(note, "keep me")

	ev := p.Submit(context.Background(), h.uploadForm)

	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, "Error: file too large", p.Text(h.uploadStatus))
	assert.Equal(t, "red", p.Style(h.uploadStatus, "color"))
	assert.Equal(t, "keep me", p.Value(note))
	assert.Zero(t, catalog.Calls("recommended"))
	assert.Zero(t, catalog.Calls("random"))
}

func TestUploadFailureWithoutDetailUsesGenericMessage(t *testing.T) {
	t.Parallel()

	catalog := newFakeCatalog()
	catalog.upload = func(domain.UploadRequest) (domain.ArticleSummary, error) {
		return domain.ArticleSummary{}, &domain.NetworkError{Op: "upload", StatusCode: 502}
	}

	h, p := newHome(t, catalog, false)
	p.Submit(context.Background(), h.uploadForm)

	assert.Equal(t, "Error: Upload failed", p.Text(h.uploadStatus))
}

func TestUploadSuccessResetsFormAndRefreshesLists(t *testing.T) {
	t.Parallel()

	catalog := newFakeCatalog()
	catalog.upload = func(domain.UploadRequest) (domain.ArticleSummary, error) {
		return domain.ArticleSummary{ID: "9", Title: "New", FilePath: "static/articles/9.html"}, nil
	}
	catalog.random = func() ([]domain.ArticleSummary, error) {
		return []domain.ArticleSummary{{ID: "9", Title: "New", FilePath: "static/articles/9.html"}}, nil
	}

	h, p := newHome(t, catalog, false)
	note := h.uploadForm.Find(`input[name="note"]`)
	fileInput := h.uploadForm.Find(`input[type="file"]`)
	p.SetValue(note, "hello")
	p.AttachFile(fileInput, "doc.html", []byte("<title>New</title>"))

	p.Submit(context.Background(), h.uploadForm)

	require.Len(t, catalog.uploadRequests, 1)
	sent := catalog.uploadRequests[0]
	assert.Equal(t, []string{"hello"}, sent.Fields["note"])
	require.Len(t, sent.Files, 1)
	assert.Equal(t, "file", sent.Files[0].Field)
	assert.Equal(t, "doc.html", sent.Files[0].Name)

	assert.Equal(t, StatusUploaded, p.Text(h.uploadStatus))
	assert.Equal(t, "green", p.Style(h.uploadStatus, "color"))
	assert.Equal(t, "", p.Value(note))
	assert.Empty(t, p.FormData(h.uploadForm).Files)

	assert.Equal(t, 1, catalog.Calls("recommended"))
	assert.Equal(t, 1, catalog.Calls("random"))
	assert.Equal(t, []string{"New"}, listTexts(p, h.random))
}

func TestUploadShowsProgressWhileInFlight(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	catalog := newFakeCatalog()
	catalog.upload = func(domain.UploadRequest) (domain.ArticleSummary, error) {
		close(started)
		<-release
		return domain.ArticleSummary{}, nil
	}

	h, p := newHome(t, catalog, false)
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Submit(context.Background(), h.uploadForm)
	}()

	<-started
	assert.Equal(t, StatusUploading, p.Text(h.uploadStatus))
	close(release)
	<-done
	assert.Equal(t, StatusUploaded, p.Text(h.uploadStatus))
}

func TestConcurrentUploadGuard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		allowConcurrent bool
		wantUploads     int
		wantDisabled    bool
	}{
		{name: "guarded by default", allowConcurrent: false, wantUploads: 1, wantDisabled: true},
		{name: "concurrent allowed", allowConcurrent: true, wantUploads: 2, wantDisabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			started := make(chan struct{}, 2)
			release := make(chan struct{})
			catalog := newFakeCatalog()
			catalog.upload = func(domain.UploadRequest) (domain.ArticleSummary, error) {
				started <- struct{}{}
				<-release
				return domain.ArticleSummary{}, nil
			}

			h, p := newHome(t, catalog, tt.allowConcurrent)
			submitBtn := h.uploadForm.Find(`button[type="submit"]`)

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				p.Submit(context.Background(), h.uploadForm)
			}()
			<-started

			_, disabled := p.Attr(submitBtn, "disabled")
			assert.Equal(t, tt.wantDisabled, disabled)

			if tt.allowConcurrent {
				wg.Add(1)
				go func() {
					defer wg.Done()
					p.Submit(context.Background(), h.uploadForm)
				}()
				<-started
			} else {
				ev := p.Submit(context.Background(), h.uploadForm)
				assert.True(t, ev.DefaultPrevented())
			}

			close(release)
			wg.Wait()

			assert.Equal(t, tt.wantUploads, catalog.Calls("upload"))
			_, disabled = p.Attr(submitBtn, "disabled")
			assert.False(t, disabled)
		})
	}
}
