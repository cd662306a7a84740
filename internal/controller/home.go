package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"ArticlesDesk/internal/domain"
	"ArticlesDesk/internal/page"
	"ArticlesDesk/internal/ports"
	"ArticlesDesk/internal/render"
)

// Element ids the listing page template provides.
const (
	IDUploadForm    = "upload-form"
	IDUploadStatus  = "upload-status"
	IDSearchForm    = "search-form"
	IDSearchQuery   = "search-query"
	IDSearchResults = "search-results"
	IDRecommended   = "recommended-articles"
	IDRandom        = "random-articles"
)

// Upload status texts.
const (
	StatusUploading     = "Uploading..."
	StatusUploaded      = "Upload successful!"
	UploadFailedMessage = "Upload failed"

	colorSuccess = "green"
	colorFailure = "red"
)

// HomeDeps wires the listing page controller.
type HomeDeps struct {
	Page     *page.Page
	Catalog  ports.Catalog
	Renderer *render.ListRenderer
	Logger   *slog.Logger
	// AllowConcurrentUploads disables the in-flight guard on the upload form.
	AllowConcurrentUploads bool
}

// HomeController drives the listing page: recommended and random lists, upload, search.
type HomeController struct {
	page     *page.Page
	catalog  ports.Catalog
	renderer *render.ListRenderer
	logger   *slog.Logger

	uploadForm    *goquery.Selection
	uploadStatus  *goquery.Selection
	searchForm    *goquery.Selection
	searchQuery   *goquery.Selection
	searchResults *goquery.Selection
	recommended   *goquery.Selection
	random        *goquery.Selection

	guardUploads bool
	mu           sync.Mutex
	uploading    bool
}

// NewHomeController resolves every required element up front and registers the
// form listeners. A missing element fails construction.
func NewHomeController(deps HomeDeps) (*HomeController, error) {
	if deps.Page == nil || deps.Catalog == nil {
		return nil, errors.New("home controller: page and catalog are required")
	}

	h := &HomeController{
		page:         deps.Page,
		catalog:      deps.Catalog,
		renderer:     deps.Renderer,
		logger:       deps.Logger,
		guardUploads: !deps.AllowConcurrentUploads,
	}
	if h.renderer == nil {
		h.renderer = render.NewListRenderer(render.DefaultLinks())
	}
	if h.logger == nil {
		h.logger = slog.New(slog.DiscardHandler)
	}

	var errs []error
	lookup := func(id string) *goquery.Selection {
		sel, err := deps.Page.ElementByID(id)
		if err != nil {
			errs = append(errs, err)
		}
		return sel
	}
	h.uploadForm = lookup(IDUploadForm)
	h.uploadStatus = lookup(IDUploadStatus)
	h.searchForm = lookup(IDSearchForm)
	h.searchQuery = lookup(IDSearchQuery)
	h.searchResults = lookup(IDSearchResults)
	h.recommended = lookup(IDRecommended)
	h.random = lookup(IDRandom)
	if len(errs) > 0 {
		return nil, fmt.Errorf("home controller: %w", errors.Join(errs...))
	}

	h.page.AddEventListener(h.uploadForm, "submit", h.handleUpload)
	h.page.AddEventListener(h.searchForm, "submit", h.handleSearch)
	return h, nil
}

// Load fills the recommended and random lists.
func (h *HomeController) Load(ctx context.Context) {
	h.refreshLists(ctx)
}

// refreshLists fetches both lists concurrently. Each fetch renders only into its own
// list and swallows its own failure, so one never affects the other.
func (h *HomeController) refreshLists(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		h.loadList(ctx, "recommended", h.recommended, h.catalog.FetchRecommended)
		return nil
	})
	g.Go(func() error {
		h.loadList(ctx, "random", h.random, h.catalog.FetchRandom)
		return nil
	})
	_ = g.Wait()
}

func (h *HomeController) loadList(
	ctx context.Context,
	name string,
	target *goquery.Selection,
	fetch func(context.Context) ([]domain.ArticleSummary, error),
) {
	articles, err := fetch(ctx)
	if err != nil {
		h.logger.Error("failed to fetch articles", "list", name, "error", err)
		h.page.Do(func(*goquery.Document) { h.renderer.RenderError(target, render.MsgLoadError) })
		return
	}

	h.logger.Debug("articles fetched", "list", name, "count", len(articles))
	h.page.Do(func(*goquery.Document) { h.renderer.Render(target, articles) })
}

func (h *HomeController) handleUpload(ctx context.Context, ev *page.Event) {
	ev.PreventDefault()

	if !h.beginUpload() {
		h.logger.Debug("upload already in flight, submission ignored")
		return
	}
	defer h.endUpload()

	h.page.SetText(h.uploadStatus, StatusUploading)
	req := h.page.FormData(h.uploadForm)

	created, err := h.catalog.Upload(ctx, req)
	if err != nil {
		h.logger.Error("upload failed", "error", err)
		h.page.SetText(h.uploadStatus, "Error: "+uploadFailureMessage(err))
		h.page.SetStyle(h.uploadStatus, "color", colorFailure)
		return
	}

	h.logger.Info("upload succeeded", "id", created.ID, "title", created.Title)
	h.page.SetText(h.uploadStatus, StatusUploaded)
	h.page.SetStyle(h.uploadStatus, "color", colorSuccess)
	h.page.ResetForm(h.uploadForm)
	h.refreshLists(ctx)
}

// beginUpload claims the upload slot and disables the form's submit controls.
// It reports false when the guard is on and an upload is already running.
func (h *HomeController) beginUpload() bool {
	if !h.guardUploads {
		return true
	}

	h.mu.Lock()
	if h.uploading {
		h.mu.Unlock()
		return false
	}
	h.uploading = true
	h.mu.Unlock()

	h.page.Do(func(*goquery.Document) {
		submitControls(h.uploadForm).SetAttr("disabled", "disabled")
	})
	return true
}

func (h *HomeController) endUpload() {
	if !h.guardUploads {
		return
	}

	h.page.Do(func(*goquery.Document) {
		submitControls(h.uploadForm).RemoveAttr("disabled")
	})

	h.mu.Lock()
	h.uploading = false
	h.mu.Unlock()
}

func (h *HomeController) handleSearch(ctx context.Context, ev *page.Event) {
	ev.PreventDefault()

	query, err := domain.NewSearchQuery(h.page.Value(h.searchQuery))
	if err != nil {
		return
	}

	articles, err := h.catalog.Search(ctx, query)
	if err != nil {
		h.logger.Error("failed to perform search", "query", query.String(), "error", err)
		h.page.Do(func(*goquery.Document) { h.renderer.RenderError(h.searchResults, render.MsgSearchError) })
		return
	}

	h.logger.Debug("search finished", "query", query.String(), "count", len(articles))
	h.page.Do(func(*goquery.Document) { h.renderer.Render(h.searchResults, articles) })
}

func uploadFailureMessage(err error) string {
	var appErr *domain.ApplicationError
	if errors.As(err, &appErr) && appErr.Detail != "" {
		return appErr.Detail
	}
	return UploadFailedMessage
}

func submitControls(form *goquery.Selection) *goquery.Selection {
	return form.Find(`button:not([type]), button[type="submit"], input[type="submit"]`)
}
