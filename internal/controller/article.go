package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ArticlesDesk/internal/page"
	"ArticlesDesk/internal/ports"
	"ArticlesDesk/internal/render"
)

// Selectors the document-view template provides.
const (
	RelatedSectionSelector = ".related-articles"
	IDRelatedList          = "related-articles-list"

	articlePathMarker = "/articles/"
)

// ArticleDeps wires the document-view controller.
type ArticleDeps struct {
	Page     *page.Page
	Catalog  ports.Catalog
	Renderer *render.ListRenderer
	Logger   *slog.Logger
}

// ArticleController shows related documents for the document being viewed.
type ArticleController struct {
	page     *page.Page
	catalog  ports.Catalog
	renderer *render.ListRenderer
	logger   *slog.Logger

	section *goquery.Selection
	list    *goquery.Selection
}

// NewArticleController resolves the related section. The section itself is optional;
// when present, its inner list must exist.
func NewArticleController(deps ArticleDeps) (*ArticleController, error) {
	if deps.Page == nil || deps.Catalog == nil {
		return nil, errors.New("article controller: page and catalog are required")
	}

	a := &ArticleController{
		page:     deps.Page,
		catalog:  deps.Catalog,
		renderer: deps.Renderer,
		logger:   deps.Logger,
	}
	if a.renderer == nil {
		a.renderer = render.NewListRenderer(render.DefaultLinks())
	}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}

	section := deps.Page.Find(RelatedSectionSelector).First()
	if section.Length() == 0 {
		return a, nil
	}

	list, err := deps.Page.ElementByID(IDRelatedList)
	if err != nil {
		return nil, fmt.Errorf("article controller: %w", err)
	}
	a.section, a.list = section, list
	return a, nil
}

// ArticleID extracts the document id from the page location, or "" when the page
// is not a document view.
func (a *ArticleController) ArticleID() string {
	path := a.page.Location().Path
	if !strings.Contains(path, articlePathMarker) {
		return ""
	}
	return path[strings.LastIndex(path, "/")+1:]
}

// Load fetches related documents and either lists them or hides the section.
func (a *ArticleController) Load(ctx context.Context) {
	if a.section == nil {
		return
	}
	id := a.ArticleID()
	if id == "" {
		return
	}

	articles, err := a.catalog.FetchRelated(ctx, id)
	if err != nil {
		a.logger.Error("failed to fetch related articles", "id", id, "error", err)
		a.hideSection()
		return
	}
	if len(articles) == 0 {
		a.logger.Debug("no related articles", "id", id)
		a.hideSection()
		return
	}

	a.page.Do(func(*goquery.Document) { a.renderer.RenderRelated(a.list, articles) })
}

// RelatedVisible reports whether the related section is present and shown.
func (a *ArticleController) RelatedVisible() bool {
	return a.section != nil && !a.page.Hidden(a.section)
}

// RelatedList is the inner list of the related section, or nil when absent.
func (a *ArticleController) RelatedList() *goquery.Selection {
	return a.list
}

func (a *ArticleController) hideSection() {
	a.page.SetStyle(a.section, "display", "none")
}
