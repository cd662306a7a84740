package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"ArticlesDesk/internal/page"
	"ArticlesDesk/internal/ports"
	"ArticlesDesk/internal/render"
)

// ErrNoVariant is returned by Resolve when no registered variant matches a location.
var ErrNoVariant = errors.New("no page variant")

// Loader is a controller mounted on a page.
type Loader interface {
	Load(ctx context.Context)
}

// Variant is one page kind with its controller.
type Variant interface {
	Name() string
	Matches(location *url.URL) bool
	Mount(p *page.Page) (Loader, error)
}

// Registry keeps page variants in registration order.
type Registry struct {
	variants []Variant
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds or replaces a variant by name.
func (r *Registry) Register(v Variant) {
	for i, existing := range r.variants {
		if existing.Name() == v.Name() {
			r.variants[i] = v
			return
		}
	}
	r.variants = append(r.variants, v)
}

// Resolve returns the first variant matching location.
func (r *Registry) Resolve(location *url.URL) (Variant, error) {
	for _, v := range r.variants {
		if v.Matches(location) {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w for %s", ErrNoVariant, location.Path)
}

// HomeVariant mounts HomeController on the landing page.
type HomeVariant struct {
	Catalog                ports.Catalog
	Renderer               *render.ListRenderer
	Logger                 *slog.Logger
	AllowConcurrentUploads bool
}

// Name reports "home".
func (HomeVariant) Name() string { return "home" }

// Matches accepts the site root and the index document.
func (HomeVariant) Matches(location *url.URL) bool {
	switch location.Path {
	case "", "/", "/index.html", "/static/index.html":
		return true
	}
	return false
}

// Mount builds a HomeController over p.
func (v HomeVariant) Mount(p *page.Page) (Loader, error) {
	h, err := NewHomeController(HomeDeps{
		Page:                   p,
		Catalog:                v.Catalog,
		Renderer:               v.Renderer,
		Logger:                 v.Logger,
		AllowConcurrentUploads: v.AllowConcurrentUploads,
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// ArticleVariant mounts ArticleController on document-view pages.
type ArticleVariant struct {
	Catalog  ports.Catalog
	Renderer *render.ListRenderer
	Logger   *slog.Logger
}

// Name reports "article".
func (ArticleVariant) Name() string { return "article" }

// Matches accepts any path under /articles/.
func (ArticleVariant) Matches(location *url.URL) bool {
	return strings.Contains(location.Path, articlePathMarker)
}

// Mount builds an ArticleController over p.
func (v ArticleVariant) Mount(p *page.Page) (Loader, error) {
	a, err := NewArticleController(ArticleDeps{
		Page:     p,
		Catalog:  v.Catalog,
		Renderer: v.Renderer,
		Logger:   v.Logger,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}
