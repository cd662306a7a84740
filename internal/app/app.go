package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"ArticlesDesk/internal/config"
	"ArticlesDesk/internal/controller"
	"ArticlesDesk/internal/copybutton"
	"ArticlesDesk/internal/infrastructure/catalog"
	"ArticlesDesk/internal/infrastructure/pagefetch"
	"ArticlesDesk/internal/infrastructure/scheduler"
	"ArticlesDesk/internal/infrastructure/systemclipboard"
	"ArticlesDesk/internal/logging"
	"ArticlesDesk/internal/page"
	"ArticlesDesk/internal/ports"
	"ArticlesDesk/internal/render"
)

// Options override the platform collaborators; zero values select the real ones.
type Options struct {
	HTTPClient *http.Client
	Clipboard  ports.Clipboard
	Timers     ports.Timers
}

// Application wires config to the catalog client, page loading and page controllers.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	catalog   *catalog.Client
	fetcher   *pagefetch.Fetcher
	registry  *controller.Registry
	clipboard ports.Clipboard
	timers    ports.Timers
}

// New builds an application instance.
func New(cfg config.Config, baseLogger *slog.Logger, opts Options) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, nil)
	}

	client, err := catalog.NewClient(cfg.Catalog, opts.HTTPClient, baseLogger.With("component", "catalog"))
	if err != nil {
		return nil, err
	}

	renderer := render.NewListRenderer(render.LinkBuilder{
		StoragePrefix: cfg.Links.StoragePrefix,
		ViewBase:      cfg.Links.ViewBase,
		ArticleBase:   cfg.Links.ArticleBase,
	})

	registry := controller.NewRegistry()
	registry.Register(controller.HomeVariant{
		Catalog:                client,
		Renderer:               renderer,
		Logger:                 baseLogger.With("component", "page.home"),
		AllowConcurrentUploads: cfg.Upload.AllowConcurrent,
	})
	registry.Register(controller.ArticleVariant{
		Catalog:  client,
		Renderer: renderer,
		Logger:   baseLogger.With("component", "page.article"),
	})

	clip := opts.Clipboard
	if clip == nil {
		clip = systemclipboard.Clipboard{}
	}
	var timers ports.Timers = scheduler.Timers{}
	if opts.Timers != nil {
		timers = opts.Timers
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Catalog.Timeout}
	}

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		catalog:   client,
		fetcher:   pagefetch.NewFetcher(client.BaseURL(), httpClient, cfg.Catalog.UserAgent),
		registry:  registry,
		clipboard: clip,
		timers:    timers,
	}, nil
}

// StaticVariant names sessions whose page has no controller of its own.
const StaticVariant = "static"

// Session is one loaded page with its mounted controllers.
type Session struct {
	Page       *page.Page
	Variant    string
	Controller controller.Loader
	Copy       *copybutton.Enhancer
	// MountErr holds the controller construction failure when the page matched
	// a variant but lacked elements it requires. The session then runs as static.
	MountErr error
}

type staticPage struct{}

func (staticPage) Load(context.Context) {}

// Home returns the listing controller when the session is a listing page.
func (s *Session) Home() (*controller.HomeController, bool) {
	h, ok := s.Controller.(*controller.HomeController)
	return h, ok
}

// Article returns the document-view controller when the session is a document view.
func (s *Session) Article() (*controller.ArticleController, bool) {
	a, ok := s.Controller.(*controller.ArticleController)
	return a, ok
}

// Open loads the page at path, attaches copy controls, mounts the matching
// controller and runs its load step. Pages without a usable controller still
// get copy controls and open as static sessions.
func (a *Application) Open(ctx context.Context, path string) (*Session, error) {
	p, err := a.fetcher.Fetch(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	enhancer := copybutton.New(copybutton.Deps{
		Page:      p,
		Clipboard: a.clipboard,
		Timers:    a.timers,
		Logger:    a.logger.With("component", "copybutton"),
		Options: copybutton.Options{
			RevertAfter:          a.cfg.Clipboard.RevertAfter,
			RestartRevertOnClick: a.cfg.Clipboard.RestartRevertOnClick,
		},
	})
	enhancer.Activate()

	session := &Session{
		Page:       p,
		Variant:    StaticVariant,
		Controller: staticPage{},
		Copy:       enhancer,
	}

	variant, err := a.registry.Resolve(p.Location())
	switch {
	case errors.Is(err, controller.ErrNoVariant):
		a.logger.Debug("page opened without controller", "path", p.Location().Path)
		return session, nil
	case err != nil:
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	loader, err := variant.Mount(p)
	if err != nil {
		a.logger.Error("mount page controller", "path", p.Location().Path, "variant", variant.Name(), "error", err)
		session.MountErr = fmt.Errorf("open %s: %w", path, err)
		return session, nil
	}

	a.logger.Debug("page opened", "path", p.Location().Path, "variant", variant.Name())
	loader.Load(ctx)

	session.Variant = variant.Name()
	session.Controller = loader
	return session, nil
}

// Refresh re-runs the load step of an open session.
func (a *Application) Refresh(ctx context.Context, s *Session) {
	s.Controller.Load(ctx)
}
