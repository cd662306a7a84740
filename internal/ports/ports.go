package ports

import (
	"context"
	"time"

	"ArticlesDesk/internal/domain"
)

// Catalog is the remote document catalog reached over its HTTP contract.
type Catalog interface {
	FetchRecommended(ctx context.Context) ([]domain.ArticleSummary, error)
	FetchRandom(ctx context.Context) ([]domain.ArticleSummary, error)
	FetchRelated(ctx context.Context, id string) ([]domain.ArticleSummary, error)
	Search(ctx context.Context, query domain.SearchQuery) ([]domain.ArticleSummary, error)
	Upload(ctx context.Context, req domain.UploadRequest) (domain.ArticleSummary, error)
}

// Clipboard writes text to the platform clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop cancels the callback; it reports false if it already fired or was stopped.
	Stop() bool
}

// Timers schedules delayed callbacks.
type Timers interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Scheduler controls recurring jobs.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
