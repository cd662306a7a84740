package render

import (
	"strings"

	"ArticlesDesk/internal/domain"
)

const (
	DefaultStoragePrefix = "static/"
	DefaultViewBase      = "/"
	DefaultArticleBase   = "/articles/"
)

// LinkBuilder derives page URLs from catalog records. The storage prefix mirrors the
// backend's on-disk layout and is configured rather than assumed.
type LinkBuilder struct {
	StoragePrefix string
	ViewBase      string
	ArticleBase   string
}

// DefaultLinks matches the reference backend layout.
func DefaultLinks() LinkBuilder {
	return LinkBuilder{
		StoragePrefix: DefaultStoragePrefix,
		ViewBase:      DefaultViewBase,
		ArticleBase:   DefaultArticleBase,
	}
}

// ViewURL is the URL of the stored document, with the storage prefix removed.
func (b LinkBuilder) ViewURL(article domain.ArticleSummary) string {
	rel := strings.TrimPrefix(article.FilePath, b.StoragePrefix)
	return joinURL(b.ViewBase, rel)
}

// ArticleURL is the document-view page URL for an article id.
func (b LinkBuilder) ArticleURL(article domain.ArticleSummary) string {
	return joinURL(b.ArticleBase, article.ID)
}

func joinURL(base, rel string) string {
	if base == "" {
		base = "/"
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(rel, "/")
}
