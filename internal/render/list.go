package render

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"ArticlesDesk/internal/domain"
)

// Placeholder texts shown in article lists.
const (
	MsgNoArticles  = "No articles found."
	MsgLoadError   = "Error loading articles."
	MsgSearchError = "Error performing search."
)

// ListRenderer renders article collections into list elements.
// Callers hold the page lock while rendering.
type ListRenderer struct {
	links LinkBuilder
}

// NewListRenderer builds a renderer; a zero LinkBuilder falls back to DefaultLinks.
func NewListRenderer(links LinkBuilder) *ListRenderer {
	if links == (LinkBuilder{}) {
		links = DefaultLinks()
	}
	return &ListRenderer{links: links}
}

// Links exposes the URL derivation in use.
func (r *ListRenderer) Links() LinkBuilder {
	return r.links
}

// Render replaces the children of target with one linked item per article,
// or a single placeholder item when there are none.
func (r *ListRenderer) Render(target *goquery.Selection, articles []domain.ArticleSummary) {
	target.Empty()
	if len(articles) == 0 {
		target.AppendNodes(textItem(MsgNoArticles))
		return
	}

	for _, article := range articles {
		target.AppendNodes(linkItem(r.links.ViewURL(article), article.Title, true))
	}
}

// RenderRelated replaces the children of target with links to each article's view page.
func (r *ListRenderer) RenderRelated(target *goquery.Selection, articles []domain.ArticleSummary) {
	target.Empty()
	for _, article := range articles {
		target.AppendNodes(linkItem(r.links.ArticleURL(article), article.Title, false))
	}
}

// RenderError replaces the children of target with a single error item.
func (r *ListRenderer) RenderError(target *goquery.Selection, message string) {
	target.Empty()
	target.AppendNodes(textItem(message))
}

func textItem(text string) *html.Node {
	li := element(atom.Li)
	li.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return li
}

func linkItem(href, title string, newContext bool) *html.Node {
	a := element(atom.A, html.Attribute{Key: "href", Val: href})
	if newContext {
		a.Attr = append(a.Attr, html.Attribute{Key: "target", Val: "_blank"})
	}
	a.AppendChild(&html.Node{Type: html.TextNode, Data: title})

	li := element(atom.Li)
	li.AppendChild(a)
	return li
}

func element(tag atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: tag,
		Data:     tag.String(),
		Attr:     attrs,
	}
}
