// Package copybutton attaches copy-to-clipboard controls to preformatted code blocks.
package copybutton

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"ArticlesDesk/internal/page"
	"ArticlesDesk/internal/ports"
)

// Control labels and markup.
const (
	LabelCopy   = "Copy"
	LabelCopied = "Copied!"
	LabelError  = "Error"
	ButtonClass = "copy-button"

	DefaultRevertAfter = 2 * time.Second
)

// Options tune the label revert.
type Options struct {
	RevertAfter time.Duration
	// RestartRevertOnClick cancels a pending revert when the control is clicked again.
	RestartRevertOnClick bool
}

// Deps wires the enhancer's collaborators.
type Deps struct {
	Page      *page.Page
	Clipboard ports.Clipboard
	Timers    ports.Timers
	Logger    *slog.Logger
	Options   Options
}

// Enhancer owns the copy controls of one page.
type Enhancer struct {
	page      *page.Page
	clipboard ports.Clipboard
	timers    ports.Timers
	logger    *slog.Logger
	opts      Options

	mu      sync.Mutex
	pending map[*html.Node]ports.Timer
}

// New builds an enhancer.
func New(deps Deps) *Enhancer {
	opts := deps.Options
	if opts.RevertAfter <= 0 {
		opts.RevertAfter = DefaultRevertAfter
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Enhancer{
		page:      deps.Page,
		clipboard: deps.Clipboard,
		timers:    deps.Timers,
		logger:    logger,
		opts:      opts,
		pending:   map[*html.Node]ports.Timer{},
	}
}

type control struct {
	block  *goquery.Selection
	button *goquery.Selection
}

// Activate appends a Copy button to every pre block that lacks one and
// returns the number of controls added. Repeated calls add nothing.
func (e *Enhancer) Activate() int {
	var added []control

	e.page.Do(func(doc *goquery.Document) {
		doc.Find("pre").Each(func(_ int, block *goquery.Selection) {
			if block.ChildrenFiltered("button."+ButtonClass).Length() > 0 {
				return
			}
			block.AppendNodes(newButton())
			added = append(added, control{
				block:  block,
				button: block.ChildrenFiltered("button." + ButtonClass).First(),
			})
		})
	})

	for _, c := range added {
		e.page.AddEventListener(c.button, "click", func(ctx context.Context, _ *page.Event) {
			e.copy(ctx, c)
		})
	}

	e.logger.Debug("copy controls attached", "count", len(added))
	return len(added)
}

func (e *Enhancer) copy(ctx context.Context, c control) {
	var (
		text  string
		found bool
	)
	e.page.Do(func(*goquery.Document) {
		code := c.block.Find("code").First()
		if code.Length() == 0 {
			return
		}
		found = true
		text = code.Text()
	})
	if !found {
		return
	}

	if err := e.clipboard.WriteText(ctx, text); err != nil {
		e.logger.Error("failed to copy text", "error", err)
		e.page.SetText(c.button, LabelError)
		return
	}

	e.page.SetText(c.button, LabelCopied)
	e.scheduleRevert(c.button)
}

func (e *Enhancer) scheduleRevert(button *goquery.Selection) {
	node := button.Nodes[0]

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.opts.RestartRevertOnClick {
		if prev, ok := e.pending[node]; ok {
			prev.Stop()
		}
	}

	var timer ports.Timer
	timer = e.timers.AfterFunc(e.opts.RevertAfter, func() {
		e.page.SetText(button, LabelCopy)

		e.mu.Lock()
		if e.pending[node] == timer {
			delete(e.pending, node)
		}
		e.mu.Unlock()
	})
	e.pending[node] = timer
}

func newButton() *html.Node {
	btn := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Button,
		Data:     atom.Button.String(),
		Attr:     []html.Attribute{{Key: "class", Val: ButtonClass}},
	}
	btn.AppendChild(&html.Node{Type: html.TextNode, Data: LabelCopy})
	return btn
}
