package page

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"ArticlesDesk/internal/domain"
)

// ErrElementNotFound is returned when a required element is missing from the page.
var ErrElementNotFound = errors.New("element not found")

// Listener handles a dispatched event.
type Listener func(ctx context.Context, ev *Event)

// Event is a dispatched DOM event.
type Event struct {
	Type   string
	Target *goquery.Selection

	defaultPrevented bool
}

// PreventDefault suppresses the host's default action (navigation on submit).
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// Page hosts one loaded document. All DOM reads and writes go through its lock,
// which plays the role of the browser's single UI thread.
type Page struct {
	mu        sync.Mutex
	doc       *goquery.Document
	location  *url.URL
	listeners map[*html.Node]map[string][]Listener
	values    map[*html.Node]string
	files     map[*html.Node][]domain.FormFile
}

// New wraps an already parsed document loaded from location.
func New(doc *goquery.Document, location *url.URL) *Page {
	if location == nil {
		location = &url.URL{Path: "/"}
	}
	return &Page{
		doc:       doc,
		location:  location,
		listeners: map[*html.Node]map[string][]Listener{},
		values:    map[*html.Node]string{},
		files:     map[*html.Node][]domain.FormFile{},
	}
}

// Parse reads HTML markup into a new page.
func Parse(r io.Reader, location *url.URL) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return New(doc, location), nil
}

// Location is the URL the page was loaded from.
func (p *Page) Location() *url.URL {
	return p.location
}

// ElementByID looks up a required element.
func (p *Page) ElementByID(id string) (*goquery.Selection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sel := p.doc.Find("#" + id).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("#%s: %w", id, ErrElementNotFound)
	}
	return sel, nil
}

// Find runs a selector against the whole document.
func (p *Page) Find(selector string) *goquery.Selection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Find(selector)
}

// Do runs fn while holding the page lock. fn must not call other Page methods.
func (p *Page) Do(fn func(doc *goquery.Document)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.doc)
}

// AddEventListener registers l for events of eventType on the first node of target.
func (p *Page) AddEventListener(target *goquery.Selection, eventType string, l Listener) {
	if target == nil || target.Length() == 0 || l == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	node := target.Nodes[0]
	byType, ok := p.listeners[node]
	if !ok {
		byType = map[string][]Listener{}
		p.listeners[node] = byType
	}
	byType[eventType] = append(byType[eventType], l)
}

// Dispatch synchronously runs the listeners registered on target for eventType.
func (p *Page) Dispatch(ctx context.Context, target *goquery.Selection, eventType string) *Event {
	ev := &Event{Type: eventType, Target: target}
	if target == nil || target.Length() == 0 {
		return ev
	}

	p.mu.Lock()
	listeners := append([]Listener(nil), p.listeners[target.Nodes[0]][eventType]...)
	p.mu.Unlock()

	for _, l := range listeners {
		l(ctx, ev)
	}
	return ev
}

// Click dispatches a click event.
func (p *Page) Click(ctx context.Context, target *goquery.Selection) *Event {
	return p.Dispatch(ctx, target, "click")
}

// Submit dispatches a submit event on a form.
func (p *Page) Submit(ctx context.Context, form *goquery.Selection) *Event {
	return p.Dispatch(ctx, form, "submit")
}

// Text returns the text content of sel.
func (p *Page) Text(sel *goquery.Selection) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return sel.Text()
}

// SetText replaces the children of sel with a text node.
func (p *Page) SetText(sel *goquery.Selection, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sel.SetText(text)
}

// Attr returns the attribute value of the first node of sel.
func (p *Page) Attr(sel *goquery.Selection, name string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return sel.Attr(name)
}

// SetValue sets the live value of a form control, as typing into it would.
func (p *Page) SetValue(input *goquery.Selection, value string) {
	if input.Length() == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[input.Nodes[0]] = value
}

// Value returns the live value of a form control.
func (p *Page) Value(input *goquery.Selection) string {
	if input.Length() == 0 {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.valueOf(input.Nodes[0], input.First())
}

// AttachFile picks a file into a file input.
func (p *Page) AttachFile(input *goquery.Selection, name string, content []byte) {
	if input.Length() == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	node := input.Nodes[0]
	field, _ := input.First().Attr("name")
	p.files[node] = append(p.files[node], domain.FormFile{
		Field:   field,
		Name:    name,
		Content: content,
	})
}

// FormData collects the successful controls of form.
func (p *Page) FormData(form *goquery.Selection) domain.UploadRequest {
	p.mu.Lock()
	defer p.mu.Unlock()

	req := domain.UploadRequest{Fields: map[string][]string{}}
	form.Find("input[name], textarea[name], select[name]").Each(func(_ int, ctrl *goquery.Selection) {
		if _, disabled := ctrl.Attr("disabled"); disabled {
			return
		}
		name, _ := ctrl.Attr("name")
		node := ctrl.Nodes[0]

		switch controlType(ctrl) {
		case "submit", "button", "reset", "image":
			return
		case "checkbox", "radio":
			if _, checked := ctrl.Attr("checked"); !checked {
				return
			}
			value, ok := ctrl.Attr("value")
			if !ok {
				value = "on"
			}
			req.Fields[name] = append(req.Fields[name], value)
		case "file":
			for _, f := range p.files[node] {
				f.Field = name
				req.Files = append(req.Files, f)
			}
		case "select":
			if _, multiple := ctrl.Attr("multiple"); multiple {
				if _, live := p.values[node]; !live {
					ctrl.Find("option[selected]").Each(func(_ int, opt *goquery.Selection) {
						req.Fields[name] = append(req.Fields[name], optionValue(opt))
					})
					return
				}
			}
			req.Fields[name] = append(req.Fields[name], p.valueOf(node, ctrl))
		default:
			req.Fields[name] = append(req.Fields[name], p.valueOf(node, ctrl))
		}
	})
	return req
}

// ResetForm restores every control of form to its markup default.
func (p *Page) ResetForm(form *goquery.Selection) {
	p.mu.Lock()
	defer p.mu.Unlock()

	form.Find("input, textarea, select").Each(func(_ int, ctrl *goquery.Selection) {
		delete(p.values, ctrl.Nodes[0])
		delete(p.files, ctrl.Nodes[0])
	})
}

// SetStyle sets one inline style property on sel.
func (p *Page) SetStyle(sel *goquery.Selection, property, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	setStyle(sel, property, value)
}

// Style returns one inline style property of sel.
func (p *Page) Style(sel *goquery.Selection, property string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	raw, _ := sel.Attr("style")
	for _, decl := range parseStyle(raw) {
		if decl.property == property {
			return decl.value
		}
	}
	return ""
}

// Hidden reports whether sel is hidden with display: none.
func (p *Page) Hidden(sel *goquery.Selection) bool {
	return p.Style(sel, "display") == "none"
}

// HTML serializes the current document.
func (p *Page) HTML() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Html()
}

func (p *Page) valueOf(node *html.Node, ctrl *goquery.Selection) string {
	if v, ok := p.values[node]; ok {
		return v
	}
	switch goquery.NodeName(ctrl) {
	case "textarea":
		return ctrl.Text()
	case "select":
		opt := ctrl.Find("option[selected]").Last()
		if opt.Length() == 0 {
			opt = ctrl.Find("option").First()
		}
		if opt.Length() == 0 {
			return ""
		}
		return optionValue(opt)
	}
	v, _ := ctrl.Attr("value")
	return v
}

// optionValue is the option's value attribute, or its collapsed text without one.
func optionValue(opt *goquery.Selection) string {
	if v, ok := opt.Attr("value"); ok {
		return v
	}
	return strings.Join(strings.Fields(opt.Text()), " ")
}

func controlType(ctrl *goquery.Selection) string {
	if goquery.NodeName(ctrl) != "input" {
		return goquery.NodeName(ctrl)
	}
	t, _ := ctrl.Attr("type")
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return "text"
	}
	return t
}
