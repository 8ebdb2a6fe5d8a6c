// Package templates maps a résumé record onto one of the fixed layouts and
// provides the per-page chrome and stylesheet shared by measurement and
// export.
package templates

import (
	"fmt"

	"cvBuilder/internal/markup"
	"cvBuilder/internal/resume"
)

// ErrUnknownTemplate is returned for a variant that is not one of
// resume.Templates.
var ErrUnknownTemplate = resume.ErrUnknownTemplate

// Document is a rendered, unpaginated résumé.
type Document struct {
	Template resume.Template
	// Root is the complete tree as a single continuous page.
	Root *markup.Node
	// Content is the flow area inside Root that pagination splits.
	Content *markup.Node
}

type layout interface {
	// document renders the whole record as one continuous page.
	document(rec resume.Record) (root, content *markup.Node)
	// page wraps paginated content in the layout's page chrome.
	page(rec resume.Record, content []*markup.Node, pageNum int, first bool) *markup.Node
}

var layouts = map[resume.Template]layout{
	resume.TemplateModern:   modernLayout{},
	resume.TemplateClassic:  classicLayout{},
	resume.TemplateCreative: creativeLayout{},
}

func lookup(variant resume.Template) (layout, error) {
	l, ok := layouts[variant]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, variant)
	}
	return l, nil
}

// Render is pure and deterministic: the same record and variant always give
// the same tree.
func Render(variant resume.Template, rec resume.Record) (*Document, error) {
	l, err := lookup(variant)
	if err != nil {
		return nil, err
	}
	root, content := l.document(rec)
	return &Document{Template: variant, Root: root, Content: content}, nil
}

// PageOptions control how WrapPage decorates a page.
type PageOptions struct {
	Number int
	First  bool
	// Measurement drops the fixed A4 height so the surface can report the
	// natural height of the content. Width is the surface width in px.
	Measurement bool
	Width       float64
}

// WrapPage wraps page content in the variant's chrome: the full header on the
// first page, a name+page mini header on later pages and a page-number footer
// on every page. Measurement and final render use this same function.
func WrapPage(variant resume.Template, rec resume.Record, content []*markup.Node, opts PageOptions) (*markup.Node, error) {
	l, err := lookup(variant)
	if err != nil {
		return nil, err
	}
	paper := markup.El("div").Class("cv-paper " + string(variant) + "-template")
	if opts.Measurement {
		paper.Style(fmt.Sprintf("width: %.2fpx; height: auto; min-height: 0; overflow: visible", opts.Width))
	}
	body := l.page(rec, content, opts.Number, opts.First)
	if !opts.Measurement {
		body.Style("height: 100%")
	}
	return paper.Append(body), nil
}

func miniHeader(rec resume.Record, pageNum int) *markup.Node {
	return markup.El("div",
		markup.El("strong", markup.Text(displayName(rec))),
		markup.El("span", markup.Text(pageLabel(pageNum))),
	).Class("cv-mini-header").As(markup.RoleChrome)
}

func pageFooter(pageNum int) *markup.Node {
	return markup.El("div", markup.Text(pageLabel(pageNum))).
		Class("cv-page-number").
		As(markup.RoleChrome)
}

func pageLabel(n int) string {
	return fmt.Sprintf("%s %d", PageLabel, n)
}

func cloneAll(nodes []*markup.Node) []*markup.Node {
	out := make([]*markup.Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Clone())
	}
	return out
}
