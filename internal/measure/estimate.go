package measure

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"cvBuilder/internal/paginate"
	"cvBuilder/internal/templates"
)

const mm = 3.7795

var baseFontPattern = regexp.MustCompile(`--font-size-base:\s*([0-9.]+)px`)

// Estimator is a deterministic synthetic layout over the parsed markup. It
// is used when no browser is available; its heights approximate what
// Chromium reports for the shared stylesheet.
type Estimator struct {
	// CharWidth is the average glyph advance as a fraction of the font size.
	CharWidth float64
	// LineHeight is the line box height as a multiple of the font size.
	LineHeight float64
}

// NewEstimator returns an Estimator tuned for Arabic text in Cairo.
func NewEstimator() *Estimator {
	return &Estimator{CharWidth: 0.5, LineHeight: 1.5}
}

// Ready always reports true: the estimator needs no surface.
func (e *Estimator) Ready() bool { return true }

// Measure implements paginate.Measurer.
func (e *Estimator) Measure(ctx context.Context, f paginate.Fragment) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	ctxNode := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(f.Markup), ctxNode)
	if err != nil {
		return 0, fmt.Errorf("parse fragment: %w", err)
	}
	width := f.Width
	if width <= 0 {
		width = templates.PageWidthPx
	}
	font := baseFontPx(f.Head)

	var total float64
	for _, n := range nodes {
		total += e.block(n, width, font)
	}
	return math.Ceil(total), nil
}

func baseFontPx(head string) float64 {
	m := baseFontPattern.FindStringSubmatch(head)
	if m == nil {
		return 16
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v <= 0 {
		return 16
	}
	return v
}

type boxStyle struct {
	scale        float64
	marginTop    float64
	marginBottom float64
	padTop       float64
	padBottom    float64
	padX         float64
	widthFrac    float64
	fixed        float64
	row          bool
	skip         bool
}

var inlineTags = map[atom.Atom]bool{
	atom.Span: true, atom.Strong: true, atom.B: true, atom.A: true,
	atom.I: true, atom.Em: true, atom.Small: true, atom.Br: true,
}

func styleOf(n *html.Node) boxStyle {
	st := boxStyle{scale: 1, widthFrac: 1}
	switch n.DataAtom {
	case atom.H1:
		st.scale, st.marginBottom = 2.5, 6
	case atom.H2:
		st.scale, st.marginBottom = 1.5, 6
	case atom.H3:
		st.scale, st.marginBottom = 1.17, 6
	case atom.P:
		st.marginBottom = 6
	case atom.Img, atom.Script, atom.Style, atom.Svg:
		st.skip = true
	}

	classes := strings.Fields(attr(n, "class"))
	has := func(name string) bool {
		for _, c := range classes {
			if c == name {
				return true
			}
		}
		return false
	}
	switch {
	case has("cv-paper"):
		if !has("modern-template") {
			st.padTop, st.padBottom, st.padX = 20*mm, 20*mm, 20*mm
		}
	case has("modern-layout"), has("cv-item-head"), has("cv-bar-label"), has("cv-mini-header"), has("creative-header"):
		st.row = true
	case has("modern-sidebar"):
		st.widthFrac, st.padTop, st.padBottom, st.padX = 0.32, 20*mm, 20*mm, 8*mm
	case has("modern-content"):
		st.widthFrac, st.padTop, st.padBottom, st.padX = 0.68, 20*mm, 20*mm, 10*mm
	case has("cv-section-title"):
		st.scale, st.padBottom, st.marginBottom = 1.1, 4+2, 10
	case has("cv-progress-bar"):
		st.fixed = 6
	case has("photo-box"):
		st.fixed = 140
	case has("cv-page-number"):
		st.scale, st.marginTop = 0.8, 20
	case has("cv-sidebar-name"):
		st.marginTop = 40
	case has("classic-header"):
		st.padBottom, st.marginBottom = 15+2, 25
	case has("classic-contact"), has("cv-item-desc"):
		st.scale = 0.9
	case has("cv-section"):
		st.marginTop = 25
	}
	switch {
	case has("creative-header"):
		st.padTop, st.padBottom, st.marginBottom = 20*mm, 20*mm, 25
	case has("cv-mini-header"):
		st.padBottom, st.marginBottom = 6+1, 20
	case has("cv-bar-label"):
		st.scale, st.marginBottom = 0.85, 2
	case has("cv-entry"):
		st.marginBottom = 10
	case has("cv-job-title"):
		st.scale, st.marginBottom = 1.2, 30
	case has("cv-item-company"):
		st.marginBottom = 5
	}
	if has("cv-name") && n.DataAtom == atom.H1 {
		st.scale = 2.5
	}
	if has("cv-item-accent") {
		st.padX = 15
	}
	return st
}

func (e *Estimator) block(n *html.Node, width, font float64) float64 {
	switch n.Type {
	case html.TextNode:
		return e.text(n.Data, width, font)
	case html.ElementNode:
	default:
		return 0
	}
	st := styleOf(n)
	if st.skip {
		return 0
	}
	font *= st.scale
	outer := st.marginTop + st.padTop + st.padBottom + st.marginBottom
	if st.fixed > 0 {
		return outer + st.fixed
	}
	inner := width*st.widthFrac - 2*st.padX
	if inner < font {
		inner = font
	}

	if st.row {
		return outer + e.row(n, inner, font)
	}

	var (
		height float64
		run    strings.Builder
	)
	flush := func() {
		height += e.text(run.String(), inner, font)
		run.Reset()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode || (c.Type == html.ElementNode && inlineTags[c.DataAtom]) {
			run.WriteString(inlineText(c))
			run.WriteByte(' ')
			continue
		}
		flush()
		height += e.block(c, inner, font)
	}
	flush()
	return outer + height
}

// row lays children side by side; the tallest one sets the height.
func (e *Estimator) row(n *html.Node, width, font float64) float64 {
	var cells []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode || strings.TrimSpace(c.Data) != "" {
			cells = append(cells, c)
		}
	}
	if len(cells) == 0 {
		return 0
	}
	var tallest float64
	for _, c := range cells {
		w := width / float64(len(cells))
		if c.Type == html.ElementNode && styleOf(c).widthFrac < 1 {
			w = width
		}
		var h float64
		if c.Type == html.TextNode || inlineTags[c.DataAtom] {
			h = e.text(inlineText(c), w, font)
		} else {
			h = e.block(c, w, font)
		}
		tallest = math.Max(tallest, h)
	}
	return tallest
}

func (e *Estimator) text(s string, width, font float64) float64 {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return 0
	}
	perLine := math.Floor(width / (font * e.CharWidth))
	if perLine < 1 {
		perLine = 1
	}
	lines := math.Ceil(float64(utf8.RuneCountInString(s)) / perLine)
	return lines * font * e.LineHeight
}

func inlineText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

var _ paginate.Measurer = (*Estimator)(nil)
