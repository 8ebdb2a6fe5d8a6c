// Package paginate splits a rendered résumé into page-sized chunks by
// greedily accumulating units and re-measuring each tentative page under the
// exact chrome the final render uses.
package paginate

import (
	"context"
	"fmt"
	"log/slog"

	"cvBuilder/internal/errcode"
	"cvBuilder/internal/markup"
	"cvBuilder/internal/resume"
	"cvBuilder/internal/templates"
)

// DefaultBudget is the usable page height in px. It sits a little under the
// A4 height so larger fonts are not cut off at the bottom edge.
const DefaultBudget = 1115.0

// Paginator is stateless between calls. It is safe to share across
// goroutines only if its Measurer is.
type Paginator struct {
	measurer Measurer
	budget   float64
	width    float64
	logger   *slog.Logger
}

// Option configures a Paginator.
type Option func(*Paginator)

// WithBudget sets the page height budget.
func WithBudget(px float64) Option {
	return func(p *Paginator) {
		if px > 0 {
			p.budget = px
		}
	}
}

// WithWidth sets the page width the surface lays content out at.
func WithWidth(px float64) Option {
	return func(p *Paginator) {
		if px > 0 {
			p.width = px
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Paginator) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Paginator over the given measurement surface.
func New(m Measurer, opts ...Option) *Paginator {
	p := &Paginator{
		measurer: m,
		budget:   DefaultBudget,
		width:    templates.PageWidthPx,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Budget returns the configured page height budget.
func (p *Paginator) Budget() float64 { return p.budget }

type readiness interface {
	Ready() bool
}

type pending struct {
	placements []Placement
	nodes      []*markup.Node
	height     float64
}

// Paginate renders rec with the given template and splits it into pages.
// A unit is never split: one that alone exceeds the budget gets a page of its
// own and the page is flagged Overflow.
func (p *Paginator) Paginate(ctx context.Context, variant resume.Template, rec resume.Record, prefs resume.Preferences) (*Result, error) {
	if p.measurer == nil {
		return nil, ErrSurfaceNotReady
	}
	if r, ok := p.measurer.(readiness); ok && !r.Ready() {
		return nil, ErrSurfaceNotReady
	}

	doc, err := templates.Render(variant, rec)
	if err != nil {
		return nil, err
	}
	head, err := templates.Head(prefs)
	if err != nil {
		return nil, err
	}

	res := &Result{Units: Flatten(doc.Content)}
	log := p.logger.With(
		slog.String("template", string(variant)),
		slog.Int("units", len(res.Units)),
	)

	measure := func(nodes []*markup.Node, pageNum int) (float64, error) {
		page, err := templates.WrapPage(variant, rec, nodes, templates.PageOptions{
			Number:      pageNum,
			First:       pageNum == 1,
			Measurement: true,
			Width:       p.width,
		})
		if err != nil {
			return 0, err
		}
		h, err := p.measurer.Measure(ctx, Fragment{Markup: markup.Render(page), Head: head, Width: p.width})
		if err != nil {
			return 0, fmt.Errorf("measure page %d: %w", pageNum, err)
		}
		res.Measurements++
		return h, nil
	}

	pages := []*pending{{}}
	lastTitle := ""
	for _, u := range res.Units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur := pages[len(pages)-1]
		item := unitNodes(u)

		tentative := make([]*markup.Node, 0, len(cur.nodes)+len(item))
		tentative = append(tentative, cur.nodes...)
		tentative = append(tentative, item...)

		h, err := measure(tentative, len(pages))
		if err != nil {
			return nil, err
		}

		if h > p.budget && len(cur.placements) > 0 {
			continued := !u.FirstInSection
			opening := item
			if continued {
				label := u.SectionTitle
				if label == "" {
					label = lastTitle
				}
				opening = []*markup.Node{templates.ContinuedTitle(label), u.Entry}
			}
			next := &pending{
				placements: []Placement{{Unit: u, Continued: continued}},
				nodes:      opening,
			}
			pages = append(pages, next)
			log.Debug("page closed",
				slog.Int("page", len(pages)-1),
				slog.Int("units", len(cur.placements)),
				slog.Float64("height", cur.height),
			)
			if next.height, err = measure(next.nodes, len(pages)); err != nil {
				return nil, err
			}
		} else {
			cur.placements = append(cur.placements, Placement{Unit: u})
			cur.nodes = tentative
			cur.height = h
		}
		if u.SectionTitle != "" {
			lastTitle = u.SectionTitle
		}
	}

	for i, pg := range pages {
		num := i + 1
		node, err := templates.WrapPage(variant, rec, pg.nodes, templates.PageOptions{Number: num, First: num == 1})
		if err != nil {
			return nil, err
		}
		page := Page{
			Index:  num,
			First:  num == 1,
			Units:  pg.placements,
			Nodes:  pg.nodes,
			Markup: markup.Render(node),
			Height: pg.height,
		}
		if len(pg.placements) == 1 && pg.height > p.budget {
			page.Overflow = true
			res.Warnings = append(res.Warnings, errcode.Warning{
				Code:    errcode.UnitOverflow,
				Message: fmt.Sprintf("unit exceeds page budget (%.0f > %.0f)", pg.height, p.budget),
				Page:    num,
			})
		}
		res.Pages = append(res.Pages, page)
	}

	log.Info("pagination finished",
		slog.Int("pages", len(res.Pages)),
		slog.Int("measurements", res.Measurements),
	)
	return res, nil
}

// unitNodes is what a unit adds to a page: its section title when it opens
// the section, then the entry.
func unitNodes(u Unit) []*markup.Node {
	if u.FirstInSection && u.Title != nil {
		return []*markup.Node{u.Title, u.Entry}
	}
	return []*markup.Node{u.Entry}
}

// Markup returns each page's final markup in order.
func (r *Result) Markup() []string {
	out := make([]string, 0, len(r.Pages))
	for _, p := range r.Pages {
		out = append(out, p.Markup)
	}
	return out
}
