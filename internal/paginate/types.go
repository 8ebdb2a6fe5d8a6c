package paginate

import (
	"context"
	"errors"

	"cvBuilder/internal/errcode"
	"cvBuilder/internal/markup"
)

// ErrSurfaceNotReady is returned when no measurement surface is attached.
var ErrSurfaceNotReady = errors.New("measurement surface not ready")

// Fragment is what a surface measures: one wrapped page body plus the
// document head (stylesheet) that the final render uses.
type Fragment struct {
	Markup string
	Head   string
	Width  float64
}

// Measurer reports the settled layout height of a fragment, in the same unit
// as the page budget.
type Measurer interface {
	Measure(ctx context.Context, f Fragment) (float64, error)
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(ctx context.Context, f Fragment) (float64, error)

func (fn MeasurerFunc) Measure(ctx context.Context, f Fragment) (float64, error) {
	return fn(ctx, f)
}

// Unit is one paginatable block.
type Unit struct {
	// Index is the unit's position in document order.
	Index int
	Entry *markup.Node
	// Title is the section heading node; nil for units outside a section.
	Title *markup.Node
	// SectionTitle is the heading's text, used to build continuation labels.
	SectionTitle   string
	FirstInSection bool
}

// Placement records where a unit landed.
type Placement struct {
	Unit Unit
	// Continued is set when the unit opens a page with a "continued" heading.
	Continued bool
}

// Page is one physical output page.
type Page struct {
	Index  int
	First  bool
	Units  []Placement
	Nodes  []*markup.Node
	Markup string
	// Height is the measured height of the page's content under measurement
	// chrome.
	Height float64
	// Overflow is set for a single unit that alone exceeds the budget.
	Overflow bool
}

// Result is the outcome of one pagination pass.
type Result struct {
	Pages        []Page
	Units        []Unit
	Warnings     []errcode.Warning
	Measurements int
}
