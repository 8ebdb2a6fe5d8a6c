package paginate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cvBuilder/internal/errcode"
	"cvBuilder/internal/resume"
	"cvBuilder/internal/templates"
)

// fakeSurface returns a height computed from the classes in the markup, so
// tests know exactly what each block costs.
type fakeSurface struct {
	firstChrome float64
	miniChrome  float64
	title       float64
	item        float64
	bar         float64
	field       float64
	text        float64

	calls int
	ready *bool
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		firstChrome: 300,
		miniChrome:  100,
		title:       40,
		item:        150,
		bar:         30,
		field:       25,
		text:        60,
	}
}

func (f *fakeSurface) Ready() bool {
	if f.ready == nil {
		return true
	}
	return *f.ready
}

func (f *fakeSurface) Measure(_ context.Context, frag Fragment) (float64, error) {
	f.calls++
	m := frag.Markup
	h := f.firstChrome
	if strings.Contains(m, `class="cv-mini-header"`) {
		h = f.miniChrome
	}
	h += f.title * float64(strings.Count(m, `class="cv-section-title"`))
	h += f.item * float64(strings.Count(m, `class="cv-entry cv-item"`))
	h += f.bar * float64(strings.Count(m, `class="cv-entry cv-bar"`))
	h += f.field * float64(strings.Count(m, `class="cv-entry cv-field`))
	h += f.text * float64(strings.Count(m, `class="cv-entry cv-text"`))
	return h, nil
}

func scenarioRecord() resume.Record {
	rec := resume.Record{
		Name:      "سارة أحمد",
		JobTitle:  "مهندسة برمجيات",
		Skills:    []resume.Skill{{Name: "Go", Level: 90}},
		Languages: []resume.Language{{Name: "العربية", Level: 100}},
		Education: []resume.Education{{School: "جامعة القاهرة", Degree: "بكالوريوس", Date: "2015"}},
	}
	for i := 0; i < 6; i++ {
		rec.Experience = append(rec.Experience, resume.Experience{
			Company: "شركة " + string(rune('A'+i)),
			Role:    "مطورة",
			Date:    "2020",
			Desc:    "وصف المهام",
		})
	}
	return rec
}

func paginate(t *testing.T, m Measurer, rec resume.Record, opts ...Option) *Result {
	t.Helper()
	p := New(m, opts...)
	res, err := p.Paginate(context.Background(), resume.TemplateModern, rec, resume.DefaultPreferences())
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	return res
}

func TestPaginate_SplitsExperienceWithContinuedTitle(t *testing.T) {
	surface := newFakeSurface()
	res := paginate(t, surface, scenarioRecord())

	if len(res.Pages) != 2 {
		t.Fatalf("expected 2 pages got %d", len(res.Pages))
	}

	const title = "الخبرة العملية"
	continued := title + templates.ContinuedSuffix

	first, second := res.Pages[0].Markup, res.Pages[1].Markup
	if strings.Count(first, title) != 1 || strings.Contains(first, continued) {
		t.Fatalf("page 1 should show the experience title once, uncontinued")
	}
	if !strings.Contains(second, continued) {
		t.Fatalf("page 2 should show %q", continued)
	}
	if strings.Count(second, title) != 1 {
		t.Fatalf("page 2 should show the experience title exactly once (as continued)")
	}
	if !res.Pages[1].Units[0].Continued {
		t.Fatalf("first placement on page 2 should be marked continued")
	}

	for _, label := range []string{"المهارات", "اللغات"} {
		if !strings.Contains(first, label) || strings.Contains(second, label) {
			t.Fatalf("section %q should be whole on page 1", label)
		}
	}
	if strings.Contains(first, "التعليم") || !strings.Contains(second, "التعليم") {
		t.Fatalf("education should be whole on page 2")
	}

	if got := len(res.Pages[0].Units); got != 6 {
		t.Fatalf("expected 6 units on page 1 got %d", got)
	}
	if !strings.Contains(second, `class="cv-mini-header"`) || strings.Contains(first, `class="cv-mini-header"`) {
		t.Fatalf("mini header should appear on page 2 only")
	}
	if res.Measurements != surface.calls {
		t.Fatalf("measurement count %d does not match surface calls %d", res.Measurements, surface.calls)
	}
}

func TestPaginate_CoverageAndOrder(t *testing.T) {
	rec := scenarioRecord()
	rec.Projects = []resume.Project{{Name: "p1", Desc: "d"}, {Name: "p2", Desc: "d"}, {Name: "p3", Desc: "d"}}
	rec.Summary = "نبذة"
	res := paginate(t, newFakeSurface(), rec, WithBudget(700))

	var seen []int
	for _, page := range res.Pages {
		for _, pl := range page.Units {
			seen = append(seen, pl.Unit.Index)
		}
	}
	if len(seen) != len(res.Units) {
		t.Fatalf("expected %d placements got %d", len(res.Units), len(seen))
	}
	for i, idx := range seen {
		if idx != i {
			t.Fatalf("placement %d holds unit %d, order broken", i, idx)
		}
	}
}

func TestPaginate_MultiUnitPagesFitBudget(t *testing.T) {
	rec := scenarioRecord()
	rec.Projects = []resume.Project{{Name: "p1"}, {Name: "p2"}, {Name: "p3"}, {Name: "p4"}}
	surface := newFakeSurface()
	res := paginate(t, surface, rec, WithBudget(800))

	if len(res.Pages) < 3 {
		t.Fatalf("expected at least 3 pages got %d", len(res.Pages))
	}
	for _, page := range res.Pages {
		if len(page.Units) > 1 && page.Height > 800 {
			t.Fatalf("page %d holds %d units at height %.0f over budget", page.Index, len(page.Units), page.Height)
		}
		if page.Overflow {
			t.Fatalf("page %d should not overflow", page.Index)
		}
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", res.Warnings)
	}
}

func TestPaginate_TitleContinuity(t *testing.T) {
	rec := scenarioRecord()
	res := paginate(t, newFakeSurface(), rec, WithBudget(500))

	const title = "الخبرة العملية"
	var pagesWithExperience []int
	for _, page := range res.Pages {
		for _, pl := range page.Units {
			if pl.Unit.SectionTitle == title {
				pagesWithExperience = append(pagesWithExperience, page.Index)
				break
			}
		}
	}
	if len(pagesWithExperience) < 2 {
		t.Fatalf("experience should span pages, got %v", pagesWithExperience)
	}
	for i, idx := range pagesWithExperience {
		m := res.Pages[idx-1].Markup
		hasContinued := strings.Contains(m, title+templates.ContinuedSuffix)
		if i == 0 && hasContinued {
			t.Fatalf("page %d opens the section and must not be continued", idx)
		}
		if i > 0 && !hasContinued {
			t.Fatalf("page %d continues the section and needs the continued title", idx)
		}
		if c := strings.Count(m, title); c != 1 {
			t.Fatalf("page %d shows the title %d times", idx, c)
		}
	}
}

func TestPaginate_Deterministic(t *testing.T) {
	rec := scenarioRecord()
	a := paginate(t, newFakeSurface(), rec)
	b := paginate(t, newFakeSurface(), rec)
	if len(a.Pages) != len(b.Pages) {
		t.Fatalf("page count differs: %d vs %d", len(a.Pages), len(b.Pages))
	}
	for i := range a.Pages {
		if a.Pages[i].Markup != b.Pages[i].Markup {
			t.Fatalf("page %d differs between runs", i+1)
		}
	}
}

func TestPaginate_SinglePage(t *testing.T) {
	rec := resume.Record{
		Name:   "علي",
		Skills: []resume.Skill{{Name: "SQL", Level: 70}},
	}
	res := paginate(t, newFakeSurface(), rec)
	if len(res.Pages) != 1 {
		t.Fatalf("expected 1 page got %d", len(res.Pages))
	}
	m := res.Pages[0].Markup
	if strings.Contains(m, `class="cv-mini-header"`) || strings.Contains(m, templates.ContinuedSuffix) {
		t.Fatalf("single page must not carry continuation chrome")
	}
	if !res.Pages[0].First || res.Pages[0].Index != 1 {
		t.Fatalf("single page should be first with index 1")
	}
}

func TestPaginate_EmptyRecordStillYieldsOnePage(t *testing.T) {
	res := paginate(t, newFakeSurface(), resume.Record{})
	if len(res.Pages) != 1 {
		t.Fatalf("expected 1 page got %d", len(res.Pages))
	}
	if len(res.Pages[0].Units) != 0 {
		t.Fatalf("expected no units")
	}
}

func TestPaginate_OversizedUnitGetsOwnPage(t *testing.T) {
	surface := newFakeSurface()
	surface.item = 2000
	rec := resume.Record{
		Experience: []resume.Experience{{Role: "a"}, {Role: "b"}},
	}
	res := paginate(t, surface, rec)

	if len(res.Pages) != 2 {
		t.Fatalf("expected 2 pages got %d", len(res.Pages))
	}
	for _, page := range res.Pages {
		if len(page.Units) != 1 {
			t.Fatalf("page %d should hold exactly one unit", page.Index)
		}
		if !page.Overflow {
			t.Fatalf("page %d should be flagged overflow", page.Index)
		}
	}
	if len(res.Warnings) != 2 || res.Warnings[0].Code != errcode.UnitOverflow {
		t.Fatalf("expected two overflow warnings got %+v", res.Warnings)
	}
}

func TestPaginate_SurfaceNotReady(t *testing.T) {
	p := New(nil)
	if _, err := p.Paginate(context.Background(), resume.TemplateModern, resume.Record{}, resume.DefaultPreferences()); !errors.Is(err, ErrSurfaceNotReady) {
		t.Fatalf("expected ErrSurfaceNotReady got %v", err)
	}

	notReady := false
	surface := newFakeSurface()
	surface.ready = &notReady
	p = New(surface)
	if _, err := p.Paginate(context.Background(), resume.TemplateModern, resume.Record{}, resume.DefaultPreferences()); !errors.Is(err, ErrSurfaceNotReady) {
		t.Fatalf("expected ErrSurfaceNotReady got %v", err)
	}
	if surface.calls != 0 {
		t.Fatalf("surface should not be used when not ready")
	}
}

func TestPaginate_MeasureErrorIsWrapped(t *testing.T) {
	boom := errors.New("boom")
	p := New(MeasurerFunc(func(context.Context, Fragment) (float64, error) { return 0, boom }))
	_, err := p.Paginate(context.Background(), resume.TemplateClassic, scenarioRecord(), resume.DefaultPreferences())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped measure error got %v", err)
	}
}

func TestPaginate_UnknownTemplate(t *testing.T) {
	p := New(newFakeSurface())
	_, err := p.Paginate(context.Background(), resume.Template("retro"), resume.Record{}, resume.DefaultPreferences())
	if !errors.Is(err, templates.ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate got %v", err)
	}
}

func TestPaginate_FragmentCarriesHeadAndWidth(t *testing.T) {
	var got Fragment
	p := New(MeasurerFunc(func(_ context.Context, f Fragment) (float64, error) {
		got = f
		return 10, nil
	}), WithWidth(500))
	rec := resume.Record{Summary: "x"}
	if _, err := p.Paginate(context.Background(), resume.TemplateCreative, rec, resume.DefaultPreferences()); err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if got.Width != 500 {
		t.Fatalf("expected width 500 got %v", got.Width)
	}
	if !strings.Contains(got.Head, "<style>") {
		t.Fatalf("fragment head should carry the stylesheet")
	}
	if !strings.Contains(got.Markup, "width: 500.00px") {
		t.Fatalf("measurement markup should pin the surface width: %s", got.Markup)
	}
	if strings.Contains(got.Markup, "height: 100%") {
		t.Fatalf("measurement markup must not force the page height")
	}
}
