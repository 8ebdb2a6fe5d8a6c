package metrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"cvBuilder/internal/paginate"
)

func TestInstrument_CountsResults(t *testing.T) {
	c := New()
	calls := 0
	m := c.Instrument(paginate.MeasurerFunc(func(_ context.Context, f paginate.Fragment) (float64, error) {
		calls++
		if f.Markup == "bad" {
			return 0, errors.New("boom")
		}
		return 42, nil
	}))

	h, err := m.Measure(context.Background(), paginate.Fragment{Markup: "ok"})
	if err != nil || h != 42 {
		t.Fatalf("unexpected result: %v %v", h, err)
	}
	if _, err := m.Measure(context.Background(), paginate.Fragment{Markup: "bad"}); err == nil {
		t.Fatal("expected error to pass through")
	}

	if got := testutil.ToFloat64(c.measureTotal.WithLabelValues("ok")); got != 1 {
		t.Fatalf("ok count = %v", got)
	}
	if got := testutil.ToFloat64(c.measureTotal.WithLabelValues("error")); got != 1 {
		t.Fatalf("error count = %v", got)
	}
	if got := testutil.ToFloat64(c.measureInFlight); got != 0 {
		t.Fatalf("in-flight gauge not released: %v", got)
	}
}

type notReady struct{}

func (notReady) Ready() bool { return false }
func (notReady) Measure(context.Context, paginate.Fragment) (float64, error) {
	return 0, nil
}

func TestInstrument_ForwardsReadiness(t *testing.T) {
	m := New().Instrument(notReady{})
	r, ok := m.(interface{ Ready() bool })
	if !ok || r.Ready() {
		t.Fatal("readiness not forwarded")
	}
}

func TestObservePagination(t *testing.T) {
	c := New()
	res := &paginate.Result{Pages: []paginate.Page{{Index: 1}, {Index: 2, Overflow: true}}}
	c.ObservePagination("modern", res, nil)
	c.ObservePagination("modern", nil, errors.New("surface"))

	if got := testutil.ToFloat64(c.pagesTotal.WithLabelValues("modern")); got != 2 {
		t.Fatalf("pages = %v", got)
	}
	if got := testutil.ToFloat64(c.overflowTotal.WithLabelValues("modern")); got != 1 {
		t.Fatalf("overflow = %v", got)
	}
	if got := testutil.ToFloat64(c.paginationTotal.WithLabelValues("modern", "error")); got != 1 {
		t.Fatalf("errors = %v", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	c := New()
	c.ObserveExport("pdf", 3, 2*time.Second, nil)
	path := filepath.Join(t.TempDir(), "cvbuilder.prom")
	if err := c.WriteTextfile(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `cvbuilder_export_pages_total{format="pdf"} 3`) {
		t.Fatalf("textfile missing export pages:\n%s", data)
	}
}
