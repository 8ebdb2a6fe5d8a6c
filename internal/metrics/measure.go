package metrics

import (
	"context"
	"time"

	"cvBuilder/internal/paginate"
)

type instrumented struct {
	next paginate.Measurer
	c    *Collector
}

// Instrument wraps a measurement surface with request, latency and
// in-flight metrics. Readiness is forwarded.
func (c *Collector) Instrument(next paginate.Measurer) paginate.Measurer {
	return &instrumented{next: next, c: c}
}

func (m *instrumented) Ready() bool {
	if m.next == nil {
		return false
	}
	if r, ok := m.next.(interface{ Ready() bool }); ok {
		return r.Ready()
	}
	return true
}

func (m *instrumented) Measure(ctx context.Context, f paginate.Fragment) (float64, error) {
	if m.next == nil {
		return 0, paginate.ErrSurfaceNotReady
	}
	start := time.Now()
	m.c.measureInFlight.Inc()
	defer m.c.measureInFlight.Dec()

	h, err := m.next.Measure(ctx, f)

	result := status(err)
	m.c.measureDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	m.c.measureTotal.WithLabelValues(result).Inc()
	return h, err
}

// ObservePagination records one Paginate call.
func (c *Collector) ObservePagination(template string, res *paginate.Result, err error) {
	c.paginationTotal.WithLabelValues(template, status(err)).Inc()
	if err != nil || res == nil {
		return
	}
	c.pagesTotal.WithLabelValues(template).Add(float64(len(res.Pages)))
	c.lastPageCount.WithLabelValues(template).Set(float64(len(res.Pages)))
	for _, p := range res.Pages {
		if p.Overflow {
			c.overflowTotal.WithLabelValues(template).Inc()
		}
	}
}
