package metrics

import "time"

// ObserveExport implements export.Observer.
func (c *Collector) ObserveExport(format string, pages int, elapsed time.Duration, err error) {
	c.exportTotal.WithLabelValues(format, status(err)).Inc()
	c.exportDuration.WithLabelValues(format).Observe(elapsed.Seconds())
	if err == nil {
		c.exportPages.WithLabelValues(format).Add(float64(pages))
	}
}
