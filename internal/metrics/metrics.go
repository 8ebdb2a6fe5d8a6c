package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cvbuilder"

// Collector 持有本进程的全部指标。CLI 是短进程，指标在退出前写入 textfile，
// 由 node_exporter 的 textfile collector 采集。
type Collector struct {
	registry *prometheus.Registry

	measureDuration *prometheus.HistogramVec
	measureTotal    *prometheus.CounterVec
	measureInFlight prometheus.Gauge

	paginationTotal *prometheus.CounterVec
	pagesTotal      *prometheus.CounterVec
	overflowTotal   *prometheus.CounterVec
	lastPageCount   *prometheus.GaugeVec

	exportTotal    *prometheus.CounterVec
	exportDuration *prometheus.HistogramVec
	exportPages    *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Collector{
		registry: reg,
		measureDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "measure",
				Name:      "duration_seconds",
				Help:      "单次测量耗时分布（秒）。",
				Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"result"},
		),
		measureTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "measure",
				Name:      "requests_total",
				Help:      "测量请求总数。",
			},
			[]string{"result"},
		),
		measureInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "measure",
				Name:      "in_flight",
				Help:      "当前正在进行的测量数量。",
			},
		),
		paginationTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "paginate",
				Name:      "runs_total",
				Help:      "分页执行次数。",
			},
			[]string{"template", "status"},
		),
		pagesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "paginate",
				Name:      "pages_total",
				Help:      "分页产出的页数总和。",
			},
			[]string{"template"},
		),
		overflowTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "paginate",
				Name:      "overflow_pages_total",
				Help:      "单个单元超出页面预算的页数。",
			},
			[]string{"template"},
		),
		lastPageCount: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "paginate",
				Name:      "last_page_count",
				Help:      "最近一次分页的页数。",
			},
			[]string{"template"},
		),
		exportTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "export",
				Name:      "runs_total",
				Help:      "导出执行次数。",
			},
			[]string{"format", "status"},
		),
		exportDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "export",
				Name:      "duration_seconds",
				Help:      "导出耗时分布（秒）。",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"format"},
		),
		exportPages: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "export",
				Name:      "pages_total",
				Help:      "导出的页数总和。",
			},
			[]string{"format"},
		),
	}
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// WriteTextfile 以 Prometheus 文本格式写出全部指标。
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
