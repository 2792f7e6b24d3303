// Package metrics exposes source loading and order analysis as Prometheus
// metrics on a private registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/ordercheck/internal/core"
)

// Registry holds the ordercheck collectors on their own registry.
type Registry struct {
	reg *prometheus.Registry

	Loads       *prometheus.CounterVec
	LoadSec     *prometheus.HistogramVec
	Rows        *prometheus.GaugeVec
	Orders      *prometheus.GaugeVec
	AnalysisSec prometheus.Histogram
	LastLoad    prometheus.Gauge
}

// NewRegistry creates and registers every collector.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	loads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ordercheck_source_loads_total",
		Help: "Source table loads by table and result.",
	}, []string{"table", "result"})
	loadSec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ordercheck_source_load_seconds",
		Help:    "Time to read and decode one source table.",
		Buckets: prometheus.DefBuckets,
	}, []string{"table"})
	rows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ordercheck_source_rows",
		Help: "Rows in the last successfully loaded table.",
	}, []string{"table"})
	orders := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ordercheck_orders",
		Help: "Orders in the last analysis by verdict.",
	}, []string{"state"})
	analysisSec := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ordercheck_analysis_seconds",
		Help:    "Time to join and classify one snapshot.",
		Buckets: prometheus.DefBuckets,
	})
	lastLoad := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ordercheck_source_last_load_timestamp_seconds",
		Help: "Unix time of the last successful table load.",
	})

	r.MustRegister(loads, loadSec, rows, orders, analysisSec, lastLoad)
	return &Registry{
		reg:         r,
		Loads:       loads,
		LoadSec:     loadSec,
		Rows:        rows,
		Orders:      orders,
		AnalysisSec: analysisSec,
		LastLoad:    lastLoad,
	}
}

// ObserveLoad records one table load. It satisfies source.LoadObserver.
func (r *Registry) ObserveLoad(table string, rows int, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.Loads.WithLabelValues(table, result).Inc()
	r.LoadSec.WithLabelValues(table).Observe(elapsed.Seconds())
	if err == nil {
		r.Rows.WithLabelValues(table).Set(float64(rows))
		r.LastLoad.SetToCurrentTime()
	}
}

// ObserveAnalysis records one analysis. It satisfies core.AnalysisObserver.
func (r *Registry) ObserveAnalysis(s core.Summary, elapsed time.Duration) {
	r.AnalysisSec.Observe(elapsed.Seconds())
	r.Orders.WithLabelValues(string(core.StateNormal)).Set(float64(s.Normal))
	r.Orders.WithLabelValues(string(core.StateUnfinished)).Set(float64(s.Unfinished - s.Both))
	r.Orders.WithLabelValues(string(core.StateCrossMonth)).Set(float64(s.CrossMonth - s.Both))
	r.Orders.WithLabelValues(string(core.StateBoth)).Set(float64(s.Both))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
