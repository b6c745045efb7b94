package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Operations counts facade calls by operation and outcome.
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kaleido",
		Name:      "operations_total",
		Help:      "Marketplace operations by name and outcome.",
	}, []string{"operation", "outcome"})

	// FeesRouted accumulates platform fees routed to the vault.
	FeesRouted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kaleido",
		Name:      "fees_routed_total",
		Help:      "Total platform fees routed to the vault.",
	})

	// PeriodsLive gauges the number of live listed periods.
	PeriodsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "kaleido",
		Name:      "periods_live",
		Help:      "Live listed periods across all spaces.",
	})
)

// RecordOperation books one facade call outcome.
func RecordOperation(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	Operations.WithLabelValues(operation, outcome).Inc()
}

// MetricsServer serves the Prometheus registry over HTTP.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server on addr. An empty addr disables serving;
// Start and Shutdown become no-ops.
func New(addr string) *MetricsServer {
	if addr == "" {
		return &MetricsServer{}
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &MetricsServer{
		srv: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Start serves metrics until Shutdown. It blocks, mirroring
// http.Server.ListenAndServe.
func (m *MetricsServer) Start() error {
	if m.srv == nil {
		return nil
	}
	if err := m.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the metrics server gracefully.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	if m.srv == nil {
		return nil
	}
	return m.srv.Shutdown(ctx)
}
