// Package metrics registra las métricas Prometheus de generación de actas.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultadoOK    = "ok"
	ResultadoError = "error"
)

var (
	Registry = prometheus.NewRegistry()

	ActasGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "actas_generated_total",
		Help: "Actas renderizadas por formato y resultado.",
	}, []string{"formato", "resultado"})

	BuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "acta_build_duration_seconds",
		Help:    "Tiempo de armado del documento del acta.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	BuildWarnings = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "acta_build_warnings_total",
		Help: "Campos dejados en crudo por formato inválido.",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		ActasGenerated,
		BuildDuration,
		BuildWarnings,
	)
}

// Handler expone el registry; main lo monta con adaptor.HTTPHandler.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
