package cmd

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fathomsound/oggdecode/internal/config"
	"github.com/fathomsound/oggdecode/internal/observability"
)

// startMetrics builds a fresh registry and, if cfg.Metrics.ListenAddr is
// set, serves it on /metrics in the background. The core library never
// binds a socket itself (spec.md §6); only this driver does.
func startMetrics(cfg *config.MetricsConfig, log *slog.Logger) *observability.Metrics {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	if cfg.ListenAddr == "" {
		return m
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	go func() {
		log.Info("metrics listener starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics listener stopped", "error", err)
		}
	}()

	return m
}
