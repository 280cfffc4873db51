package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	collectInterval = 15 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Exporter exposes metrics via HTTP
type Exporter struct {
	recorder *Recorder
	server   *http.Server
}

func NewExporter(addr string, recorder *Recorder) *Exporter {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &Exporter{
		recorder: recorder,
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler returns the HTTP handler serving /metrics
func (e *Exporter) Handler() http.Handler {
	return e.server.Handler
}

// Start serves metrics until Stop or ctx is done
func (e *Exporter) Start(ctx context.Context) error {
	go func() {
		ticker := time.NewTicker(collectInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				_ = e.server.Shutdown(shutdownCtx)
				cancel()
				return
			case now := <-ticker.C:
				e.recorder.Collect(now)
			}
		}
	}()

	err := e.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("error serving metrics: %w", err)
	}
	return nil
}

// Stop stops the exporter
func (e *Exporter) Stop() error {
	return e.server.Close()
}
