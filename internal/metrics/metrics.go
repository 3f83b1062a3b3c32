package metrics

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	chatRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "echo_chat_requests_total", Help: "Chat turns handled, by agent and status"},
		[]string{"agent", "status"})
	upstreamErrors = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "echo_upstream_errors_total", Help: "Agent/LLM upstream failures"})
)

func init() {
	prometheus.MustRegister(chatRequests, upstreamErrors)
}

// Start runs a Prometheus handler on the given listen addr. An empty addr
// disables the listener.
func Start(ctx context.Context, listen string, log *slog.Logger) error {
	if listen == "" {
		return nil
	}
	srv := &http.Server{Addr: listen, Handler: promhttp.Handler()}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", slog.String("err", err.Error()))
			}
		}
	}()
	return nil
}

func IncChatRequest(agent string, status string) { chatRequests.WithLabelValues(agent, status).Inc() }

func IncUpstreamError() { upstreamErrors.Inc() }
