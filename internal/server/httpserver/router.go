package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yndnr/relaychat-go/internal/infra/buildinfo"
	"github.com/yndnr/relaychat-go/internal/server/chatserver"
	"github.com/yndnr/relaychat-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Metrics is exposed on /metrics. Nil uses the global registry.
	Metrics *metric.Registry

	// Status reports the chat server state for /health.
	Status func() chatserver.Status

	// MetricsAuthToken, when set, must be sent as "Authorization: Bearer <token>"
	// to read /metrics.
	MetricsAuthToken string

	Logger *slog.Logger
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Members int    `json:"members"`
	Paused  bool   `json:"paused"`
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = metric.Global()
	}

	mux := http.NewServeMux()
	mux.Handle("GET /health", Chain(
		http.HandlerFunc(healthHandler(cfg.Status)),
		RequestID(logger),
		Recover(),
	))
	mux.Handle("GET /metrics", Chain(
		metrics.Handler(),
		RequestID(logger),
		Recover(),
		AccessLog(),
		BearerAuth(cfg.MetricsAuthToken),
	))
	return mux
}

func healthHandler(status func() chatserver.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:  "ok",
			Version: buildinfo.Version,
		}
		if status != nil {
			st := status()
			resp.Members = st.Members
			resp.Paused = st.Paused
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
