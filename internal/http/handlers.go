package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// readyTimeout bounds all dependency checks of one /readyz call.
const readyTimeout = 5 * time.Second

// handleHealth performs the liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady runs every registered dependency check.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]string, len(s.checks)+1)

	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			checks[name] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
			s.logger.WarnContext(ctx, "Readiness check failed", "check", name, "error", err)
			continue
		}
		checks[name] = "ok"
	}
	checks["rate_limiter"] = fmt.Sprintf("ok (%d active clients)", s.limiter.ActiveClients())

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics reports counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	traceMetrics := s.tracer.GetMetrics()
	rateMetrics := s.limiter.GetMetrics()
	securityMetrics := s.detector.GetMetrics()

	type metric struct {
		name, help, kind string
		value            any
	}
	metrics := []metric{
		{"http_requests_total", "Total number of HTTP requests", "counter", traceMetrics.TotalRequests},
		{"http_server_errors_total", "Total number of 5xx responses", "counter", traceMetrics.ServerErrors},
		{"http_response_time_microseconds", "Average response time", "gauge", traceMetrics.AverageResponseTime},
		{"rate_limit_hits_total", "Total rate limit hits", "counter", rateMetrics.TotalHits},
		{"active_rate_limit_clients", "Currently tracked rate limit clients", "gauge", rateMetrics.ClientCount},
		{"suspicious_requests_total", "Total suspicious requests detected", "counter", securityMetrics.SuspiciousRequests},
		{"blocked_requests_total", "Total suspicious requests blocked", "counter", securityMetrics.BlockedRequests},
	}
	if s.cacheStats != nil {
		stats := s.cacheStats()
		metrics = append(metrics,
			metric{"category_cache_entries", "Current category cache entries", "gauge", stats.Size},
			metric{"category_cache_hits_total", "Total category cache hits", "counter", stats.Hits},
			metric{"category_cache_misses_total", "Total category cache misses", "counter", stats.Misses},
		)
	}
	metrics = append(metrics, metric{"uptime_seconds", "Application uptime in seconds", "gauge", int64(time.Since(s.started).Seconds())})

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	for _, m := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %v\n\n", m.name, m.help, m.name, m.kind, m.name, m.value)
	}
}

// writeJSON writes v without the API envelope; used by the ops endpoints.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
