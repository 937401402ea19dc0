package http

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.metrics.started).Round(time.Second).String(),
	})
}

// handleReady reports ready once every store answers a full load.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := "ready"
	code := http.StatusOK
	checks := make(map[string]any)

	if snap, err := s.loader.Refresh(ctx); err != nil {
		checks["records"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		code = http.StatusServiceUnavailable
	} else {
		checks["records"] = map[string]any{
			"status":     "ok",
			"generation": snap.Generation,
			"farms":      len(snap.Farms),
		}
	}
	checks["cache"] = map[string]any{"entries": s.results.Size(), "status": "ok"}
	checks["rate_limiter"] = map[string]any{"active_clients": s.rateLimiter.GetMetrics().ClientCount, "status": "ok"}

	NewResponse().Status(code).JSON(map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

// handleMetrics writes counters in a plain key value format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	traceMetrics := s.trace.GetMetrics()
	limitMetrics := s.rateLimiter.GetMetrics()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "uptime_seconds %d\n", int64(time.Since(s.metrics.started).Seconds()))
	fmt.Fprintf(w, "http_requests_total %d\n", traceMetrics.TotalRequests)
	fmt.Fprintf(w, "http_last_response_microseconds %d\n", traceMetrics.LastResponseUs)
	fmt.Fprintf(w, "record_mutations_total %d\n", s.metrics.mutations.Load())
	fmt.Fprintf(w, "cache_hits_total %d\n", s.metrics.cacheHits.Load())
	fmt.Fprintf(w, "cache_misses_total %d\n", s.metrics.cacheMisses.Load())
	fmt.Fprintf(w, "cache_entries %d\n", s.results.Size())
	fmt.Fprintf(w, "rate_limit_rejected_total %d\n", limitMetrics.Rejected)
	fmt.Fprintf(w, "rate_limit_clients %d\n", limitMetrics.ClientCount)
	fmt.Fprintf(w, "suspicious_requests_total %d\n", s.detector.SuspiciousCount())
}
