package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractClientIP(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{"direct", "203.0.113.5:4000", nil, "203.0.113.5"},
		{"untrusted forwarder ignored", "203.0.113.5:4000", map[string]string{"X-Forwarded-For": "198.51.100.1"}, "203.0.113.5"},
		{"trusted forwarder", "10.0.0.2:4000", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.3"}, "198.51.100.1"},
		{"real ip", "127.0.0.1:4000", map[string]string{"X-Real-IP": "198.51.100.9"}, "198.51.100.9"},
		{"garbage header", "10.0.0.2:4000", map[string]string{"X-Forwarded-For": "nope"}, "10.0.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := d.ExtractClientIP(r); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSuspicious(t *testing.T) {
	d := NewDetector()

	ok := httptest.NewRequest(http.MethodGet, "/api/crops?farm=1&q=corn", nil)
	if reason := d.Suspicious(ok); reason != "" {
		t.Errorf("normal request flagged: %s", reason)
	}

	probe := httptest.NewRequest(http.MethodGet, "/.env", nil)
	if d.Suspicious(probe) == "" {
		t.Error("expected .env probe to be flagged")
	}
	scanner := httptest.NewRequest(http.MethodGet, "/", nil)
	scanner.Header.Set("User-Agent", "sqlmap/1.7")
	if d.Suspicious(scanner) == "" {
		t.Error("expected scanner agent to be flagged")
	}
	if d.SuspiciousCount() != 2 {
		t.Errorf("count = %d, want 2", d.SuspiciousCount())
	}
}

func TestHeadersAndPreflight(t *testing.T) {
	cfg := DefaultHeadersConfig()
	cfg.AllowedOrigins = []string{"http://localhost:5173/"}
	h := NewHeadersMiddleware(cfg).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/farms", nil))
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" || rec.Code != http.StatusTeapot {
		t.Fatalf("unexpected response %d %v", rec.Code, rec.Header())
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("no CORS header without Origin")
	}

	pre := httptest.NewRequest(http.MethodOptions, "/api/farms", nil)
	pre.Header.Set("Origin", "http://localhost:5173")
	pre.Header.Set("Access-Control-Request-Method", "PATCH")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, pre)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("allow origin %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
