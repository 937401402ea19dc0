package security

import (
	"fmt"
	"net/http"
	"strings"
)

type HeadersConfig struct {
	CSP            string
	HSTSMaxAge     int
	FrameOptions   string
	ReferrerPolicy string
	// AllowedOrigins lists origins allowed to call the API from a browser.
	AllowedOrigins []string
}

// DefaultHeadersConfig suits a JSON API that serves no documents of its own.
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		CSP:            "default-src 'none'; frame-ancestors 'none'",
		HSTSMaxAge:     31536000,
		FrameOptions:   "DENY",
		ReferrerPolicy: "no-referrer",
	}
}

type HeadersMiddleware struct {
	cfg     HeadersConfig
	origins map[string]bool
}

func NewHeadersMiddleware(cfg HeadersConfig) *HeadersMiddleware {
	origins := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[strings.TrimRight(o, "/")] = true
	}
	return &HeadersMiddleware{cfg: cfg, origins: origins}
}

// Middleware sets the security headers and answers CORS preflights.
func (h *HeadersMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		hdr.Set("X-Content-Type-Options", "nosniff")
		hdr.Set("X-Frame-Options", h.cfg.FrameOptions)
		hdr.Set("Referrer-Policy", h.cfg.ReferrerPolicy)
		if h.cfg.CSP != "" {
			hdr.Set("Content-Security-Policy", h.cfg.CSP)
		}
		if r.TLS != nil && h.cfg.HSTSMaxAge > 0 {
			hdr.Set("Strict-Transport-Security", fmt.Sprintf("max-age=%d; includeSubDomains", h.cfg.HSTSMaxAge))
		}

		origin := r.Header.Get("Origin")
		if origin != "" && (h.origins["*"] || h.origins[origin]) {
			hdr.Set("Access-Control-Allow-Origin", origin)
			hdr.Set("Access-Control-Expose-Headers", "ETag, X-Request-ID")
			hdr.Add("Vary", "Origin")
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				hdr.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
				hdr.Set("Access-Control-Allow-Headers", "Content-Type, If-Match, X-Request-ID")
				hdr.Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
