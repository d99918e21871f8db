package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/cors"
	"github.com/unrolled/secure"

	"rental-tracker-backend/internal/config"
	"rental-tracker-backend/internal/logger"
)

// requestLogger logs one line per request after it completes.
func requestLogger(next http.Handler) http.Handler {
	log := logger.WithComponent("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log.InfoContext(r.Context(), "Request handled",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// corsHandler allows the configured origins; "*" allows any. Preflight requests are
// answered here and never reach the router. No origins means no CORS headers at all.
func corsHandler(allowed []string) func(http.Handler) http.Handler {
	if len(allowed) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.New(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         600,
	}).Handler
}

func secureHeaders(development bool) func(http.Handler) http.Handler {
	return secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		IsDevelopment:      development,
	}).Handler
}

// Middleware builds the chain in request order: request id, logging, panic recovery,
// CORS, security headers, then per-IP rate limiting when a limit is configured.
func Middleware(cfg config.HTTPConfig) []func(http.Handler) http.Handler {
	chain := []func(http.Handler) http.Handler{
		middleware.RequestID,
		requestLogger,
		middleware.Recoverer,
		corsHandler(cfg.AllowedOrigins),
		secureHeaders(cfg.Development),
	}
	if cfg.RateLimitPerMinute > 0 {
		chain = append(chain, httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
	}
	return chain
}

func wrap(h http.Handler, chain []func(http.Handler) http.Handler) http.Handler {
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	return h
}
