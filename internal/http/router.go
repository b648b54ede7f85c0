package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/forkcast/forkcast/internal/api"
	"github.com/forkcast/forkcast/internal/auth"
	"github.com/forkcast/forkcast/internal/config"
	"github.com/forkcast/forkcast/internal/http/ratelimit"
	"github.com/forkcast/forkcast/internal/logger"
	"github.com/forkcast/forkcast/internal/metrics"
	"github.com/forkcast/forkcast/internal/realtime"
	"github.com/forkcast/forkcast/internal/store"
)

// NewRouter wires the full HTTP surface: health, auth, the JSON API, and the
// websocket endpoint.
func NewRouter(cfg *config.Config, log *logger.Logger, st *store.Store, authService *auth.Service, apiHandler *api.Handler, hub *realtime.Hub) http.Handler {
	r := chi.NewRouter()

	// Login endpoints: 5 requests per second, burst of 10.
	authLimiter := ratelimit.NewIPRateLimiter(rate.Limit(5), 10, 5*time.Minute, cfg.TrustedProxies)
	// Generation endpoints are expensive upstream calls; keep them slow.
	genLimiter := ratelimit.NewIPRateLimiter(rate.Limit(1), 3, 5*time.Minute, cfg.TrustedProxies)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := st.HealthCheck(ctx); err != nil {
			http.Error(w, "unready", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.PrometheusEnabled {
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			metrics.Handler().ServeHTTP(w, r)
		})
	}

	r.Route("/auth", func(r chi.Router) {
		r.Use(authLimiter.Middleware())
		r.Get("/login", authService.BeginOAuth)
		r.Get("/callback", authService.HandleOAuthCallback)
		r.Post("/logout", authService.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(authService.RequireUser)
		r.Mount("/api", apiHandler.Routes(genLimiter.Middleware()))
		r.Get("/ws", hub.ServeWS)
	})

	return r
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
