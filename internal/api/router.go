// internal/api/router.go
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mapayl/internal/api/handler"
	"mapayl/internal/metrics"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(userHandler *handler.UserHandler, pageHandler *handler.PageHandler, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)                       // Add a request ID to the context
	r.Use(middleware.RealIP)                          // Use the real IP address
	r.Use(middleware.Logger)                          // Log HTTP requests
	r.Use(middleware.Recoverer)                       // Recover from panics and return 500
	r.Use(middleware.Timeout(handler.DefaultTimeout)) // Set a default timeout for requests
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           86400,
	}))
	r.Use(instrument)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Informational pages
	for _, p := range handler.Pages {
		r.Get(p.Path, pageHandler.Render(p))
	}

	// User account API routes
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/", userHandler.Register)
		r.Get("/", userHandler.ListUsers)
		r.Get("/{userID}", userHandler.GetUser)
		r.Patch("/{userID}", userHandler.UpdateProfile)
		r.Put("/{userID}/kyc-status", userHandler.SetKYCStatus)
		r.Post("/{userID}/kyc-submission", userHandler.SubmitKYC)
		r.Post("/{userID}/onboarding", userHandler.CompleteOnboarding)
	})

	logger.Debug("HTTP routes registered", zap.Int("pages", len(handler.Pages)))
	return r
}

// instrument records request latency labelled by the matched route pattern,
// so path parameters do not explode the label set.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
