package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/nixfunds/finance-api/internal/auth"
	"github.com/nixfunds/finance-api/internal/config"
	"github.com/nixfunds/finance-api/internal/httputil"
	"github.com/nixfunds/finance-api/internal/logging"
	"github.com/nixfunds/finance-api/internal/ratelimit"
	"github.com/nixfunds/finance-api/internal/transaction"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Auth           *auth.Handler
	AuthMiddleware *auth.Middleware
	AuthLimiter    ratelimit.Limiter
	Transactions   *transaction.Handler
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.TrustedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300, // 5 minutes
		}))
	}

	proxies, err := config.ParseProxies(cfg.Server.TrustedProxies)
	if err != nil {
		logger.Error("ignoring TRUSTED_PROXIES", "error", err.Error())
	}

	r.Use(SecurityHeaders)
	r.Use(middleware.RequestID)
	r.Use(TrustedRealIP(proxies))
	r.Use(logging.RequestLogger(logger))
	r.Use(Recoverer)
	r.Use(middleware.Compress(5))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondMessage(w, r, "Route not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondMessage(w, r, "Method not allowed", http.StatusMethodNotAllowed)
	})

	r.Get("/", handleRoot)
	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/api", func(r chi.Router) {
		// signup and login share one attempt budget per IP
		r.Route("/auth", func(r chi.Router) {
			r.Use(ratelimit.Middleware(h.AuthLimiter, "auth"))
			r.Post("/signup", h.Auth.Signup)
			r.Post("/login", h.Auth.Login)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(h.AuthMiddleware.RequireAuth)
			h.Transactions.Routes(r)
		})
	})

	return r
}

// handleRoot answers the liveness check the frontend used
func handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Finance Tracker API is running!"))
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, r, map[string]string{"status": "api is running"}, http.StatusOK)
}
