package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/coinforge/gamestore/internal/core/ports"
	"github.com/coinforge/gamestore/internal/metrics"
)

type RouterConfig struct {
	AllowedOrigins []string
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
}

func NewHandler(
	cfg RouterConfig,
	authService ports.AuthService,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	cardHandler *CardHandler,
	gameHandler *GameHandler,
	storeHandler *StoreHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	r.Use(RequestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.With(RequireAuth(authService)).Post("/logout", authHandler.Logout)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.Register)
			r.Post("/verify", userHandler.VerifyEmail)
			r.Post("/verify/resend", userHandler.ResendVerificationCode)

			r.Group(func(r chi.Router) {
				r.Use(RequireAuth(authService))
				r.Get("/me", userHandler.Me)
				r.Patch("/me", userHandler.Update)
				r.Post("/me/password", userHandler.ChangePassword)
				r.Delete("/me", userHandler.Delete)
			})
		})

		r.Route("/cards", func(r chi.Router) {
			r.Use(RequireAuth(authService))
			r.Post("/", cardHandler.Register)
			r.Get("/", cardHandler.ListMine)
		})

		r.Route("/games", func(r chi.Router) {
			r.Get("/", gameHandler.List)
			r.Get("/{id}", gameHandler.GetByID)
			r.Get("/{id}/reviews", gameHandler.ListReviews)

			r.Group(func(r chi.Router) {
				r.Use(RequireAuth(authService))
				r.Post("/", gameHandler.Create)
				r.Patch("/{id}", gameHandler.Update)
				r.Post("/{id}/reviews", gameHandler.CreateReview)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(authService))
			r.Post("/recharges", storeHandler.Recharge)
			r.Post("/orders", storeHandler.Purchase)
			r.Post("/orders/{id}/complete", storeHandler.CompletePurchase)
			r.Get("/orders", storeHandler.ListOrders)
		})
	})

	return r
}
