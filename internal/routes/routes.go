// internal/routes/routes.go
package routes

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"stockmana/internal/auth"
	"stockmana/internal/config"
	"stockmana/internal/handlers"
	"stockmana/internal/logging"
	authmw "stockmana/internal/middleware"
	"stockmana/internal/repository"
	"stockmana/internal/services"
)

// Deps are the outside collaborators the router wires into its handlers.
type Deps struct {
	Log    logging.Logger
	Mailer services.EmailSender
	Images services.ImageStore
}

func SetupRoutes(db *sql.DB, cfg *config.Config, deps Deps) *chi.Mux {
	if deps.Log == nil {
		deps.Log = logging.Nop()
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Stock Mana inventory API",
			"docs":    "/swagger/index.html",
		})
	})

	r.Get("/health", healthHandler(db))

	store := repository.NewStore(db)
	tokens := auth.NewTokenService(auth.Config{
		Secret:     cfg.JWTSecret,
		SessionTTL: cfg.SessionTTL,
		ResetTTL:   cfg.ResetTokenTTL,
	}, store.PasswordResets())

	accounts := services.NewAccountService(store, tokens, deps.Mailer, services.AccountConfig{
		FrontendURL: cfg.FrontendURL,
		BcryptCost:  cfg.BcryptCost,
		MailFrom:    cfg.SMTPFrom,
	}, deps.Log)
	products := services.NewProductService(store, deps.Images, deps.Log)
	contact := services.NewContactService(deps.Mailer, cfg.SupportEmail, deps.Log)

	cookie := handlers.CookieConfig{Name: cfg.CookieName, Secure: cfg.CookieSecure, TTL: cfg.SessionTTL}
	gate := authmw.RequireAuth(cfg.CookieName, tokens, store.Users(), deps.Log)

	r.Route("/api", func(r chi.Router) {
		RegisterUserRoutes(r, accounts, cookie, gate, deps.Log)
		RegisterProductRoutes(r, products, gate, deps.Log)
		RegisterContactRoutes(r, contact, gate, deps.Log)
	})

	RegisterSwaggerRoutes(r)

	return r
}

type dbStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "degraded",
				"db":     dbStatus{Status: "down", Error: err.Error()},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"db":     dbStatus{Status: "ok"},
		})
	}
}
