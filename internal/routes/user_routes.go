package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"stockmana/internal/handlers"
	"stockmana/internal/logging"
	"stockmana/internal/services"
)

func RegisterUserRoutes(router chi.Router, accounts *services.AccountService, cookie handlers.CookieConfig, gate func(http.Handler) http.Handler, log logging.Logger) {
	authHandler := handlers.NewAuthHandler(accounts, cookie, log)
	userHandler := handlers.NewUserHandler(accounts, log)

	router.Route("/users", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/log-out", authHandler.Logout)
		r.Get("/login-status", authHandler.LoginStatus)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Put("/reset-password/{resetToken}", authHandler.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(gate)
			r.Get("/get-user", userHandler.GetUser)
			r.Patch("/update-profile", userHandler.UpdateProfile)
			r.Patch("/change-password", userHandler.ChangePassword)
		})
	})
}
