package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"stockmana/internal/handlers"
	"stockmana/internal/logging"
	"stockmana/internal/services"
)

func RegisterContactRoutes(router chi.Router, contact *services.ContactService, gate func(http.Handler) http.Handler, log logging.Logger) {
	contactHandler := handlers.NewContactHandler(contact, log)

	router.Route("/contact-us", func(r chi.Router) {
		r.Use(gate)
		r.Post("/", contactHandler.ContactUs)
	})
}
