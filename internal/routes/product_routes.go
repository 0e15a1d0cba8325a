package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"stockmana/internal/handlers"
	"stockmana/internal/logging"
	"stockmana/internal/services"
)

func RegisterProductRoutes(router chi.Router, products *services.ProductService, gate func(http.Handler) http.Handler, log logging.Logger) {
	productHandler := handlers.NewProductHandler(products, log)

	router.Route("/products", func(r chi.Router) {
		r.Use(gate)
		r.Post("/", productHandler.CreateProduct)
		r.Get("/", productHandler.ListProducts)
		r.Delete("/", productHandler.DeleteProducts)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", productHandler.GetProduct)
			r.Patch("/", productHandler.UpdateProduct)
			r.Delete("/", productHandler.DeleteProduct)
		})
	})
}
