package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/mmeshcher/atelier/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса atelier.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	if h.metrics != nil {
		r.Use(h.metrics.Middleware)
	}
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	r.Get("/hello", h.Hello)
	r.Get("/hello/{name}", h.HelloName)
	r.Post("/calculate", h.Calculate)

	r.Route("/pricing", func(r chi.Router) {
		r.Get("/taxed", h.TaxedPrice)
		r.Get("/discount", h.DiscountedPrice)
	})

	r.Route("/product", func(r chi.Router) {
		r.Get("/", h.GetProduct)
		r.Post("/discount", h.ApplyProductDiscount)
		r.Put("/price", h.SetProductPrice)
		r.Post("/reset", h.ResetProduct)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.sessions.Middleware)

		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Get("/session", h.SessionStatus)

		r.With(h.sessions.RequireLogin).Get("/protected", h.Protected)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
