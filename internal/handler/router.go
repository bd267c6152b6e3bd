package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router собирает все маршруты консоли.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger(h.log))

	r.Get("/health", HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/reload", h.Reload)

	r.Route("/clients", func(r chi.Router) {
		r.Get("/", h.ListClients)
		r.Post("/", h.CreateClient)
		r.Get("/{id}", h.GetClient)
		r.Put("/{id}", h.UpdateClient)
		r.Delete("/{id}", h.DeleteClient)
	})

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", h.ListInventory)
		r.Post("/", h.AddItem)
		r.Put("/{id}", h.UpdateItem)
		r.Delete("/{id}", h.DeleteItem)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Get("/", h.ListBookings)
		r.Post("/", h.CreateBooking)
		r.Get("/{id}", h.GetBooking)
		r.Put("/{id}", h.UpdateBooking)
		r.Delete("/{id}", h.DeleteBooking)
	})

	r.Get("/agenda/{date}", h.Agenda)
	r.Get("/availability", h.Availability)
	r.Get("/reports/financial", h.FinancialReport)
	r.Get("/history/{table}/{id}", h.History)
	r.Get("/activity", h.Activity)

	return r
}
