/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/inventory/*   Catalog management
  /api/sales/*       Sale recording and metrics
  /api/clients/*     Contact book
  /api/sellers/*     Seller roster
  /api/shipments/*   Shipment tracking
  /api/calendar      Per-day sale rollups
  /api/import/*      CSV uploads
  /api/export/*      CSV downloads
  /api/dashboard     Landing-page bundle

SECURITY NOTE:
  No authentication middleware. Single-operator tool meant to run on
  localhost or behind a reverse proxy that handles auth.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Inventory routes
		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", h.ListInventory)
			r.Post("/", h.CreateItem)
			r.Get("/summary", h.InventorySummary)
			r.Get("/{id}", h.GetItem)
			r.Put("/{id}", h.UpdateItem)
			r.Delete("/{id}", h.DeleteItem)
			r.Post("/{id}/adjust", h.AdjustItemQuantity)
		})

		// Sales routes
		r.Route("/sales", func(r chi.Router) {
			r.Get("/", h.ListSales)
			r.Post("/", h.CreateSale)
			r.Get("/metrics", h.SalesMetrics)
			r.Delete("/{id}", h.DeleteSale)
		})

		// Client routes
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.ListClients)
			r.Post("/", h.CreateClient)
			r.Get("/{id}", h.GetClient)
			r.Put("/{id}", h.UpdateClient)
			r.Delete("/{id}", h.DeleteClient)
		})

		// Seller routes
		r.Route("/sellers", func(r chi.Router) {
			r.Get("/", h.ListSellers)
			r.Post("/", h.CreateSeller)
			r.Delete("/{id}", h.DeleteSeller)
		})

		// Shipment routes
		r.Route("/shipments", func(r chi.Router) {
			r.Get("/", h.ListShipments)
			r.Post("/", h.CreateShipment)
			r.Put("/{id}", h.UpdateShipment)
			r.Delete("/{id}", h.DeleteShipment)
		})

		// Calendar
		r.Get("/calendar", h.Calendar)

		// CSV import/export
		r.Route("/import", func(r chi.Router) {
			r.Post("/inventory", h.ImportInventory)
			r.Post("/sales", h.ImportSales)
		})
		r.Route("/export", func(r chi.Router) {
			r.Get("/inventory.csv", h.ExportInventoryCSV)
			r.Get("/sales.csv", h.ExportSalesCSV)
		})

		// Dashboard
		r.Get("/dashboard", h.Dashboard)
	})

	return r
}
