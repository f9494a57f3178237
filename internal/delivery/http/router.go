package http

import (
	"net/http"

	"github.com/autolab/registry/internal/delivery/http/middleware"
	"github.com/autolab/registry/internal/pkg/config"
	"github.com/autolab/registry/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// Router содержит все зависимости для HTTP роутера
type Router struct {
	vehicleHandler *VehicleHandler
	countryHandler *CountryHandler
	config         *config.Config
	logger         logger.Logger
}

// NewRouter создает новый HTTP router
func NewRouter(
	vehicleHandler *VehicleHandler,
	countryHandler *CountryHandler,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		vehicleHandler: vehicleHandler,
		countryHandler: countryHandler,
		config:         config,
		logger:         logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: rt.config.CORS.AllowedMethods,
		AllowedHeaders: rt.config.CORS.AllowedHeaders,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", rt.vehicleHandler.ListVehicles)
			r.Post("/", rt.vehicleHandler.CreateVehicle)
			// Регистрируется до /{id}, чтобы "search" не разбирался как ID
			r.Get("/search", rt.vehicleHandler.SearchVehicles)
			r.Get("/{id}", rt.vehicleHandler.GetVehicle)
			r.Put("/{id}", rt.vehicleHandler.UpdateVehicle)
			r.Delete("/{id}", rt.vehicleHandler.DeleteVehicle)
		})

		r.Get("/countries", rt.countryHandler.ListCountries)
	})

	return r
}
