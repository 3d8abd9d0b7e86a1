package rest

import (
	"context"
	"net/http"

	core_port "eri-tracker-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

func NewServer(port string,
	housesHandlers *HousesHandler,
	trackerHandlers *TrackerHandler,
	baseLogger core_port.LoggerPort) *Server {

	r := chi.NewRouter()

	r.Use(LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/houses", housesHandlers.ListHouses)
		r.Get("/houses/export", housesHandlers.ExportHouses)
		r.Get("/houses/{houseID}", housesHandlers.GetHouse)

		// служебные роуты для запуска прогонов вручную
		r.Post("/refresh", trackerHandlers.Refresh)
		r.Post("/geocode-missing", trackerHandlers.GeocodeMissing)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + port,
			Handler: r,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", core_port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
