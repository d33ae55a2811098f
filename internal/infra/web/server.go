package web

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"carpool-matching-service/internal/usecase"
)

// Server wires the HTTP surface to the use cases.
type Server struct {
	accountUC  *usecase.AccountUseCase
	userUC     *usecase.UserUseCase
	optimizeUC *usecase.OptimizeUseCase
	geocodeUC  *usecase.GeocodeUseCase
	auth       *AuthManager
	log        *zerolog.Logger
}

func NewServer(
	accountUC *usecase.AccountUseCase,
	userUC *usecase.UserUseCase,
	optimizeUC *usecase.OptimizeUseCase,
	geocodeUC *usecase.GeocodeUseCase,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	webLog := logger.With().Str("component", "web").Logger()
	return &Server{
		accountUC:  accountUC,
		userUC:     userUC,
		optimizeUC: optimizeUC,
		geocodeUC:  geocodeUC,
		auth:       auth,
		log:        &webLog,
	}
}

// Router builds the chi router with all routes registered.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	// Public
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(s.auth.RequireAuth)

		r.Post("/users", s.handleUserUpsert)
		r.Get("/users", s.handleUserList)

		r.Get("/geocode/search", s.handleGeocodeSearch)

		r.Route("/carpool", func(r chi.Router) {
			r.Post("/optimize", s.handleOptimize)
			r.Post("/optimize/async", s.handleOptimizeAsync)
			r.Get("/results/{id}", s.handleGetResult)
			r.Get("/jobs/{id}", s.handleGetJob)
			r.Get("/history", s.handleHistory)
		})

		r.Get("/routes/{driverId}", s.handleDriverRoute)
	})

	return r
}
