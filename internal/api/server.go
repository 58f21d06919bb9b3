package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"arcadia/internal/cache"
	"arcadia/internal/clock"
	"arcadia/internal/config"
	"arcadia/internal/database"
	"arcadia/internal/handlers"
	"arcadia/internal/logger"
	"arcadia/internal/messaging"
	"arcadia/internal/metrics"
	"arcadia/internal/middleware"
	"arcadia/internal/repository"
	"arcadia/internal/search"
	"arcadia/internal/service"
)

// Server wires the HTTP API together: database, NATS, Elasticsearch and
// Valkey connections, repositories, services and routes.
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	es       *search.ElasticsearchClient
	valkey   *cache.ValkeyClient
	services *service.Services
	repos    *repository.Repositories
}

// NewServer connects all backing services and builds the router. NATS,
// Elasticsearch and Valkey are optional: the API degrades gracefully
// without them. Postgres is not.
func NewServer(cfg *config.Config) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		slog.Warn("NATS unavailable, events will not be published", "error", err)
		natsClient = nil
	}

	esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		slog.Warn("Elasticsearch unavailable, station search falls back to Postgres", "error", err)
		esClient = nil
	}

	valkeyClient, err := cache.NewValkeyClient()
	if err != nil {
		slog.Warn("Valkey unavailable, caching disabled", "error", err)
		valkeyClient = nil
	}

	repos := repository.NewRepositoriesWithElasticsearch(db, esClient)
	services := service.NewServices(repos, natsClient, valkeyClient, clock.System(), cfg.Booking)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(metrics.Middleware())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		es:       esClient,
		valkey:   valkeyClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server, nil
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api")
	api.Use(middleware.BasicAuth(s.repos.Users, s.valkey))
	{
		customers := api.Group("/customers")
		{
			customers.POST("", h.CreateCustomer)
			customers.GET("", h.ListCustomers)
			customers.GET("/:id", h.GetCustomer)
			customers.PUT("/:id", h.UpdateCustomer)
			customers.DELETE("/:id", h.DeleteCustomer)

			customers.POST("/:id/deposit", h.Deposit)
			customers.GET("/:id/balance", h.GetBalance)
			customers.GET("/:id/transactions", h.ListTransactions)
			customers.GET("/:id/audit", h.AuditBalance)

			customers.POST("/:id/membership", h.IssueMembership)
			customers.GET("/:id/membership", h.GetMembership)
			customers.PATCH("/:id/membership/renew", h.RenewMembership)
			customers.DELETE("/:id/membership", h.DeactivateMembership)

			customers.GET("/:id/notifications", h.ListNotifications)
		}

		notifications := api.Group("/notifications")
		{
			notifications.PATCH("/:id/read", h.MarkNotificationRead)
		}

		stations := api.Group("/stations")
		{
			stations.POST("", h.CreateStation)
			stations.GET("", h.ListStations)
			stations.GET("/search", h.SearchStations)
			stations.GET("/:id", h.GetStation)
			stations.PATCH("/:id/status", h.UpdateStationStatus)
			stations.DELETE("/:id", h.DeleteStation)
			stations.GET("/:id/schedule", h.GetStationSchedule)
		}

		bookings := api.Group("/bookings")
		{
			bookings.POST("", h.CreateBooking)
			bookings.GET("", h.ListBookings)
			bookings.GET("/availability", h.CheckAvailability)
			bookings.GET("/:id", h.GetBooking)
			bookings.PATCH("/cancel", h.CancelBooking)
		}

		tournaments := api.Group("/tournaments")
		{
			tournaments.POST("", h.CreateTournament)
			tournaments.GET("", h.ListTournaments)
			tournaments.GET("/:id", h.GetTournament)
			tournaments.POST("/:id/register", h.RegisterParticipant)
			tournaments.GET("/:id/participants", h.ListParticipants)
			tournaments.PATCH("/:id/status", h.UpdateTournamentStatus)
		}

		games := api.Group("/games")
		{
			games.POST("", h.CreateGame)
			games.GET("", h.ListGames)
			games.GET("/:id", h.GetGame)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", metrics.Handler())
}

func (s *Server) healthCheck(c *gin.Context) {
	dbHealth := s.db.HealthCheck(c.Request.Context())

	status := "ok"
	code := http.StatusOK
	if dbHealth.Status != "healthy" {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	esStatus := "disabled"
	if s.es != nil {
		esStatus = "ok"
		if err := s.es.HealthCheck(c.Request.Context()); err != nil {
			esStatus = "unavailable"
		}
	}

	natsStatus := "disabled"
	if s.nats != nil {
		natsStatus = "ok"
	}

	c.JSON(code, gin.H{
		"status":        status,
		"service":       "arcadia-api",
		"database":      dbHealth,
		"elasticsearch": esStatus,
		"nats":          natsStatus,
	})
}

// GetRouter exposes the router for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes all backing connections.
func (s *Server) Cleanup() error {
	log := logger.Get()

	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Error("Error closing NATS connection", "error", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			log.Error("Error closing Valkey connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}

// Shutdown is Cleanup behind a context for symmetry with http.Server.
func (s *Server) Shutdown(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- s.Cleanup() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
