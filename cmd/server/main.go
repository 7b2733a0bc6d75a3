package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"shareit/pkg/apperr"
	"shareit/pkg/config"
	"shareit/pkg/database"
	"shareit/pkg/dto"
	"shareit/pkg/logging"
	"shareit/pkg/metrics"
	"shareit/pkg/service"
)

type server struct {
	svc *service.Services
	db  *gorm.DB
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.ServiceServer)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging, cfg.App, config.ServiceServer)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logger.Info().Str("driver", cfg.Database.Driver).Str("host", cfg.Database.Host).Msg("starting shareit server")

	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	metrics.Register()
	gin.SetMode(cfg.HTTP.Mode)

	srv := &server{svc: service.New(db, *logger), db: db}
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.router(*logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Int("port", cfg.HTTP.Port).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func (s *server) router(logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(logger, dto.UserIDHeader), metrics.Middleware(config.ServiceServer))
	r.NoRoute(func(c *gin.Context) {
		apperr.Respond(c, apperr.NotFound("No handler for %s %s", c.Request.Method, c.Request.URL.Path))
	})

	users := r.Group("/users")
	users.POST("", s.createUser)
	users.GET("", s.listUsers)
	users.GET("/:id", s.getUser)
	users.PATCH("/:id", s.updateUser)
	users.DELETE("/:id", s.deleteUser)

	items := r.Group("/items")
	items.POST("", s.createItem)
	items.GET("", s.listOwnerItems)
	items.GET("/search", s.searchItems)
	items.GET("/:id", s.getItem)
	items.PATCH("/:id", s.updateItem)
	items.DELETE("/:id", s.deleteItem)
	items.POST("/:id/comment", s.addComment)

	bookings := r.Group("/bookings")
	bookings.POST("", s.createBooking)
	bookings.GET("", s.listBookerBookings)
	bookings.GET("/owner", s.listOwnerBookings)
	bookings.GET("/:id", s.getBooking)
	bookings.PATCH("/:id", s.confirmBooking)

	requests := r.Group("/requests")
	requests.POST("", s.createRequest)
	requests.GET("", s.listOwnRequests)
	requests.GET("/all", s.listOtherRequests)
	requests.GET("/:id", s.getRequest)

	r.GET("/manage/health", s.healthCheck)
	r.GET("/metrics", metrics.Handler())
	return r
}

func (s *server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := database.Ping(ctx, s.db); err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("database ping failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
