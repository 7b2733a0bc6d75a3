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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"shareit/pkg/apperr"
	"shareit/pkg/circuitbreaker"
	"shareit/pkg/config"
	"shareit/pkg/dto"
	"shareit/pkg/logging"
	"shareit/pkg/metrics"
	"shareit/pkg/ratelimit"
)

// gateway validates incoming requests and forwards the valid ones to the
// server tier.
type gateway struct {
	serverURL string
	client    *http.Client
	breaker   *circuitbreaker.CircuitBreaker
	limiter   gin.HandlerFunc
	origins   []string
	now       func() time.Time
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gateway: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.ServiceGateway)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging, cfg.App, config.ServiceGateway)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var quota *ratelimit.Quota
	if cfg.Redis.Address != "" && cfg.RateLimit.PerUserLimit > 0 {
		client, err := ratelimit.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func(c *redis.Client) { _ = c.Close() }(client)
		quota = ratelimit.NewQuota(client, cfg.RateLimit.PerUserLimit, cfg.RateLimit.Window)
		logger.Info().Str("redis", cfg.Redis.Address).Int("limit", cfg.RateLimit.PerUserLimit).Msg("per-user quota enabled")
	}

	metrics.Register()
	gin.SetMode(cfg.HTTP.Mode)

	g := &gateway{
		serverURL: cfg.Gateway.ServerURL,
		client:    &http.Client{Timeout: cfg.Gateway.Timeout},
		breaker: circuitbreaker.NewCircuitBreakerWithWindow(
			cfg.Gateway.BreakerMaxFailures, cfg.Gateway.BreakerTimeout, cfg.Gateway.BreakerWindow),
		limiter: ratelimit.Middleware(ratelimit.NewGlobal(cfg.RateLimit), quota, dto.UserIDHeader),
		origins: cfg.Gateway.CORSOrigins,
		now:     time.Now,
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           g.router(*logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Int("port", cfg.HTTP.Port).Str("server_url", g.serverURL).Msg("gateway listening")
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

func (g *gateway) router(logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(logger, dto.UserIDHeader), metrics.Middleware(config.ServiceGateway), g.cors())
	r.NoRoute(func(c *gin.Context) {
		apperr.Respond(c, apperr.NotFound("No handler for %s %s", c.Request.Method, c.Request.URL.Path))
	})

	r.GET("/manage/health", g.healthCheck)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("")
	if g.limiter != nil {
		api.Use(g.limiter)
	}

	users := api.Group("/users")
	users.POST("", g.createUser)
	users.GET("", g.passThrough)
	users.GET("/:id", g.withID(g.passThrough))
	users.PATCH("/:id", g.withID(g.updateUser))
	users.DELETE("/:id", g.withID(g.passThrough))

	items := api.Group("/items")
	items.POST("", g.withCaller(g.createItem))
	items.GET("", g.withCaller(g.listPaged))
	items.GET("/search", g.withCaller(g.searchItems))
	items.GET("/:id", g.withCaller(g.withID(g.passThrough)))
	items.PATCH("/:id", g.withCaller(g.withID(g.updateItem)))
	items.DELETE("/:id", g.withCaller(g.withID(g.passThrough)))
	items.POST("/:id/comment", g.withCaller(g.withID(g.addComment)))

	bookings := api.Group("/bookings")
	bookings.POST("", g.withCaller(g.createBooking))
	bookings.GET("", g.withCaller(g.listBookings))
	bookings.GET("/owner", g.withCaller(g.listBookings))
	bookings.GET("/:id", g.withCaller(g.withID(g.passThrough)))
	bookings.PATCH("/:id", g.withCaller(g.withID(g.confirmBooking)))

	requests := api.Group("/requests")
	requests.POST("", g.withCaller(g.createRequest))
	requests.GET("", g.withCaller(g.passThrough))
	requests.GET("/all", g.withCaller(g.listPaged))
	requests.GET("/:id", g.withCaller(g.withID(g.passThrough)))

	return r
}

func (g *gateway) cors() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", dto.UserIDHeader, logging.RequestIDHeader},
		ExposeHeaders: []string{logging.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range g.origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		if len(g.origins) == 0 {
			cfg.AllowAllOrigins = true
		} else {
			cfg.AllowOrigins = g.origins
		}
	}
	return cors.New(cfg)
}

func (g *gateway) healthCheck(c *gin.Context) {
	state := g.breaker.GetState()
	status := "UP"
	if state == circuitbreaker.StateOpen {
		status = "DEGRADED"
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "server": state.String()})
}
