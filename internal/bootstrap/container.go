// Package bootstrap wires the application's components together the
// way the teacher's pkg/components.Container does: config, logging,
// the store, the event publisher, the rate limiter, and the HTTP
// server, built once at process start and torn down on shutdown.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"

	"wallet-core/internal/api/routes"
	"wallet-core/internal/config"
	"wallet-core/internal/engine"
	"wallet-core/internal/events"
	"wallet-core/internal/events/kafka"
	"wallet-core/internal/logging"
	"wallet-core/internal/ratelimit"
	"wallet-core/internal/reporter"
	"wallet-core/internal/store"
	"wallet-core/internal/store/postgres"
)

// Container holds every long-lived component the API needs, and
// implements handlers.Dependencies so routes can be registered
// directly against it.
type Container struct {
	Config    *config.Config
	Store     store.Store
	Engine    *engine.Engine
	Reporter  *reporter.Reporter
	Publisher events.Publisher
	Limiter   *ratelimit.Limiter
	Router    *gin.Engine
	Server    *http.Server

	pgStore     *postgres.Store
	redisClient *goredis.Client
}

// New builds and wires a Container from the process environment.
func New(ctx context.Context) (*Container, error) {
	c := &Container{}

	c.Config = config.Load()
	logging.Init(c.Config)
	logging.Info("configuration loaded", map[string]interface{}{"environment": c.Config.Environment})

	if err := c.initStore(ctx); err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	c.Engine = engine.New(c.Store)
	c.Reporter = reporter.New(c.Store)

	if err := c.initPublisher(); err != nil {
		return nil, fmt.Errorf("init event publisher: %w", err)
	}

	if err := c.initRateLimiter(); err != nil {
		return nil, fmt.Errorf("init rate limiter: %w", err)
	}

	c.initServer()

	logging.Info("container initialized", nil)
	return c, nil
}

func (c *Container) initStore(ctx context.Context) error {
	dbCfg := postgres.FromAppConfig(c.Config.Database)

	if err := postgres.RunMigrations(dbCfg, c.Config.Database.MigrationsPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	pgStore, err := postgres.New(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	c.pgStore = pgStore
	c.Store = pgStore
	logging.Info("postgres store initialized", map[string]interface{}{
		"host":     c.Config.Database.Host,
		"database": c.Config.Database.Name,
	})
	return nil
}

func (c *Container) initPublisher() error {
	if !c.Config.Kafka.Enabled {
		logging.Info("kafka disabled, using no-op event publisher", nil)
		c.Publisher = &events.NoOpPublisher{}
		return nil
	}

	kafkaCfg := kafka.FromAppConfig(c.Config.Kafka)
	producer, err := kafka.NewProducer(kafkaCfg)
	if err != nil {
		logging.Warn("failed to initialize kafka producer, falling back to no-op publisher", map[string]interface{}{"error": err.Error()})
		c.Publisher = &events.NoOpPublisher{}
		return nil
	}

	c.Publisher = kafka.NewPublisher(producer)
	logging.Info("kafka event publisher initialized", map[string]interface{}{"brokers": kafkaCfg.Brokers})
	return nil
}

func (c *Container) initRateLimiter() error {
	if !c.Config.Redis.Enabled {
		logging.Info("redis disabled, rate limiting is a no-op", nil)
		return nil
	}

	c.redisClient = goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%d", c.Config.Redis.Host, c.Config.Redis.Port),
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})

	c.Limiter = ratelimit.New(c.redisClient, int64(c.Config.RateLimit.RequestsPerMinute), c.Config.RateLimit.Window)
	logging.Info("redis rate limiter initialized", map[string]interface{}{
		"requests_per_minute": c.Config.RateLimit.RequestsPerMinute,
	})
	return nil
}

func (c *Container) initServer() {
	if c.Config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	c.Router = gin.New()
	c.Router.Use(gin.Recovery())

	routes.Register(c.Router, c, c.Config, c.Limiter)

	c.Server = &http.Server{
		Addr:           ":" + c.Config.Server.Port,
		Handler:        c.Router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then
// shuts everything down gracefully.
func (c *Container) Run() error {
	go func() {
		logging.Info("starting http server", map[string]interface{}{"address": c.Server.Addr})
		if err := c.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("server failed to start", err, nil)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("shutting down", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return c.Shutdown(ctx)
}

// Shutdown gracefully stops the server and closes downstream clients.
func (c *Container) Shutdown(ctx context.Context) error {
	if err := c.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if err := c.Publisher.Close(); err != nil {
		logging.Error("failed to close event publisher", err, nil)
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			logging.Error("failed to close redis client", err, nil)
		}
	}

	if c.pgStore != nil {
		c.pgStore.Close()
	}

	logging.Info("shutdown complete", nil)
	logging.Sync()
	return nil
}

// GetEngine implements handlers.Dependencies.
func (c *Container) GetEngine() *engine.Engine { return c.Engine }

// GetReporter implements handlers.Dependencies.
func (c *Container) GetReporter() *reporter.Reporter { return c.Reporter }

// GetEventPublisher implements handlers.Dependencies.
func (c *Container) GetEventPublisher() events.Publisher { return c.Publisher }

// GetStore implements handlers.Dependencies.
func (c *Container) GetStore() store.Store { return c.Store }
