package main

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/diewo77/go-profiles/internal/config"
	"github.com/diewo77/go-profiles/internal/db"
	"github.com/diewo77/go-profiles/internal/events"
	"github.com/diewo77/go-profiles/internal/observability"
	"github.com/diewo77/go-profiles/internal/policy"
	"github.com/diewo77/go-profiles/internal/services"
)

// app wires configuration, storage and services for one command run.
type app struct {
	cfg      *config.Config
	logger   *logrus.Logger
	db       *gorm.DB
	bus      *events.Bus
	redis    *redis.Client
	registry *prometheus.Registry
	metrics  *observability.Metrics
	gate     *policy.AuthGate
	profiles *services.ProfileService
	users    *services.UserProfileService
}

func newApp(ctx context.Context, logOut io.Writer, envFiles ...string) (*app, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	logger := config.NewLogger(cfg.Log, logOut)

	conn, err := db.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		db:       conn,
		bus:      events.NewBus(),
		registry: prometheus.NewRegistry(),
	}
	a.metrics = observability.NewMetrics(a.registry)
	a.gate = policy.NewAuthGate(conn, cfg.Cache.Size, cfg.Cache.TTL)
	a.gate.Listen(a.bus)

	dispatchers := events.Multi{a.bus}
	if cfg.Redis.Addr != "" {
		client, err := events.Dial(ctx, cfg.Redis.Addr)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		dispatchers = append(dispatchers, events.NewRedisPublisher(client, cfg.Redis.Channel))
		logger.WithField("channel", cfg.Redis.Channel).Debug("publishing profile events to redis")
	}

	a.profiles = services.NewProfileService(conn,
		services.WithDispatcher(dispatchers),
		services.WithLogger(logger),
		services.WithMetrics(a.metrics),
		services.WithDefaultLocale(cfg.DefaultLocale),
	)
	a.users = services.NewUserProfileService(conn, a.gate, logger, a.metrics)
	return a, nil
}

// Close releases the database and redis connections.
func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.WithError(err).Warn("close redis")
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// writeMetrics dumps the registry in the text exposition format.
func (a *app) writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, a.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
