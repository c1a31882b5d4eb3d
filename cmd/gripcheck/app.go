package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"

	"github.com/erazemk/gripcheck/internal/company"
	"github.com/erazemk/gripcheck/internal/config"
	"github.com/erazemk/gripcheck/internal/crew"
	"github.com/erazemk/gripcheck/internal/db"
	"github.com/erazemk/gripcheck/internal/inventory"
	"github.com/erazemk/gripcheck/internal/notify"
	"github.com/erazemk/gripcheck/internal/store"
	"github.com/erazemk/gripcheck/internal/validate"
)

// services are the domain components every command needs.
type services struct {
	engine    *inventory.Engine
	crew      *crew.Directory
	company   *company.Profile
	validator *validate.Validator

	close func()
}

// openKV opens the document backend selected by cfg.
func openKV(ctx context.Context, cfg config.StorageConfig) (store.KV, func(), error) {
	switch cfg.Driver {
	case config.DriverMemory:
		slog.Warn("using in-memory storage, changes will not survive a restart")
		return store.NewMemoryKV(), func() {}, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
		}
		slog.Info("storage ready", "driver", cfg.Driver, "addr", cfg.RedisAddr)
		return store.NewRedisKV(client, cfg.KeyPrefix), func() { client.Close() }, nil
	}

	database, err := db.Open(cfg.Path)
	if err != nil {
		return nil, nil, err
	}
	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("ensuring database schema: %w", err)
	}
	slog.Info("storage ready", "driver", cfg.Driver, "path", cfg.Path)
	return &store.SQLiteKV{DB: database}, func() { database.Close() }, nil
}

// openServices loads every persisted document and wires the domain
// components. Toasts go to notifier.
func openServices(ctx context.Context, cfg *config.Config, notifier notify.Notifier) (*services, error) {
	kv, closeKV, err := openKV(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	v := validate.New()
	return &services{
		engine:    inventory.New(store.NewEquipmentRepo(ctx, kv), notifier),
		crew:      crew.NewDirectory(store.NewCrewRepo(ctx, kv), v),
		company:   company.NewProfile(store.NewCompanyRepo(ctx, kv), v, notifier),
		validator: v,
		close:     closeKV,
	}, nil
}
