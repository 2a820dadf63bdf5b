package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"financehub/cache"
	"financehub/confs"
	"financehub/db"
	"financehub/repositories"
)

const sweepInterval = 5 * time.Minute

// Run opens storage and the session store named by cfg and serves until the
// listener fails.
func Run(ctx context.Context, cfg confs.ServerConfig) error {
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if cfg.AnonKey == "" {
		slog.Warn("ANON_KEY is empty, API key check disabled")
	}

	repos, closeStorage, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	sessions, err := openSessions(ctx, cfg)
	if err != nil {
		return err
	}

	slog.Info("starting server", "addr", cfg.Addr, "storage", cfg.Storage, "reaction_policy", cfg.ReactionPolicy)
	return NewServer(cfg, repos, sessions).Start()
}

func openStorage(cfg confs.ServerConfig) (repositories.Repositories, func() error, error) {
	switch cfg.Storage {
	case confs.StorageMemory:
		slog.Warn("using in-memory storage, data is lost on restart")
		return repositories.NewMemoryStore(cfg.ReactionPolicy).Repositories(), func() error { return nil }, nil
	case confs.StoragePostgres:
		database, err := db.Connect(cfg.ReactionPolicy)
		if err != nil {
			return repositories.Repositories{}, nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		return repositories.NewPgRepositories(database), database.Close, nil
	}
	return repositories.Repositories{}, nil, fmt.Errorf("unknown STORAGE %q", cfg.Storage)
}

func openSessions(ctx context.Context, cfg confs.ServerConfig) (cache.SessionStore, error) {
	if cfg.RedisAddr != "" {
		return cache.NewRedisSessionStore(ctx, cfg.RedisAddr, cfg.RedisPassword)
	}
	store := cache.NewMemorySessionStore()
	store.StartSweeper(ctx, sweepInterval)
	return store, nil
}
