// Package storage selects and opens the persistent store adapter.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"chat-relay/contract"
	"chat-relay/errors"
	"chat-relay/storage/kv"
	"chat-relay/storage/memory"
	"chat-relay/storage/sqlite"
)

type Driver string

const (
	Badger Driver = "badger"
	SQLite Driver = "sqlite"
	Memory Driver = "memory"
)

type Config struct {
	Driver     Driver
	BadgerPath string
	SQLitePath string
}

// Open returns the store named by cfg.Driver. The caller closes it.
func Open(ctx context.Context, cfg Config, log *slog.Logger) (contract.Store, error) {
	switch cfg.Driver {
	case Badger:
		log.Info("Opening badger store", "path", cfg.BadgerPath)
		store, err := kv.Open(cfg.BadgerPath, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	case SQLite:
		log.Info("Opening sqlite store", "path", cfg.SQLitePath)
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case Memory:
		log.Warn("Using the in-memory store, nothing will be persisted")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownDriver, cfg.Driver)
	}
}
