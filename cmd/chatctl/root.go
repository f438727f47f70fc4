package main

import (
	"context"
	"fmt"
	"log/slog"

	"chat-relay/contract"
	"chat-relay/storage"

	"github.com/Netflix/go-env"
	"github.com/mama165/sdk-go/logs"
	"github.com/spf13/cobra"
)

// Config mirrors the store settings of the server so both read the same
// environment.
type Config struct {
	LogLevel       string `env:"LOG_LEVEL,default=WARN"`
	StoreDriver    string `env:"STORE_DRIVER,default=badger"`
	BadgerFilepath string `env:"BADGER_FILEPATH,default=./data/badger"`
	SQLiteFilepath string `env:"SQLITE_FILEPATH,default=./data/chat.db"`
}

type RootOptions struct {
	Driver   string
	Path     string
	LogLevel string
}

func NewRootCommand() *cobra.Command {
	var config Config
	_, _ = env.UnmarshalFromEnviron(&config)
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "chatctl",
		Short:         "Administer the chat relay store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", config.StoreDriver, "store driver (badger|sqlite)")
	cmd.PersistentFlags().StringVar(&opts.Path, "path", "", "store path, defaults to BADGER_FILEPATH or SQLITE_FILEPATH")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", config.LogLevel, "log level")

	cmd.AddCommand(NewSeedCommand(opts, config))
	cmd.AddCommand(NewInspectCommand(opts, config))
	return cmd
}

func (o *RootOptions) logger() *slog.Logger {
	return logs.GetLoggerFromString(o.LogLevel)
}

// open resolves the store from flags first, then the environment.
func (o *RootOptions) open(ctx context.Context, config Config) (contract.Store, error) {
	cfg := storage.Config{
		Driver:     storage.Driver(o.Driver),
		BadgerPath: config.BadgerFilepath,
		SQLitePath: config.SQLiteFilepath,
	}
	if o.Path != "" {
		cfg.BadgerPath = o.Path
		cfg.SQLitePath = o.Path
	}
	if cfg.Driver == storage.Memory {
		return nil, fmt.Errorf("the memory driver keeps nothing between runs")
	}
	return storage.Open(ctx, cfg, o.logger())
}
