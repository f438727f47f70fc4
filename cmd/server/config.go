package main

import (
	"strings"
	"time"

	"chat-relay/storage"
)

type Config struct {
	Host                 string        `env:"HOST,default=localhost"`
	Port                 int           `env:"PORT,default=8080"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	StoreDriver          string        `env:"STORE_DRIVER,default=badger"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,default=./data/badger"`
	SQLiteFilepath       string        `env:"SQLITE_FILEPATH,default=./data/chat.db"`
	SeedFile             string        `env:"SEED_FILE"`
	AllowedOrigins       string        `env:"ALLOWED_ORIGINS"`
	MaxMessageSize       int64         `env:"MAX_MESSAGE_SIZE,default=8192"`
	SendBufferSize       int           `env:"SEND_BUFFER_SIZE,default=256"`
	PersistBufferSize    int           `env:"PERSIST_BUFFER_SIZE,default=1024"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=10s"`
	LowCapacityThreshold int           `env:"LOW_CAPACITY_THRESHOLD,default=80"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	TLSCertFile          string        `env:"TLS_CERT_FILE"`
	TLSKeyFile           string        `env:"TLS_KEY_FILE"`
}

func (c Config) storage() storage.Config {
	return storage.Config{
		Driver:     storage.Driver(c.StoreDriver),
		BadgerPath: c.BadgerFilepath,
		SQLitePath: c.SQLiteFilepath,
	}
}

// origins splits ALLOWED_ORIGINS on commas. Empty means any origin.
func (c Config) origins() []string {
	if strings.TrimSpace(c.AllowedOrigins) == "" {
		return nil
	}
	return strings.Split(c.AllowedOrigins, ",")
}

func (c Config) tls() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}
