package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-relay/observability"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"chat-relay/storage"
	"chat-relay/storage/seed"
	"chat-relay/transport/rest"
	"chat-relay/transport/ws"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"golang.org/x/sync/errgroup"
)

var errConfig = errors.New("config error")

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		if errors.Is(err, errConfig) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// run owns every resource of the process so deferred cleanups run before
// main exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("%w: %w", errConfig, err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Store
	store, err := storage.Open(ctx, config.storage(), log)
	if err != nil {
		return fmt.Errorf("store opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing store...")
		_ = store.Close()
	}()

	if config.SeedFile != "" {
		file, err := seed.Load(config.SeedFile)
		if err != nil {
			return err
		}
		if _, err := seed.Apply(ctx, store, file, log); err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
	}

	// 3. Runtime
	registry := observability.NewRegistry()
	metrics := observability.NewMetrics(registry)
	monitoring := observability.NewMonitoringManager()
	jobs := make(chan workers.Job, config.PersistBufferSize)

	orchestrator := runtime.NewOrchestrator(log, store, jobs, metrics, monitoring)
	if err := orchestrator.Boot(ctx); err != nil {
		return fmt.Errorf("boot failed: %w", err)
	}

	// Workers outlive the listener so queued writes are flushed.
	workersCtx, stopWorkers := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWorkers()
	sup := workers.NewSupervisor(log).Add(
		workers.NewPersistWorker(log, jobs),
		workers.NewChannelCapacityWorker(log,
			[]workers.NamedChannel{{Name: "persist", Channel: jobs}},
			metrics, monitoring, config.MetricInterval, config.LowCapacityThreshold),
		workers.NewStatsWorker(log, metrics, monitoring, config.MetricInterval),
	)
	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		sup.Run(workersCtx)
	}()

	// 4. HTTP
	g, gctx := errgroup.WithContext(ctx)
	router := rest.NewRouter(log, rest.Dependencies{
		Channels:   services.NewChannelService(store, orchestrator.Synchronizer()),
		Users:      services.NewUserService(store, orchestrator.Synchronizer()),
		Monitoring: monitoring,
		CacheStats: orchestrator.CacheStats,
		Gatherer:   registry,
		Websocket: ws.NewHandler(gctx, log, orchestrator, ws.Config{
			AllowedOrigins: config.origins(),
			MaxMessageSize: config.MaxMessageSize,
			SendBufferSize: config.SendBufferSize,
		}),
	})
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g.Go(func() error {
		log.Info("Starting HTTP server", "address", server.Addr, "tls", config.tls(), "at", time.Now().UTC())
		var err error
		if config.tls() {
			err = server.ListenAndServeTLS(config.TLSCertFile, config.TLSKeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn("HTTP server shutdown error", "error", err)
		}
		waitForSessions(shutdownCtx, log, orchestrator)
		return nil
	})

	err = g.Wait()

	// 5. Final Cleanup
	stopWorkers()
	<-supervisorDone
	log.Info("Program stopped cleanly")
	return err
}

// waitForSessions gives closing sessions time to run their disconnect path
// before the persist worker stops.
func waitForSessions(ctx context.Context, log *slog.Logger, orchestrator *runtime.Orchestrator) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for orchestrator.Sessions() > 0 {
		select {
		case <-ctx.Done():
			log.Warn("Sessions still open at shutdown", "count", orchestrator.Sessions())
			return
		case <-ticker.C:
		}
	}
}
