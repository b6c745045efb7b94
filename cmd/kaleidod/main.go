// Command kaleidod runs the ad period marketplace server.
//
// The daemon hosts the marketplace engine in memory and serves it over a
// JSON HTTP API. All state changes flow through a single facade; every
// operation emits a typed event that is logged and, when PostgreSQL is
// configured, journaled for off-engine consumers.
//
// # Configuration
//
// Settings come from an optional YAML file (--config) with KALEIDO_-prefixed
// environment variables layered on top. With no file and no environment the
// built-in defaults serve the API on :8080 and metrics on :9090.
//
// # Usage
//
//	go run ./cmd/kaleidod --config=config.yaml
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shuuuting95/kaleido-core/ad"
	"github.com/shuuuting95/kaleido-core/api/httpserver"
	"github.com/shuuuting95/kaleido-core/config"
	"github.com/shuuuting95/kaleido-core/events"
	"github.com/shuuuting95/kaleido-core/facade"
	"github.com/shuuuting95/kaleido-core/registry"
	"github.com/shuuuting95/kaleido-core/store"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg)

	sinks := []events.Sink{&events.SlogSink{Log: log}}
	if cfg.Postgres.Host != "" {
		journal, err := store.NewPostgresJournal(&cfg.Postgres, log)
		if err != nil {
			log.Error("Event journal unavailable", "err", err)
			os.Exit(1)
		}
		defer journal.Close()
		sinks = append(sinks, journal)
		log.Info("Event journal enabled", "host", cfg.Postgres.Host, "database", cfg.Postgres.Database)
	}

	market := facade.New(ad.SystemClock{}, &events.MultiSink{Sinks: sinks})
	logic := registry.NewLogicTable[*facade.Facade](cfg.LogicVersion, market)
	log.Info("Marketplace engine ready", "logicVersion", logic.Version())

	handler := httpserver.NewMarketHandler(logic.Resolve(ad.ZeroAccount), log)
	srv := httpserver.New(&httpserver.HTTPServerConfig{
		ListenAddr:               cfg.ListenAddr,
		MetricsAddr:              cfg.MetricsAddr,
		EnablePprof:              cfg.EnablePprof,
		Log:                      log,
		DrainDuration:            cfg.DrainDuration,
		GracefulShutdownDuration: cfg.GracefulShutdownDuration,
		ReadTimeout:              cfg.ReadTimeout,
		WriteTimeout:             cfg.WriteTimeout,
	}, handler)

	srv.RunInBackground()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down", "drainDuration", cfg.DrainDuration.String())
	time.Sleep(cfg.DrainDuration)
	srv.Shutdown()
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.LogDebug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
