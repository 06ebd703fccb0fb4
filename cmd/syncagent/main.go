// Command syncagent runs on field devices. It drains the local offline
// mutation queue into the record store whenever connectivity is back.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bizfolio/bizfolio-api/internal/config"
	"github.com/bizfolio/bizfolio-api/pkg/offlinequeue"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.App.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.App.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	queue, err := offlinequeue.Open(cfg.OfflineQueue.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.OfflineQueue.Path).Msg("failed to open offline queue")
	}
	defer queue.Close()

	sender := offlinequeue.NewHTTPSender(cfg.OfflineQueue.ServerURL, cfg.OfflineQueue.Token)
	monitor := offlinequeue.NewMonitor(queue, sender, cfg.OfflineQueue.ServerURL+"/health", cfg.OfflineQueue.SyncInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("queue", cfg.OfflineQueue.Path).
		Str("server", cfg.OfflineQueue.ServerURL).
		Dur("interval", cfg.OfflineQueue.SyncInterval).
		Msg("sync agent started")

	monitor.Run(ctx)
	log.Info().Msg("sync agent stopped")
}
