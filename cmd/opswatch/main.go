package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/config"
	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/metrics"
	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/notify"
	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/storeclient"
	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/watcher"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("FIELDSVC_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Watcher.APIBaseURL == "" {
		logger.Fatal().Msg("set watcher.api_base_url in config")
	}

	client := storeclient.New(cfg.Watcher.APIBaseURL, cfg.Watcher.APIKey)
	if cfg.Redis.Address != "" && cfg.Watcher.CacheTTLSeconds > 0 {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		client.UseRedisCache(rdb, cfg.WatcherCacheTTL())
	}

	var notifier notify.Notifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.DispatcherChatID != 0 {
		tg, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.DispatcherChatID, &logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("create telegram notifier error")
		}
		notifier = tg
	} else {
		logger.Info().Msg("telegram not configured; alerts disabled")
	}

	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watcher.New(client, notifier, watcher.Config{
		Schedule:           cfg.Watcher.Schedule,
		AwaitingPartsAlert: cfg.Watcher.AwaitingPartsAlert,
		ReportPath:         cfg.Watcher.ReportPath,
		ReportSchedule:     cfg.Watcher.ReportSchedule,
	}, &logger)

	if err := w.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ops watcher error")
	}
}
