package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/api"
	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/calendar"
	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/config"
	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/metrics"
	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/store"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("FIELDSVC_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	st, err := store.Open(cfg.Database.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open store error")
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	grid := calendar.DefaultGridConfig()
	if cfg.Calendar.HourHeight > 0 {
		grid.HourHeight = cfg.Calendar.HourHeight
	}
	if cfg.Calendar.MinEventHeight > 0 {
		grid.MinEventHeight = cfg.Calendar.MinEventHeight
	}

	server := api.NewHTTPServer(st, api.Config{
		Port:   cfg.Server.Port,
		APIKey: cfg.Server.APIKey,
		Grid:   grid,
	}, &logger)

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, st, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	if cfg.Backup.Enabled {
		go startBackupLoop(ctx, st, cfg, &logger)
	}

	logger.Info().Msg("field service daemon started")
	if err := server.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("API server error")
	}
}

func startBackupLoop(ctx context.Context, st *store.Store, cfg *config.Config, logger *zerolog.Logger) {
	if cfg.Backup.Path == "" {
		cfg.Backup.Path = "backups"
	}

	if err := os.MkdirAll(cfg.Backup.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("failed to create backup directory")
		return
	}

	// Run first backup after a short delay
	select {
	case <-time.After(1 * time.Minute):
		runBackupTask(st, cfg, logger)
	case <-ctx.Done():
		return
	}

	ticker := time.NewTicker(cfg.BackupInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			runBackupTask(st, cfg, logger)
		case <-ctx.Done():
			return
		}
	}
}

func runBackupTask(st *store.Store, cfg *config.Config, logger *zerolog.Logger) {
	timestamp := time.Now().Format("20060102_150405")
	dest := filepath.Join(cfg.Backup.Path, fmt.Sprintf("fieldsvc_%s.db", timestamp))

	logger.Info().Str("path", dest).Msg("starting database backup")
	if err := st.Backup(dest); err != nil {
		logger.Error().Err(err).Msg("backup failed")
	} else {
		logger.Info().Msg("backup completed successfully")
	}

	deleted, err := st.CleanupBackups(cfg.Backup.Path, cfg.BackupRetention())
	if err != nil {
		logger.Error().Err(err).Msg("backup cleanup failed")
	} else if deleted > 0 {
		logger.Info().Int("deleted", deleted).Msg("cleaned up old backups")
	}
}

func startHealthServer(ctx context.Context, port int, st *store.Store, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := st.PingContext(ctxPing); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
