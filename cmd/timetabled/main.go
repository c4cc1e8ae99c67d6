package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/AquaCheese/timetable/internal/app"
	"github.com/AquaCheese/timetable/internal/config"
	"github.com/AquaCheese/timetable/internal/deliver"
	"github.com/AquaCheese/timetable/internal/notify"
	"github.com/AquaCheese/timetable/internal/store"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("TIMETABLE_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	st, err := openStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("open store error")
	}
	defer st.Close()

	sink, perm, err := buildDelivery(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("delivery setup error")
	}

	schedOpts := []notify.SchedulerOption{}
	if cfg.Monitoring.PrometheusEnabled {
		schedOpts = append(schedOpts, notify.WithMetrics(notify.NewMetrics("timetable")))
	}
	scheduler := notify.NewScheduler(perm, sink, logger, schedOpts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Authenticate the delivery surface up front so the initial re-arm pass
	// sees a granted permission. Failure is not fatal: arming stays
	// suppressed until a later request succeeds.
	if p, err := perm.Request(ctx); err != nil {
		logger.Warn().Err(err).Msg("notification permission request failed")
	} else {
		logger.Info().Str("permission", string(p)).Msg("notification delivery ready")
	}

	a := app.New(st, scheduler, perm, sink, logger)
	a.Load(ctx)

	// Armed triggers only cover today plus one week ahead, so a daily
	// pass keeps the window rolling.
	c := cron.New()
	if _, err := c.AddFunc(cfg.Refresh.Cron, a.RearmNow); err != nil {
		logger.Fatal().Err(err).Str("cron", cfg.Refresh.Cron).Msg("invalid refresh schedule")
	}
	c.Start()

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, st, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	logger.Info().Str("storage", cfg.Storage.Driver).Msg("timetabled started")
	<-ctx.Done()

	cronCtx := c.Stop()
	<-cronCtx.Done()
	scheduler.CancelAll()

	saveCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := a.Save(saveCtx); err != nil {
		logger.Error().Err(err).Msg("final save failed")
	}
	logger.Info().Msg("timetabled stopped")
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		return store.NewSQLiteStore(cfg.Storage.Path)
	case "redis":
		return store.NewRedisStore(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB), nil
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// buildDelivery picks the notification sink. With Telegram credentials the
// sink doubles as the permission source (permission = authenticated bot);
// without them notifications go to the log and permission is always
// granted, which keeps local runs useful.
func buildDelivery(cfg *config.Config, logger zerolog.Logger) (notify.Sink, notify.PermissionSource, error) {
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		tg, err := deliver.NewTelegramSink(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger)
		if err != nil {
			return nil, nil, err
		}
		return tg, tg, nil
	}
	ls := deliver.NewLogSink(logger)
	return ls, ls, nil
}

func startHealthServer(ctx context.Context, port int, st store.Store, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := st.Ping(ctxPing); err != nil {
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
