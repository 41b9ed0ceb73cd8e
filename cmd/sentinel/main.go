package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"MarketPulse/internal/api"
	"MarketPulse/internal/collector"
	"MarketPulse/internal/config"
	"MarketPulse/internal/logger"
	"MarketPulse/internal/metrics"
	"MarketPulse/internal/notifier"
	"MarketPulse/internal/recorder"
	"MarketPulse/internal/scheduler"
	"MarketPulse/internal/snapshot"
)

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	log.Info().Strs("symbols", cfg.DataSource.Symbols).Msg("MarketPulse starting")

	fetcher, err := collector.NewFetcher(collector.SourceOptions{
		Provider:       cfg.DataSource.Provider,
		BaseURL:        cfg.DataSource.BaseURL,
		APIKey:         cfg.DataSource.APIKey,
		CSVDir:         cfg.DataSource.CSVDir,
		ProxyURL:       cfg.Proxy,
		RequestsPerSec: cfg.DataSource.RequestsPerSec,
		MaxRetries:     cfg.DataSource.MaxRetries,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init fetcher")
	}
	log.Info().Str("source", fetcher.Name()).Msg("data source ready")
	col := collector.NewCollector(fetcher, cfg.Engine, cfg.DataSource.Interval, cfg.DataSource.Range)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	var (
		note notifier.Notifier = notifier.Noop{}
		tn   *notifier.TelegramNotifier
	)
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		note = tn
	} else {
		log.Info().Msg("telegram not configured, notifications disabled")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store := snapshot.NewStore()
	m := metrics.New()

	sched := scheduler.NewScheduler(ctx, col, cfg.DataSource.Symbols, store, note, rec, m)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatal().Err(err).Msg("register cron task")
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	if cfg.Schedule.RunOnStart {
		log.Info().Msg("run_on_start enabled, executing refresh now")
		go sched.RunNow()
	}

	srv := api.NewServer(cfg.HTTP.Addr, store, rec, m, cfg.Log.Level == "debug")
	log.Info().Msg("MarketPulse is running. Press Ctrl+C to stop.")
	if err := srv.Start(ctx); err != nil {
		log.Error().Err(err).Msg("http server")
		cancel()
	}

	log.Info().Msg("MarketPulse stopped")
}
