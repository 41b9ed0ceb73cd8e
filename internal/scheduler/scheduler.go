package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"MarketPulse/internal/collector"
	"MarketPulse/internal/metrics"
	"MarketPulse/internal/model"
	"MarketPulse/internal/notifier"
	"MarketPulse/internal/recorder"
	"MarketPulse/internal/snapshot"
)

// retrier is implemented by notifiers that can retry delivery themselves.
type retrier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the fetch, analyze and publish cycle on a cron schedule.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Symbols   []string
	Store     *snapshot.Store
	Notifier  notifier.Notifier
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics
	Ctx       context.Context
	logger    zerolog.Logger

	// running is held for the duration of a cycle, whether started by cron or RunNow.
	running sync.Mutex
}

// NewScheduler creates a new Scheduler. Overlapping cycles are skipped, so a
// slow refresh never runs concurrently with the next one, including one
// started through RunNow.
func NewScheduler(ctx context.Context, col *collector.Collector, symbols []string, store *snapshot.Store,
	n notifier.Notifier, rec recorder.Recorder, m *metrics.Metrics) *Scheduler {
	logger := log.With().Str("component", "scheduler").Logger()
	cronLogger := cron.PrintfLogger(&logger)
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger))),
		Collector: col,
		Symbols:   symbols,
		Store:     store,
		Notifier:  n,
		Recorder:  rec,
		Metrics:   m,
		Ctx:       ctx,
		logger:    logger,
	}
}

// Register schedules the refresh cycle with a six-field cron expression.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.cycle); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Int("symbols", len(s.Symbols)).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RunNow executes one refresh cycle immediately (for manual trigger / RUN_ON_START).
// It reports false without doing anything when another cycle is in progress.
func (s *Scheduler) RunNow() bool {
	return s.runCycle()
}

func (s *Scheduler) cycle() {
	s.runCycle()
}

func (s *Scheduler) runCycle() bool {
	if !s.running.TryLock() {
		s.logger.Warn().Msg("refresh cycle already running, skipping")
		return false
	}
	defer s.running.Unlock()

	s.Metrics.CyclesTotal.Inc()
	s.logger.Info().Msg("running refresh cycle")
	failed := 0
	for _, sym := range s.Symbols {
		if s.Ctx.Err() != nil {
			return true
		}
		if err := s.refresh(sym); err != nil {
			failed++
			s.Metrics.FetchErrors.WithLabelValues(sym).Inc()
			s.logger.Error().Err(err).Str("symbol", sym).Msg("refresh failed")
		}
	}
	s.logger.Info().Int("symbols", len(s.Symbols)).Int("failed", failed).Msg("refresh cycle done")
	return true
}

func (s *Scheduler) refresh(symbol string) error {
	start := time.Now()
	a, err := s.Collector.Collect(s.Ctx, symbol)
	if err != nil {
		return err
	}
	s.Metrics.ComputeDuration.Observe(time.Since(start).Seconds())
	s.Metrics.ObserveAnalysis(a)

	entry := s.Store.Put(a)
	if err := s.Recorder.RecordSnapshot(recorder.SnapshotFromAnalysis(a)); err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("record snapshot")
	}

	if entry.Changed() {
		s.logger.Info().Str("symbol", symbol).
			Str("from", string(entry.Previous)).Str("to", string(a.Latest.Label)).
			Msg("signal changed")
		if err := s.Recorder.RecordSignalChange(&recorder.SignalChange{
			Symbol: symbol, BarTime: a.LastTime, From: entry.Previous, To: a.Latest.Label, Close: a.LastClose,
		}); err != nil {
			s.logger.Error().Err(err).Str("symbol", symbol).Msg("record signal change")
		}
		s.trySend(notifier.FormatSignalChange(a, entry.Previous))
	}
	return nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	name := strings.ToLower(fields[0])
	if at := strings.IndexByte(name, '@'); at > 0 {
		name = name[:at]
	}
	arg := ""
	if len(fields) > 1 {
		arg = strings.ToUpper(fields[1])
	}

	switch name {
	case "/signal", "/pivots":
		if arg == "" {
			return fmt.Sprintf("Usage: %s &lt;SYMBOL&gt;", name)
		}
		entry, ok := s.Store.Get(arg)
		if !ok {
			return fmt.Sprintf("No analysis for %s yet.", arg)
		}
		if name == "/pivots" {
			return notifier.FormatPivots(entry.Analysis)
		}
		return notifier.FormatReport(entry.Analysis)
	case "/symbols":
		order := s.Store.Symbols()
		labels := make(map[string]model.SignalLabel, len(order))
		for _, sym := range order {
			if e, ok := s.Store.Get(sym); ok {
				labels[sym] = e.Analysis.Latest.Label
			}
		}
		return notifier.FormatSymbols(labels, order)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	var err error
	if r, ok := s.Notifier.(retrier); ok {
		err = r.SendWithRetry(s.Ctx, text, 3)
	} else {
		err = s.Notifier.Send(s.Ctx, text)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("send notification")
	}
}
