// Package api serves the latest analyses over a read-only JSON API.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"MarketPulse/internal/metrics"
	"MarketPulse/internal/recorder"
	"MarketPulse/internal/snapshot"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 1000
)

// HistoryReader reads recorded snapshots, newest first.
type HistoryReader interface {
	History(symbol string, limit int) ([]recorder.SignalSnapshot, error)
}

// Server wraps the gin engine and its http.Server.
type Server struct {
	server *http.Server
	router *gin.Engine
	store   *snapshot.Store
	history HistoryReader
	logger  zerolog.Logger
}

// NewServer builds the router. history and m may be nil, in which case
// /api/v1/history and /metrics are not mounted.
func NewServer(addr string, store *snapshot.Store, history HistoryReader, m *metrics.Metrics, debug bool) *Server {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		store:   store,
		history: history,
		logger:  log.With().Str("component", "api").Logger(),
	}
	s.router = gin.New()
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.routes(m)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes(m *metrics.Metrics) {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m != nil {
		s.router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	v1 := s.router.Group("/api/v1")
	v1.GET("/symbols", s.handleSymbols)
	v1.GET("/analysis/:symbol", s.handleAnalysis)
	v1.GET("/analysis/:symbol/latest", s.handleLatest)
	if s.history != nil {
		v1.GET("/history/:symbol", s.handleHistory)
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.server.Addr).Msg("http server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info().Msg("http server stopped")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) handleSymbols(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"symbols": s.store.Symbols()})
}

func (s *Server) handleLatest(c *gin.Context) {
	entry, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newLatest(entry.Analysis, entry.UpdatedAt))
}

func (s *Server) handleAnalysis(c *gin.Context) {
	tail := 0
	if v := c.Query("tail"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tail must be a non-negative integer"})
			return
		}
		tail = n
	}
	entry, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newAnalysis(entry.Analysis, entry.UpdatedAt, tail))
}

func (s *Server) lookup(c *gin.Context) (snapshot.Entry, bool) {
	symbol := strings.ToUpper(c.Param("symbol"))
	entry, ok := s.store.Get(symbol)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no analysis for symbol " + symbol})
		return snapshot.Entry{}, false
	}
	return entry, true
}

func (s *Server) handleHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}
	symbol := strings.ToUpper(c.Param("symbol"))
	snaps, err := s.history.History(symbol, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("read history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history unavailable"})
		return
	}
	c.JSON(http.StatusOK, newHistory(symbol, snaps))
}
