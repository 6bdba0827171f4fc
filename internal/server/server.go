// Package server assembles the local dashboard service: router, background
// refresh and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taskboard/internal/app"
	"taskboard/internal/config"
	"taskboard/internal/handlers"
	"taskboard/internal/logger"
	"taskboard/internal/worker"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	config    *config.Config
	server    *http.Server
	router    http.Handler
	dashboard *app.App
	worker    *worker.RefreshWorker
	scheduler *worker.Scheduler
	shutdowns []func() // run in reverse order on shutdown
}

func New(cfg *config.Config, dashboard *app.App) *Server {
	return &Server{
		config:    cfg,
		dashboard: dashboard,
		shutdowns: make([]func(), 0),
	}
}

// Init wires handlers, the refresh worker and the day-start scheduler. The
// dashboard must already be initialised.
func (s *Server) Init(ctx context.Context) error {
	loc, err := s.config.Location()
	if err != nil {
		return err
	}

	h := handlers.NewDashboardHandler(s.dashboard)
	s.router = handlers.NewRouter(&h, handlers.RouterConfig{
		RateLimit:   s.config.Server.RateLimit,
		Burst:       s.config.Server.Burst,
		CORSOrigins: s.config.Server.CORSOrigins,
	})

	interval := s.config.Refresh.NotificationsInterval
	s.worker = worker.NewRefreshWorker(s.dashboard, &interval)

	s.scheduler = worker.NewScheduler(loc, s.dashboard)
	if _, err := s.scheduler.ScheduleDayStart(); err != nil {
		return fmt.Errorf("scheduling day start refresh: %w", err)
	}

	s.server = &http.Server{
		Addr:              s.config.GetServerAddr(),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.shutdowns = append(s.shutdowns, func() {
		logger.Info("Server: flushing logs")
		logger.Sync()
	})
	return nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Addr() string {
	return s.config.GetServerAddr()
}

// Run serves until ctx is cancelled or the listener fails, then shuts down
// the HTTP server and background jobs.
func (s *Server) Run(ctx context.Context) error {
	if s.server == nil {
		return errors.New("server is not initialised")
	}

	jobs, stopJobs := context.WithCancel(ctx)
	go s.worker.Start(jobs)
	s.scheduler.Start()
	s.shutdowns = append(s.shutdowns, stopJobs, func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.scheduler.Stop(stopCtx)
	})

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("Server: listening", zap.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Server: shutting down")
	case err, ok := <-listenErr:
		if ok {
			runErr = fmt.Errorf("listening on %s: %w", s.server.Addr, err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server: shutdown failed", err)
	}
	for i := len(s.shutdowns) - 1; i >= 0; i-- {
		s.shutdowns[i]()
	}
	return runErr
}
