package worker

import (
	"context"
	"time"

	"taskboard/internal/logger"

	"go.uber.org/zap"
)

// Refresher reloads dashboard data from the backend.
type Refresher interface {
	Refresh(context.Context) error
}

// RefreshWorker polls the backend on a fixed interval so notifications and
// task changes made by other users show up without user action.
type RefreshWorker struct {
	target   Refresher
	interval time.Duration
}

func NewRefreshWorker(target Refresher, interval *time.Duration) *RefreshWorker {
	var intervalToSet time.Duration
	if interval == nil || *interval <= 0 {
		intervalToSet = 30 * time.Second
	} else {
		intervalToSet = *interval
	}
	return &RefreshWorker{
		target:   target,
		interval: intervalToSet,
	}
}

func (w *RefreshWorker) Interval() time.Duration {
	return w.interval
}

// Start blocks until ctx is done.
func (w *RefreshWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: refresh loop stopping")
			return
		}
	}
}

func (w *RefreshWorker) Check(ctx context.Context) {
	start := time.Now()

	if err := w.target.Refresh(ctx); err != nil {
		logger.Warn("Worker: refresh failed", zap.Error(err))
		return
	}

	logger.Debug("Worker: refresh done", zap.Duration("ms", time.Since(start)))
}
