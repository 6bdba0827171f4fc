package worker

import (
	"context"
	"fmt"
	"time"

	"taskboard/internal/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DayStartSpec fires at local midnight, when "today" and the overdue set
// change.
const DayStartSpec = "0 0 0 * * *"

// Scheduler runs refreshes on cron schedules in the dashboard's zone.
type Scheduler struct {
	cron   *cron.Cron
	target Refresher
}

func NewScheduler(loc *time.Location, target Refresher) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithLogger(cronLogger{}),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
		),
		target: target,
	}
}

// ScheduleRefresh adds a refresh job on spec (six fields, with seconds).
func (s *Scheduler) ScheduleRefresh(spec string) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.target.Refresh(ctx); err != nil {
			logger.Warn("Worker: scheduled refresh failed", zap.String("spec", spec), zap.Error(err))
			return
		}
		logger.Info("Worker: scheduled refresh done", zap.String("spec", spec))
	})
	if err != nil {
		return 0, fmt.Errorf("scheduling %q: %w", spec, err)
	}
	return id, nil
}

// ScheduleDayStart refreshes once a day at local midnight.
func (s *Scheduler) ScheduleDayStart() (cron.EntryID, error) {
	return s.ScheduleRefresh(DayStartSpec)
}

func (s *Scheduler) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs or ctx, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// cronLogger routes cron's own messages into zap.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logger.Logger.Sugar().Debugw("Worker: cron "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logger.Logger.Sugar().Errorw("Worker: cron "+msg, append(keysAndValues, "error", err)...)
}
