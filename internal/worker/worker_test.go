package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"taskboard/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) Refresh(context.Context) error {
	r.calls.Add(1)
	return r.err
}

func TestRefreshWorker_DefaultInterval(t *testing.T) {
	w := worker.NewRefreshWorker(&countingRefresher{}, nil)
	assert.Equal(t, 30*time.Second, w.Interval())

	zero := time.Duration(0)
	w = worker.NewRefreshWorker(&countingRefresher{}, &zero)
	assert.Equal(t, 30*time.Second, w.Interval())
}

func TestRefreshWorker_Check(t *testing.T) {
	r := &countingRefresher{err: errors.New("backend down")}
	w := worker.NewRefreshWorker(r, nil)

	w.Check(context.Background())

	assert.EqualValues(t, 1, r.calls.Load())
}

// TestRefreshWorker_Start тестирует периодический опрос и остановку
func TestRefreshWorker_Start(t *testing.T) {
	r := &countingRefresher{}
	interval := 10 * time.Millisecond
	w := worker.NewRefreshWorker(r, &interval)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return r.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestScheduler_DayStart(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	s := worker.NewScheduler(loc, &countingRefresher{})

	id, err := s.ScheduleDayStart()
	require.NoError(t, err)

	s.Start()
	defer s.Stop(context.Background())

	next := s.Next(id).In(loc)
	assert.Zero(t, next.Hour())
	assert.Zero(t, next.Minute())
	assert.True(t, next.After(time.Now()))
}

func TestScheduler_RunsJobs(t *testing.T) {
	r := &countingRefresher{}
	s := worker.NewScheduler(time.UTC, r)

	_, err := s.ScheduleRefresh("@every 1s")
	require.NoError(t, err)
	s.Start()
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestScheduler_BadSpec(t *testing.T) {
	s := worker.NewScheduler(time.UTC, &countingRefresher{})

	_, err := s.ScheduleRefresh("every day")

	assert.Error(t, err)
}
