package app

import (
	"context"

	"taskboard/internal/logger"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

type commentCount struct {
	taskID int64
	count  int
	err    error
}

// refreshCommentCounts fetches the comment list of every task with at most
// a.workers requests in flight. Failed tasks keep a zero count. The result
// belongs to task generation gen and is dropped once a newer snapshot is held.
func (a *App) refreshCommentCounts(ctx context.Context, gen uint64, ids []int64) {
	p := pool.NewWithResults[commentCount]().WithMaxGoroutines(a.workers)
	for _, id := range ids {
		p.Go(func() commentCount {
			list, err := a.backend.ListComments(ctx, id)
			return commentCount{taskID: id, count: len(list), err: err}
		})
	}

	counts := make(map[int64]int, len(ids))
	failed := 0
	for _, res := range p.Wait() {
		if res.err != nil {
			failed++
			continue
		}
		counts[res.taskID] = res.count
	}
	a.countsMtx.Lock()
	if current := a.tasks.Generation(); current != gen {
		a.countsMtx.Unlock()
		logger.Info("Service: stale comment counts discarded",
			zap.Uint64("generation", gen),
			zap.Uint64("current", current))
		return
	}
	a.counts.Replace(counts)
	a.countsMtx.Unlock()

	if failed > 0 {
		logger.Warn("Service: comment counts incomplete",
			zap.Int("tasks", len(ids)),
			zap.Int("failed", failed))
	}
}

// CommentCount is the number of comments last seen for taskID.
func (a *App) CommentCount(taskID int64) int {
	return a.counts.Get(taskID)
}

func (a *App) refreshCommentCount(ctx context.Context, taskID int64) {
	if taskID == 0 {
		return
	}
	list, err := a.backend.ListComments(ctx, taskID)
	if err != nil {
		logger.Warn("Service: comment count refresh failed", zap.Int64("task_id", taskID), zap.Error(err))
		return
	}
	a.counts.Set(taskID, len(list))
}
