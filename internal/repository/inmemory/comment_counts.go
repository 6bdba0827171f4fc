package inmemory

import "sync"

// CommentCounts tracks task id -> number of comments for the list view.
type CommentCounts struct {
	counts map[int64]int
	mtx    sync.RWMutex
}

func NewCommentCounts() *CommentCounts {
	return &CommentCounts{counts: make(map[int64]int)}
}

func (c *CommentCounts) Replace(counts map[int64]int) {
	next := make(map[int64]int, len(counts))
	for id, n := range counts {
		next[id] = n
	}
	c.mtx.Lock()
	c.counts = next
	c.mtx.Unlock()
}

func (c *CommentCounts) Set(taskID int64, n int) {
	c.mtx.Lock()
	c.counts[taskID] = n
	c.mtx.Unlock()
}

// Get returns 0 for tasks whose count failed to load.
func (c *CommentCounts) Get(taskID int64) int {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return c.counts[taskID]
}
