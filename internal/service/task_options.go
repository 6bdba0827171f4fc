package service

import "time"

type Option func(*TaskService)

// WithClock replaces time.Now, used by the past-due check.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone the form's wall-clock values are read in.
func WithLocation(loc *time.Location) Option {
	return func(s *TaskService) {
		if loc != nil {
			s.loc = loc
		}
	}
}
