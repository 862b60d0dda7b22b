package memhost

import (
	"time"

	"github.com/vango-dev/fiber/pkg/host"
)

// Scheduler is a host.IdleScheduler stepped by the caller.
type Scheduler struct {
	queue []func(host.Deadline)
	runs  int
}

var _ host.IdleScheduler = (*Scheduler)(nil)

// NewScheduler creates an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// RequestIdleCallback implements host.IdleScheduler.
func (s *Scheduler) RequestIdleCallback(cb func(host.Deadline)) {
	s.queue = append(s.queue, cb)
}

// Pending returns the number of queued callbacks.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// Runs returns the number of callbacks run so far.
func (s *Scheduler) Runs() int {
	return s.runs
}

// Step runs the callbacks queued before the call, each with d.
// Callbacks requested while stepping wait for the next Step.
// It returns the number of callbacks run.
func (s *Scheduler) Step(d host.Deadline) int {
	batch := s.queue
	s.queue = nil
	for _, cb := range batch {
		s.runs++
		cb(d)
	}
	return len(batch)
}

// RunUntil steps with deadlines from next until done reports true or max
// steps ran. It returns the number of steps.
func (s *Scheduler) RunUntil(done func() bool, next func() host.Deadline, max int) int {
	steps := 0
	for steps < max && !done() {
		if s.Step(next()) == 0 {
			break
		}
		steps++
	}
	return steps
}

// Budget returns a deadline factory whose deadlines allow n checks with
// ample time remaining and report no time afterwards.
func Budget(n int) func() host.Deadline {
	return func() host.Deadline {
		left := n
		return host.DeadlineFunc(func() time.Duration {
			if left <= 0 {
				return 0
			}
			left--
			return time.Hour
		})
	}
}

// Expired returns deadlines that never leave slack.
func Expired() func() host.Deadline {
	return Budget(0)
}
