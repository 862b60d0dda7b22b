package fiber

import "time"

// CycleInfo identifies a render cycle.
type CycleInfo struct {
	ID uint64

	// Base names the kind of the node the cycle re-renders, "#root" for
	// whole-tree cycles.
	Base string

	// Full reports a whole-tree cycle (mount, re-mount, ForceRerender).
	Full bool

	// Nested counts the render-phase updates that led to this cycle.
	Nested int
}

// SliceStats describes one Resume call.
type SliceStats struct {
	Units   int
	Elapsed time.Duration

	// Remaining reports that the cycle still has pending units.
	Remaining bool
}

// CommitStats counts the work of a committed cycle.
type CommitStats struct {
	Units int // nodes expanded during the cycle

	Placements int
	Updates    int
	Deletions  int

	Created          int
	PropsSet         int
	PropsRemoved     int
	ListenersAdded   int
	ListenersRemoved int
	Appended         int
	Inserted         int
	Removed          int

	Duration time.Duration // commit pass only
}

// Mutations returns the number of host adapter calls.
func (s CommitStats) Mutations() int {
	return s.Created + s.PropsSet + s.PropsRemoved + s.ListenersAdded +
		s.ListenersRemoved + s.Appended + s.Inserted + s.Removed
}

// Observer is notified about cycle progress. Methods run on the render
// goroutine and must not block.
type Observer interface {
	CycleStarted(CycleInfo)
	SliceFinished(CycleInfo, SliceStats)
	CycleCommitted(CycleInfo, CommitStats)
	CycleAbandoned(CycleInfo, error)
}

// NopObserver implements Observer with no-ops. Embed it to implement a
// subset.
type NopObserver struct{}

func (NopObserver) CycleStarted(CycleInfo)                {}
func (NopObserver) SliceFinished(CycleInfo, SliceStats)   {}
func (NopObserver) CycleCommitted(CycleInfo, CommitStats) {}
func (NopObserver) CycleAbandoned(CycleInfo, error)       {}

func (r *Root) observe(fn func(Observer)) {
	for _, o := range r.cfg.Observers {
		fn(o)
	}
}
