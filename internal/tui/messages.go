package tui

import (
	"zenith-planner/internal/plan"
	"zenith-planner/internal/store"
)

// generationDoneMsg delivers the outcome of an async generation cycle.
// revision is the session revision captured when the cycle launched.
type generationDoneMsg struct {
	result   *plan.GenerationResult
	revision uint64
	err      error
}

// storeChangedMsg is sent when another process wrote a planner record.
type storeChangedMsg struct {
	event store.Event
}

// watchClosedMsg signals that the store watcher shut down.
type watchClosedMsg struct{}

// statusClearMsg expires a transient status line. Messages carry a
// generation counter so stale timers are ignored.
type statusClearMsg struct {
	id int
}
