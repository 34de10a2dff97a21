// Package session owns the single active planner sheet for a running
// process and applies the update, reset, and generation-merge semantics.
package session

import (
	"log"

	"zenith-planner/internal/plan"
	"zenith-planner/internal/store"
)

// Session holds the active sheet in memory. Persistence is injected through
// the store; every successful mutation is written through under the key of
// the state's own date. The session is built for the single-threaded
// UI-driven update model: callers serialize access themselves.
type Session struct {
	store      *store.Store
	state      plan.State
	revision   uint64
	generating bool
}

// New resolves the startup state for today (persisted record, legacy
// migration, or defaults) and returns a session owning it.
func New(st *store.Store, today string) *Session {
	return &Session{store: st, state: st.Resolve(today)}
}

// State returns a copy of the active sheet.
func (s *Session) State() plan.State {
	return s.state.Clone()
}

// Revision returns a counter that increments on every mutation. Generation
// cycles capture it at launch to detect edits made while a request was in
// flight.
func (s *Session) Revision() uint64 {
	return s.revision
}

// IsGenerating reports whether a generation cycle is outstanding.
func (s *Session) IsGenerating() bool {
	return s.generating
}

// Update applies a partial change to the active sheet and persists the
// result. A change carrying a different date means "switch to another day":
// every other field in the change is dropped and the sheet for the new date
// is loaded instead.
func (s *Session) Update(ch plan.Changes) {
	if ch.Date != nil && *ch.Date != s.state.Date {
		s.state = s.store.Load(*ch.Date)
	} else {
		s.state = plan.Apply(s.state, ch)
	}
	s.revision++
	s.persist()
}

// Reset replaces the active sheet with a fresh default and removes the
// current date's record; other dates' records are untouched. Confirmation is
// the boundary's responsibility, not the session's.
func (s *Session) Reset() {
	s.state = plan.NewState(s.state.Date)
	s.revision++
	if err := s.store.Delete(s.state.Date); err != nil {
		log.Printf("Warning: failed to remove record for %s: %v", s.state.Date, err)
	}
}

// BeginGeneration gates a generation cycle: it returns the active priorities
// and the current revision, or ok=false when every priority slot is blank or
// a cycle is already outstanding.
func (s *Session) BeginGeneration() (priorities []string, revision uint64, ok bool) {
	if s.generating || !plan.HasActivePriority(s.state.Priorities) {
		return nil, 0, false
	}
	s.generating = true
	return plan.ActivePriorities(s.state.Priorities), s.revision, true
}

// FinishGeneration closes the cycle opened by BeginGeneration. A nil result
// (failed or empty response) changes nothing. Otherwise the result is merged
// against the latest state; if the sheet was edited while the request was in
// flight the overwrite is logged but still applied, since a response always
// merges against state at response time.
func (s *Session) FinishGeneration(result *plan.GenerationResult, revision uint64) {
	s.generating = false
	if result == nil {
		return
	}
	if revision != s.revision {
		log.Printf("Warning: sheet for %s changed during generation; merging against latest state", s.state.Date)
	}
	s.Update(plan.MergeGeneration(s.state, *result))
}

// Reload re-reads the active date's record from the store, discarding the
// in-memory copy. Used when another process wrote the record.
func (s *Session) Reload() {
	s.state = s.store.Load(s.state.Date)
	s.revision++
}

// persist is fire-and-forget: a failed write keeps the in-memory state and
// is only logged.
func (s *Session) persist() {
	if err := s.store.Save(s.state); err != nil {
		log.Printf("Warning: failed to persist plan for %s: %v", s.state.Date, err)
	}
}
