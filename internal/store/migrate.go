package store

import (
	"encoding/json"
	"errors"
	"log"

	"zenith-planner/internal/plan"
)

// legacyRecord is the shape of the pre-migration single-record format. It is
// a superset of the current state: early versions stored one free-text goal
// instead of the 3-slot priorities array.
type legacyRecord struct {
	plan.State
	MainGoal string `json:"mainGoal"`
}

// migrate converts a legacy record into a current-shape sheet for today.
// The old single goal becomes the first priority slot when the new field
// never carried data.
func (r legacyRecord) migrate(today string) plan.State {
	st := r.State
	if r.MainGoal != "" && len(st.Priorities) == 0 {
		st.Priorities = []string{r.MainGoal, "", ""}
	}
	st.Repair()
	st.Date = today
	st.SelectedDay = plan.Weekday(today)
	return st
}

// Resolve produces the active sheet at startup. Today's record wins when it
// exists; otherwise a legacy single-record store is migrated once and
// written through under today's key so future startups skip this path.
func (s *Store) Resolve(today string) plan.State {
	if s.Has(today) {
		return s.Load(today)
	}

	if !s.d.Has(legacyKey) {
		return s.Load(today)
	}

	raw, err := s.d.Read(legacyKey)
	if err != nil {
		log.Printf("Warning: failed to read legacy record: %v", err)
		return s.Load(today)
	}

	var legacy legacyRecord
	if err := json.Unmarshal(raw, &legacy); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			log.Printf("Warning: malformed legacy record, using defaults: %v", err)
			return s.Load(today)
		}
		log.Printf("Warning: legacy record has a malformed %q field, repairing: %v", typeErr.Field, err)
	}

	st := legacy.migrate(today)
	if err := s.Save(st); err != nil {
		log.Printf("Warning: failed to persist migrated record: %v", err)
	}
	return st
}
