package store

import (
	"testing"

	"zenith-planner/internal/plan"
)

func TestResolvePrefersTodayRecord(t *testing.T) {
	s := newTestStore(t)
	today := "2025-06-02"

	st := plan.NewState(today)
	st.Notes = "today wins"
	if err := s.Save(st); err != nil {
		t.Fatal(err)
	}
	s.writeRaw(t, legacyKey, `{"mainGoal":"Study","priorities":[]}`)

	got := s.Resolve(today)
	if got.Notes != "today wins" {
		t.Errorf("Expected today's record to win over legacy, got %q", got.Notes)
	}
	if got.Priorities[0] != "" {
		t.Errorf("Expected legacy migration skipped, got %v", got.Priorities)
	}
}

func TestResolveMigratesLegacyRecord(t *testing.T) {
	s := newTestStore(t)
	today := "2025-06-02"
	s.writeRaw(t, legacyKey, `{"mainGoal":"Study","priorities":[],"notes":"carried over"}`)

	got := s.Resolve(today)

	if got.Priorities[0] != "Study" {
		t.Errorf("Expected mainGoal to become first priority, got %v", got.Priorities)
	}
	if len(got.Priorities) != 3 {
		t.Errorf("Expected priorities invariant enforced, got %v", got.Priorities)
	}
	if got.Date != today || got.SelectedDay != plan.Weekday(today) {
		t.Errorf("Expected identity rewritten to today, got %s/%d", got.Date, got.SelectedDay)
	}
	if got.Notes != "carried over" {
		t.Errorf("Expected other legacy fields preserved, got %q", got.Notes)
	}

	// Write-through: the migrated record must now exist under today's key so
	// future startups skip the legacy path.
	if !s.Has(today) {
		t.Fatal("Expected migrated record persisted under today's key")
	}
	if again := s.Load(today); again.Priorities[0] != "Study" {
		t.Errorf("Expected persisted migration, got %v", again.Priorities)
	}
}

func TestResolveLegacyGoalDoesNotOverwritePriorities(t *testing.T) {
	s := newTestStore(t)
	today := "2025-06-02"
	s.writeRaw(t, legacyKey, `{"mainGoal":"Old goal","priorities":["already set"]}`)

	got := s.Resolve(today)
	if got.Priorities[0] != "already set" {
		t.Errorf("Expected existing priorities kept, got %v", got.Priorities)
	}
}

func TestResolveLegacyNonArrayPriorities(t *testing.T) {
	s := newTestStore(t)
	today := "2025-06-02"
	s.writeRaw(t, legacyKey, `{"mainGoal":"Study","priorities":"oops","notes":"carried over"}`)

	got := s.Resolve(today)
	if got.Priorities[0] != "Study" {
		t.Errorf("Expected migration to run despite the malformed field, got %v", got.Priorities)
	}
	if got.Notes != "carried over" {
		t.Errorf("Expected valid legacy fields preserved, got %q", got.Notes)
	}
}

func TestResolveMalformedLegacyFallsBack(t *testing.T) {
	s := newTestStore(t)
	today := "2025-06-02"
	s.writeRaw(t, legacyKey, `{broken`)

	got := s.Resolve(today)
	if got.Date != today || len(got.Todos) != plan.TodoCount {
		t.Errorf("Expected default state after legacy parse failure, got %+v", got)
	}
}

func TestResolveWithoutAnyRecord(t *testing.T) {
	s := newTestStore(t)
	today := "2025-06-02"

	got := s.Resolve(today)
	if got.Date != today || got.SelectedDay != plan.Weekday(today) {
		t.Errorf("Expected default state for today, got %+v", got)
	}
}
