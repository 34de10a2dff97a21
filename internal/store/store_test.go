package store

import (
	"encoding/json"
	"testing"

	"zenith-planner/internal/plan"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s
}

// writeRaw persists an arbitrary payload under a date's key, bypassing the
// model, to simulate records from other versions of the app.
func (s *Store) writeRaw(t *testing.T, key string, payload string) {
	t.Helper()
	if err := s.d.Write(key, []byte(payload)); err != nil {
		t.Fatalf("raw write failed: %v", err)
	}
}

func TestLoadMissingRecord(t *testing.T) {
	s := newTestStore(t)

	st := s.Load("2025-06-02")
	if st.Date != "2025-06-02" {
		t.Errorf("Expected date 2025-06-02, got %s", st.Date)
	}
	if st.SelectedDay != plan.Weekday("2025-06-02") {
		t.Errorf("Expected derived weekday, got %d", st.SelectedDay)
	}
	if len(st.Priorities) != 3 || st.Priorities[0] != "" {
		t.Errorf("Expected 3 empty priorities, got %v", st.Priorities)
	}
	if len(st.Todos) != plan.TodoCount {
		t.Errorf("Expected %d fresh todos, got %d", plan.TodoCount, len(st.Todos))
	}
	if len(st.Schedule) != 0 || len(st.ScheduleColors) != 0 || st.Notes != "" {
		t.Error("Expected empty schedule, colors, and notes")
	}
}

func TestSaveThenLoad(t *testing.T) {
	s := newTestStore(t)

	st := plan.NewState("2025-06-02")
	st.Priorities[0] = "ship release"
	st.Schedule[9] = "Standup"
	st.Notes = "notes"
	if err := s.Save(st); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got := s.Load("2025-06-02")
	if got.Priorities[0] != "ship release" || got.Schedule[9] != "Standup" || got.Notes != "notes" {
		t.Errorf("Loaded state does not match saved state: %+v", got)
	}
}

func TestLoadRepairsShortPriorities(t *testing.T) {
	s := newTestStore(t)
	s.writeRaw(t, KeyForDate("2025-06-02"), `{"date":"2025-06-02","priorities":["x"]}`)

	st := s.Load("2025-06-02")
	if len(st.Priorities) != 3 || st.Priorities[0] != "x" || st.Priorities[1] != "" {
		t.Errorf("Expected [x,'',''], got %v", st.Priorities)
	}
}

func TestLoadRepairsNonArrayPriorities(t *testing.T) {
	s := newTestStore(t)
	// A record from a buggy writer: priorities is a string, the rest is valid.
	s.writeRaw(t, KeyForDate("2025-06-02"),
		`{"date":"2025-06-02","priorities":"oops","notes":"keep me","schedule":{"9":"Meeting"}}`)

	st := s.Load("2025-06-02")
	if len(st.Priorities) != 3 || st.Priorities[0] != "" {
		t.Errorf("Expected malformed priorities replaced with empty slots, got %v", st.Priorities)
	}
	if st.Notes != "keep me" {
		t.Errorf("Expected valid fields preserved, got notes %q", st.Notes)
	}
	if st.Schedule[9] != "Meeting" {
		t.Errorf("Expected valid fields preserved, got schedule %v", st.Schedule)
	}
}

func TestLoadMalformedRecordFallsBack(t *testing.T) {
	s := newTestStore(t)
	s.writeRaw(t, KeyForDate("2025-06-02"), `{not json`)

	st := s.Load("2025-06-02")
	if st.Date != "2025-06-02" || len(st.Todos) != plan.TodoCount {
		t.Errorf("Expected default state for malformed record, got %+v", st)
	}
}

func TestLoadForcesRequestedDate(t *testing.T) {
	s := newTestStore(t)
	// A record copied from another day carries the wrong identity.
	s.writeRaw(t, KeyForDate("2025-06-02"), `{"date":"2024-01-01","selectedDay":5,"priorities":["a","b","c"]}`)

	st := s.Load("2025-06-02")
	if st.Date != "2025-06-02" {
		t.Errorf("Expected requested date to win, got %s", st.Date)
	}
	if st.SelectedDay != plan.Weekday("2025-06-02") {
		t.Errorf("Expected weekday recomputed from the requested date, got %d", st.SelectedDay)
	}
	if st.Priorities[0] != "a" {
		t.Error("Expected record contents preserved")
	}
}

func TestDeleteLeavesOtherDates(t *testing.T) {
	s := newTestStore(t)

	a := plan.NewState("2025-06-02")
	a.Notes = "keep me"
	b := plan.NewState("2025-06-03")
	b.Notes = "delete me"
	if err := s.Save(a); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(b); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete("2025-06-03"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if s.Has("2025-06-03") {
		t.Error("Expected deleted record to be gone")
	}
	if got := s.Load("2025-06-02"); got.Notes != "keep me" {
		t.Errorf("Expected other date untouched, got %q", got.Notes)
	}

	// Deleting an absent record is not an error.
	if err := s.Delete("2025-06-03"); err != nil {
		t.Errorf("Expected idempotent delete, got %v", err)
	}
}

func TestDateForKey(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{KeyForDate("2025-06-02"), "2025-06-02"},
		{legacyKey, ""},
		{"unrelated-file", ""},
		{keyPrefix + "garbage", ""},
	}
	for _, c := range cases {
		if got := DateForKey(c.key); got != c.want {
			t.Errorf("DateForKey(%q) = %q, want %q", c.key, got, c.want)
		}
	}
}

func TestKeyRoundTrip(t *testing.T) {
	s := newTestStore(t)
	st := plan.NewState("2025-06-02")
	if err := s.Save(st); err != nil {
		t.Fatal(err)
	}

	raw, err := s.d.Read(KeyForDate("2025-06-02"))
	if err != nil {
		t.Fatalf("Expected record under per-date key: %v", err)
	}
	var onDisk map[string]any
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatalf("Record is not valid JSON: %v", err)
	}
	if onDisk["date"] != "2025-06-02" {
		t.Errorf("Expected serialized date field, got %v", onDisk["date"])
	}
}
