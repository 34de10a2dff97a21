package plan

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateFormat is the ISO calendar date layout used as the record identity key.
const DateFormat = "2006-01-02"

const (
	// PriorityCount is the fixed number of priority slots on the sheet.
	PriorityCount = 3
	// TodoCount is the number of todo slots a fresh sheet starts with.
	TodoCount = 12
	// ScheduleStartHour and ScheduleEndHour bound the hourly grid.
	ScheduleStartHour = 6
	ScheduleEndHour   = 24
)

// TodoItem is a single slot in the todo list. The ID stays stable across
// edits; only Text and Completed change.
type TodoItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// State is the full planner sheet for one calendar date.
type State struct {
	Date           string         `json:"date"`
	SelectedDay    int            `json:"selectedDay"` // 0-6, Sunday = 0
	Priorities     []string       `json:"priorities"`
	Progress       int            `json:"progress"` // 0-100
	Schedule       map[int]string `json:"schedule"`
	ScheduleColors map[int]string `json:"scheduleColors"`
	Todos          []TodoItem     `json:"todos"`
	Notes          string         `json:"notes"`
}

// NewState returns a fresh default sheet for the given date with empty
// priorities, an empty schedule, and TodoCount blank todo slots.
func NewState(date string) State {
	todos := make([]TodoItem, TodoCount)
	for i := range todos {
		todos[i] = TodoItem{ID: uuid.NewString()}
	}
	return State{
		Date:           date,
		SelectedDay:    Weekday(date),
		Priorities:     make([]string, PriorityCount),
		Schedule:       map[int]string{},
		ScheduleColors: map[int]string{},
		Todos:          todos,
	}
}

// Weekday derives the 0-6 weekday index (Sunday = 0) from an ISO date string.
// Unparseable dates map to Sunday rather than failing; the caller already
// treats the date string as opaque identity.
func Weekday(date string) int {
	t, err := time.Parse(DateFormat, date)
	if err != nil {
		return 0
	}
	return int(t.Weekday())
}

// ValidDate reports whether date is a well-formed ISO calendar date.
func ValidDate(date string) bool {
	_, err := time.Parse(DateFormat, date)
	return err == nil
}

// Today returns the current calendar date in ISO form.
func Today() string {
	return time.Now().Format(DateFormat)
}

// RepairPriorities enforces the priorities invariant: a missing or nil slice
// becomes PriorityCount empty strings, a short slice is padded, and a longer
// slice passes through unchanged.
func RepairPriorities(priorities []string) []string {
	if priorities == nil {
		return make([]string, PriorityCount)
	}
	for len(priorities) < PriorityCount {
		priorities = append(priorities, "")
	}
	return priorities
}

// Repair normalizes a deserialized state in place so it satisfies the model's
// invariants regardless of what was persisted.
func (s *State) Repair() {
	s.Priorities = RepairPriorities(s.Priorities)
	if s.Schedule == nil {
		s.Schedule = map[int]string{}
	}
	if s.ScheduleColors == nil {
		s.ScheduleColors = map[int]string{}
	}
}

// Clone returns a deep copy, so callers can hand out state without sharing
// the underlying maps and slices.
func (s State) Clone() State {
	c := s
	c.Priorities = append([]string(nil), s.Priorities...)
	c.Todos = append([]TodoItem(nil), s.Todos...)
	c.Schedule = make(map[int]string, len(s.Schedule))
	for h, v := range s.Schedule {
		c.Schedule[h] = v
	}
	c.ScheduleColors = make(map[int]string, len(s.ScheduleColors))
	for h, v := range s.ScheduleColors {
		c.ScheduleColors[h] = v
	}
	return c
}

// Changes is a partial update to a State. Nil fields are absent; a present
// field fully replaces the corresponding field of the state.
type Changes struct {
	Date           *string
	SelectedDay    *int
	Priorities     []string
	Progress       *int
	Schedule       map[int]string
	ScheduleColors map[int]string
	Todos          []TodoItem
	Notes          *string
}

// Apply shallow-merges the changes into a copy of s and returns the result.
// A date change must be handled by the caller before calling Apply; see the
// session's Update.
func Apply(s State, ch Changes) State {
	out := s.Clone()
	if ch.Date != nil {
		out.Date = *ch.Date
	}
	if ch.SelectedDay != nil {
		out.SelectedDay = *ch.SelectedDay
	}
	if ch.Priorities != nil {
		out.Priorities = append([]string(nil), ch.Priorities...)
	}
	if ch.Progress != nil {
		out.Progress = *ch.Progress
	}
	if ch.Schedule != nil {
		out.Schedule = make(map[int]string, len(ch.Schedule))
		for h, v := range ch.Schedule {
			out.Schedule[h] = v
		}
	}
	if ch.ScheduleColors != nil {
		out.ScheduleColors = make(map[int]string, len(ch.ScheduleColors))
		for h, v := range ch.ScheduleColors {
			out.ScheduleColors[h] = v
		}
	}
	if ch.Todos != nil {
		out.Todos = append([]TodoItem(nil), ch.Todos...)
	}
	if ch.Notes != nil {
		out.Notes = *ch.Notes
	}
	return out
}

// String implements fmt.Stringer for log lines.
func (s State) String() string {
	return fmt.Sprintf("plan[%s: %d priorities, %d schedule entries, %d todos]",
		s.Date, len(s.Priorities), len(s.Schedule), len(s.Todos))
}
