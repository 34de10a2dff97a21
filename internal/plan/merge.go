package plan

import (
	"strconv"
	"strings"
)

// GenerationResult is the structured output of one generation cycle. It is
// transient: consumed exactly once by MergeGeneration, never persisted.
type GenerationResult struct {
	Schedule map[string]string `json:"schedule"` // hour string -> activity
	Todos    []string          `json:"todos"`
	Notes    string            `json:"notes"`
}

// HasActivePriority reports whether at least one priority slot is non-empty
// after trimming whitespace. Generation is only worth invoking when it is.
func HasActivePriority(priorities []string) bool {
	for _, p := range priorities {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}

// ActivePriorities returns the trimmed non-empty priorities in order.
func ActivePriorities(priorities []string) []string {
	active := make([]string, 0, len(priorities))
	for _, p := range priorities {
		if t := strings.TrimSpace(p); t != "" {
			active = append(active, t)
		}
	}
	return active
}

// MergeGeneration folds a generation result into the current sheet without
// discarding unrelated user data, and returns the partial update to apply.
//
//   - Schedule: generated entries overwrite the same hour, other hours are
//     preserved. Keys that do not parse as integers are ignored.
//   - Todos: index-aligned overwrite of existing slots; a fresh suggestion is
//     never pre-checked. Suggestions beyond the existing list are dropped.
//   - Notes: appended after a blank line when notes already exist.
func MergeGeneration(current State, result GenerationResult) Changes {
	schedule := make(map[int]string, len(current.Schedule)+len(result.Schedule))
	for h, v := range current.Schedule {
		schedule[h] = v
	}
	for key, activity := range result.Schedule {
		hour, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		schedule[hour] = activity
	}

	todos := append([]TodoItem(nil), current.Todos...)
	for i, text := range result.Todos {
		if i >= len(todos) {
			break
		}
		todos[i].Text = text
		todos[i].Completed = false
	}

	notes := result.Notes
	if current.Notes != "" {
		notes = current.Notes + "\n\n" + result.Notes
	}

	return Changes{
		Schedule: schedule,
		Todos:    todos,
		Notes:    &notes,
	}
}
