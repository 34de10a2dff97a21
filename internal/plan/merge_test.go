package plan

import (
	"reflect"
	"testing"
)

func TestMergeGeneration(t *testing.T) {
	current := NewState("2025-06-02")
	current.Schedule = map[int]string{9: "Meeting", 18: "Dinner"}
	current.Todos[0] = TodoItem{ID: current.Todos[0].ID, Text: "Old", Completed: true}

	result := GenerationResult{
		Schedule: map[string]string{"9": "Gym", "11": "Writing"},
		Todos:    []string{"Read book"},
		Notes:    "Stay focused",
	}

	ch := MergeGeneration(current, result)

	t.Run("GenerationWinsAtSameHour", func(t *testing.T) {
		if ch.Schedule[9] != "Gym" {
			t.Errorf("Expected hour 9 overwritten with 'Gym', got %q", ch.Schedule[9])
		}
	})

	t.Run("OtherHoursPreserved", func(t *testing.T) {
		if ch.Schedule[18] != "Dinner" {
			t.Errorf("Expected hour 18 preserved, got %q", ch.Schedule[18])
		}
		if ch.Schedule[11] != "Writing" {
			t.Errorf("Expected new hour 11 added, got %q", ch.Schedule[11])
		}
	})

	t.Run("TodoOverwrittenAndUnchecked", func(t *testing.T) {
		if ch.Todos[0].Text != "Read book" {
			t.Errorf("Expected first todo 'Read book', got %q", ch.Todos[0].Text)
		}
		if ch.Todos[0].Completed {
			t.Error("Expected fresh suggestion to be unchecked")
		}
		if ch.Todos[0].ID != current.Todos[0].ID {
			t.Error("Expected todo ID to stay stable across merge")
		}
	})

	t.Run("UncoveredTodosUntouched", func(t *testing.T) {
		if !reflect.DeepEqual(ch.Todos[1:], current.Todos[1:]) {
			t.Error("Expected todos beyond the result to be left alone")
		}
	})

	t.Run("EmptyNotesReplacedVerbatim", func(t *testing.T) {
		if ch.Notes == nil || *ch.Notes != "Stay focused" {
			t.Errorf("Expected notes 'Stay focused', got %v", ch.Notes)
		}
	})
}

func TestMergeGenerationNotesAppend(t *testing.T) {
	current := NewState("2025-06-02")
	current.Notes = "existing"

	ch := MergeGeneration(current, GenerationResult{Notes: "tip"})
	if *ch.Notes != "existing\n\ntip" {
		t.Errorf("Expected notes appended after blank line, got %q", *ch.Notes)
	}
}

func TestMergeGenerationIgnoresBadHourKeys(t *testing.T) {
	current := NewState("2025-06-02")
	ch := MergeGeneration(current, GenerationResult{
		Schedule: map[string]string{"morning": "Yoga", "7": "Run"},
	})
	if len(ch.Schedule) != 1 || ch.Schedule[7] != "Run" {
		t.Errorf("Expected only integer hour keys merged, got %v", ch.Schedule)
	}
}

func TestMergeGenerationTodosDoNotGrow(t *testing.T) {
	current := NewState("2025-06-02")
	current.Todos = current.Todos[:2]

	ch := MergeGeneration(current, GenerationResult{Todos: []string{"a", "b", "c", "d"}})
	if len(ch.Todos) != 2 {
		t.Errorf("Expected todo list length preserved at 2, got %d", len(ch.Todos))
	}
	if ch.Todos[1].Text != "b" {
		t.Errorf("Expected second slot 'b', got %q", ch.Todos[1].Text)
	}
}

func TestHasActivePriority(t *testing.T) {
	if HasActivePriority([]string{"", "  ", "\t"}) {
		t.Error("Whitespace-only priorities should not count as active")
	}
	if !HasActivePriority([]string{"", " study ", ""}) {
		t.Error("Expected a trimmed non-empty priority to count as active")
	}
}

func TestActivePriorities(t *testing.T) {
	got := ActivePriorities([]string{" a ", "", "b"})
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Expected [a b], got %v", got)
	}
}
