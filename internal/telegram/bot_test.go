package telegram

import (
	"reflect"
	"testing"
)

func TestOneGenerationCyclePerChat(t *testing.T) {
	b := &Bot{}

	if !b.beginFor(1) {
		t.Fatal("Expected first cycle for a chat to start")
	}
	if b.beginFor(1) {
		t.Error("Expected second concurrent cycle for the same chat refused")
	}
	if !b.beginFor(2) {
		t.Error("Expected other chats unaffected")
	}

	b.endFor(1)
	if !b.beginFor(1) {
		t.Error("Expected chat available again once its cycle finished")
	}
}

func TestParsePriorities(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "NewlineSeparated",
			text: "Study for exam\nGym session\nRead 30 pages",
			want: []string{"Study for exam", "Gym session", "Read 30 pages"},
		},
		{
			name: "CommaSeparated",
			text: "study, gym, read",
			want: []string{"study", "gym", "read"},
		},
		{
			name: "NewlinesWinOverCommas",
			text: "plan a, b\nship it",
			want: []string{"plan a, b", "ship it", ""},
		},
		{
			name: "SingleGoal",
			text: "finish the report",
			want: []string{"finish the report", "", ""},
		},
		{
			name: "ExtraEntriesDropped",
			text: "one, two, three, four",
			want: []string{"one", "two", "three"},
		},
		{
			name: "BlankPartsSkipped",
			text: "one, , ,two",
			want: []string{"one", "two", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePriorities(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePriorities(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
