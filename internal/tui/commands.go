package tui

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"zenith-planner/internal/store"
)

// generateCmd runs one generation cycle off the Update loop. Metrics are
// recorded regardless of outcome so failed calls still show up in usage.
func (m *Model) generateCmd(priorities []string, revision uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		result, meta, err := m.dayPlanner.GeneratePlan(ctx, priorities)
		if m.metricsStore != nil {
			if recErr := m.metricsStore.RecordMeta(meta); recErr != nil {
				log.Printf("Warning: failed to record metrics: %v", recErr)
			}
		}
		return generationDoneMsg{result: result, revision: revision, err: err}
	}
}

// waitForStoreEvent blocks on the watch channel and forwards one event.
func waitForStoreEvent(ch <-chan store.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return watchClosedMsg{}
		}
		return storeChangedMsg{event: ev}
	}
}

// clearStatusAfter expires the status line once the id is still current.
func clearStatusAfter(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusClearMsg{id: id}
	})
}
