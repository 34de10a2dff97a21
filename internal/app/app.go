// Package app wires the planner's dependencies and implements the
// CLI-facing operations.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"zenith-planner/internal/config"
	"zenith-planner/internal/llm"
	"zenith-planner/internal/metrics"
	"zenith-planner/internal/plan"
	"zenith-planner/internal/planner"
	"zenith-planner/internal/session"
	"zenith-planner/internal/store"
)

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// App holds the application's dependencies. DayPlanner is nil when no
// generation credential is configured; generation then fails its
// precondition instead of reaching the network.
type App struct {
	Store        *store.Store
	MetricsStore *metrics.Store
	DayPlanner   *planner.Planner
	Cfg          *config.Config
}

// NewApp creates and initializes a new App instance.
func NewApp(st *store.Store, metricsStore *metrics.Store, dayPlanner *planner.Planner, cfg *config.Config) *App {
	return &App{
		Store:        st,
		MetricsStore: metricsStore,
		DayPlanner:   dayPlanner,
		Cfg:          cfg,
	}
}

// ShowPlan prints the sheet for the given date (or today when empty).
func (a *App) ShowPlan(out io.Writer, date string) error {
	if date == "" {
		date = plan.Today()
	}
	if !plan.ValidDate(date) {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}
	st := a.Store.Load(date)
	fmt.Fprint(out, FormatSheet(st))
	return nil
}

// Generate runs one generation cycle for today and prints the merged sheet.
func (a *App) Generate(ctx context.Context, out io.Writer) error {
	sess := session.New(a.Store, plan.Today())

	priorities, revision, ok := sess.BeginGeneration()
	if !ok {
		fmt.Fprintln(out, "Nothing to plan: set at least one priority first.")
		return nil
	}

	if a.DayPlanner == nil {
		sess.FinishGeneration(nil, revision)
		return fmt.Errorf("generation unavailable: GEMINI_API_KEY is not configured")
	}

	fmt.Fprintf(out, "Generating plan for: %q...\n", strings.Join(priorities, ", "))

	result, meta, err := a.DayPlanner.GeneratePlan(ctx, priorities)
	if recErr := a.MetricsStore.RecordMeta(meta); recErr != nil {
		log.Printf("Warning: failed to record metrics: %v", recErr)
	}
	if err != nil {
		sess.FinishGeneration(nil, revision)
		return fmt.Errorf("failed to generate plan: %w", err)
	}

	sess.FinishGeneration(result, revision)
	fmt.Fprint(out, FormatSheet(sess.State()))
	return nil
}

// ResetDate clears a single date's sheet back to defaults after an explicit
// confirmation read from in. Other dates' records are untouched.
func (a *App) ResetDate(in io.Reader, out io.Writer, date string) error {
	if date == "" {
		date = plan.Today()
	}
	if !plan.ValidDate(date) {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}

	fmt.Fprintf(out, "Reset the planner sheet for %s? [y/N] ", date)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	if strings.ToLower(strings.TrimSpace(answer)) != "y" {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}

	if err := a.Store.Delete(date); err != nil {
		return fmt.Errorf("failed to reset %s: %w", date, err)
	}
	fmt.Fprintf(out, "Sheet for %s reset.\n", date)
	return nil
}

// NewDayPlanner builds the generation pipeline, or returns nil when the
// credential is missing.
func NewDayPlanner(ctx context.Context, cfg *config.Config) (*planner.Planner, llm.Closer) {
	textGen, err := llm.NewGeminiClient(ctx, cfg)
	if err != nil {
		log.Printf("Warning: generation disabled: %v", err)
		return nil, nil
	}
	closer, _ := textGen.(llm.Closer)
	return planner.NewPlanner(textGen), closer
}

// FormatSheet renders a sheet as plain text for the CLI.
func FormatSheet(st plan.State) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== DAILY PLAN %s (%s) ===\n", st.Date, weekdayNames[st.SelectedDay%7])
	fmt.Fprintf(&b, "Progress: %d%%\n\n", st.Progress)

	b.WriteString("Priorities:\n")
	for i, p := range st.Priorities {
		if p == "" {
			p = "-"
		}
		fmt.Fprintf(&b, "  %d. %s\n", i+1, p)
	}

	b.WriteString("\nSchedule:\n")
	wrote := false
	for h := plan.ScheduleStartHour; h <= plan.ScheduleEndHour; h++ {
		if activity, ok := st.Schedule[h]; ok && activity != "" {
			fmt.Fprintf(&b, "  %02d:00  %s\n", h, activity)
			wrote = true
		}
	}
	if !wrote {
		b.WriteString("  (empty)\n")
	}

	b.WriteString("\nTodos:\n")
	wrote = false
	for _, todo := range st.Todos {
		if todo.Text == "" {
			continue
		}
		mark := " "
		if todo.Completed {
			mark = "x"
		}
		fmt.Fprintf(&b, "  [%s] %s\n", mark, todo.Text)
		wrote = true
	}
	if !wrote {
		b.WriteString("  (empty)\n")
	}

	if st.Notes != "" {
		fmt.Fprintf(&b, "\nNotes:\n%s\n", st.Notes)
	}

	return b.String()
}
