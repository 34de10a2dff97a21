// Package tui renders the planner sheet and maps key presses onto the four
// boundary actions: partial updates, generation cycles, reset with
// confirmation, and date switches.
package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"zenith-planner/internal/metrics"
	"zenith-planner/internal/plan"
	"zenith-planner/internal/planner"
	"zenith-planner/internal/session"
	"zenith-planner/internal/store"
)

type section int

const (
	sectionPriorities section = iota
	sectionProgress
	sectionSchedule
	sectionTodos
	sectionNotes
	sectionCount
)

// colorPalette holds the cyclable color tags for schedule rows. The empty
// tag means "no color".
var colorPalette = []string{"", "110", "150", "179", "210", "183"}

// Model is the bubbletea model for the planner sheet.
type Model struct {
	sess         *session.Session
	dayPlanner   *planner.Planner // nil disables generation
	metricsStore *metrics.Store
	watch        <-chan store.Event

	state      plan.State
	generating bool

	focus   section
	row     int
	editing bool
	input   textinput.Model
	spin    spinner.Model
	keys    keyMap

	confirmReset bool
	status       string
	statusID     int

	width  int
	height int
}

// New builds the TUI over an existing session. watch may be nil when
// external-change refresh is unavailable.
func New(sess *session.Session, dayPlanner *planner.Planner, metricsStore *metrics.Store, watch <-chan store.Event) *Model {
	ti := textinput.New()
	ti.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		sess:         sess,
		dayPlanner:   dayPlanner,
		metricsStore: metricsStore,
		watch:        watch,
		state:        sess.State(),
		input:        ti,
		spin:         sp,
		keys:         newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	if m.watch != nil {
		return waitForStoreEvent(m.watch)
	}
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.generating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case generationDoneMsg:
		m.generating = false
		if msg.err != nil {
			m.sess.FinishGeneration(nil, msg.revision)
			return m, m.setStatus("generation failed: " + msg.err.Error())
		}
		m.sess.FinishGeneration(msg.result, msg.revision)
		m.state = m.sess.State()
		return m, m.setStatus("plan generated")

	case storeChangedMsg:
		cmd := waitForStoreEvent(m.watch)
		// Only refresh for changes to the visible date, and never under an
		// open editor where a reload would clobber the user's keystrokes.
		if m.editing || m.generating || (msg.event.Date != "" && msg.event.Date != m.state.Date) {
			return m, cmd
		}
		m.sess.Reload()
		m.state = m.sess.State()
		return m, cmd

	case watchClosedMsg:
		return m, nil

	case statusClearMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmReset {
		switch msg.String() {
		case "y", "Y":
			m.confirmReset = false
			m.sess.Reset()
			m.state = m.sess.State()
			return m, m.setStatus("sheet reset")
		case "n", "N", "esc":
			m.confirmReset = false
			return m, m.setStatus("reset cancelled")
		}
		return m, nil
	}

	if m.editing {
		switch msg.Type {
		case tea.KeyEsc:
			m.editing = false
			m.input.Blur()
			return m, nil
		case tea.KeyEnter:
			m.commitEdit()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextSection):
		m.focus = (m.focus + 1) % sectionCount
		m.row = 0

	case key.Matches(msg, m.keys.PrevSection):
		m.focus = (m.focus + sectionCount - 1) % sectionCount
		m.row = 0

	case key.Matches(msg, m.keys.Down):
		if m.row < m.rowCount()-1 {
			m.row++
		}

	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}

	case key.Matches(msg, m.keys.PrevDay):
		m.shiftDate(-1)

	case key.Matches(msg, m.keys.NextDay):
		m.shiftDate(1)

	case key.Matches(msg, m.keys.Today):
		m.switchDate(plan.Today())

	case key.Matches(msg, m.keys.Edit):
		m.startEdit()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Toggle):
		if m.focus == sectionTodos && m.row < len(m.state.Todos) {
			todos := append([]plan.TodoItem(nil), m.state.Todos...)
			todos[m.row].Completed = !todos[m.row].Completed
			m.apply(plan.Changes{Todos: todos})
		}

	case key.Matches(msg, m.keys.Color):
		if m.focus == sectionSchedule {
			m.cycleColor()
		}

	case key.Matches(msg, m.keys.MoreProg):
		m.adjustProgress(5)

	case key.Matches(msg, m.keys.LessProg):
		m.adjustProgress(-5)

	case key.Matches(msg, m.keys.Generate):
		return m, m.startGeneration()

	case key.Matches(msg, m.keys.Reset):
		m.confirmReset = true
	}

	return m, nil
}

// startGeneration gates and launches one async generation cycle.
func (m *Model) startGeneration() tea.Cmd {
	if m.generating {
		return nil
	}
	priorities, revision, ok := m.sess.BeginGeneration()
	if !ok {
		return m.setStatus("set at least one priority first")
	}
	if m.dayPlanner == nil {
		m.sess.FinishGeneration(nil, revision)
		return m.setStatus("generation unavailable: GEMINI_API_KEY not configured")
	}
	m.generating = true
	return tea.Batch(m.spin.Tick, m.generateCmd(priorities, revision))
}

func (m *Model) rowCount() int {
	switch m.focus {
	case sectionPriorities:
		return plan.PriorityCount
	case sectionSchedule:
		return plan.ScheduleEndHour - plan.ScheduleStartHour + 1
	case sectionTodos:
		return len(m.state.Todos)
	default:
		return 1
	}
}

func (m *Model) startEdit() {
	var value, placeholder string
	switch m.focus {
	case sectionPriorities:
		value = m.state.Priorities[m.row]
		placeholder = fmt.Sprintf("priority %d", m.row+1)
	case sectionProgress:
		value = strconv.Itoa(m.state.Progress)
		placeholder = "0-100"
	case sectionSchedule:
		value = m.state.Schedule[m.focusedHour()]
		placeholder = "activity"
	case sectionTodos:
		if m.row >= len(m.state.Todos) {
			return
		}
		value = m.state.Todos[m.row].Text
		placeholder = "todo"
	case sectionNotes:
		value = m.state.Notes
		placeholder = "notes"
	}

	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
	m.input.Focus()
	m.editing = true
}

func (m *Model) commitEdit() {
	value := m.input.Value()
	m.editing = false
	m.input.Blur()

	switch m.focus {
	case sectionPriorities:
		priorities := append([]string(nil), m.state.Priorities...)
		priorities[m.row] = value
		m.apply(plan.Changes{Priorities: priorities})

	case sectionProgress:
		n, err := strconv.Atoi(value)
		if err != nil {
			return
		}
		m.apply(plan.Changes{Progress: clampProgress(n)})

	case sectionSchedule:
		schedule := make(map[int]string, len(m.state.Schedule)+1)
		for h, v := range m.state.Schedule {
			schedule[h] = v
		}
		if value == "" {
			delete(schedule, m.focusedHour())
		} else {
			schedule[m.focusedHour()] = value
		}
		m.apply(plan.Changes{Schedule: schedule})

	case sectionTodos:
		todos := append([]plan.TodoItem(nil), m.state.Todos...)
		todos[m.row].Text = value
		m.apply(plan.Changes{Todos: todos})

	case sectionNotes:
		m.apply(plan.Changes{Notes: &value})
	}
}

func (m *Model) cycleColor() {
	hour := m.focusedHour()
	colors := make(map[int]string, len(m.state.ScheduleColors)+1)
	for h, v := range m.state.ScheduleColors {
		colors[h] = v
	}

	current := 0
	for i, c := range colorPalette {
		if colors[hour] == c {
			current = i
			break
		}
	}
	next := colorPalette[(current+1)%len(colorPalette)]
	if next == "" {
		delete(colors, hour)
	} else {
		colors[hour] = next
	}
	m.apply(plan.Changes{ScheduleColors: colors})
}

func (m *Model) adjustProgress(delta int) {
	m.apply(plan.Changes{Progress: clampProgress(m.state.Progress + delta)})
}

func (m *Model) shiftDate(days int) {
	t, err := time.Parse(plan.DateFormat, m.state.Date)
	if err != nil {
		return
	}
	m.switchDate(t.AddDate(0, 0, days).Format(plan.DateFormat))
}

func (m *Model) switchDate(date string) {
	m.apply(plan.Changes{Date: &date})
	m.row = 0
}

// apply routes a partial update through the session and refreshes the view's
// copy of the state.
func (m *Model) apply(ch plan.Changes) {
	m.sess.Update(ch)
	m.state = m.sess.State()
}

func (m *Model) focusedHour() int {
	return plan.ScheduleStartHour + m.row
}

func (m *Model) setStatus(text string) tea.Cmd {
	m.status = text
	m.statusID++
	return clearStatusAfter(m.statusID, 4*time.Second)
}

func clampProgress(n int) *int {
	if n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	return &n
}
