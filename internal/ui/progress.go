// Package ui renders live progress of a multi-unit resolve run.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"chimp/internal/driver"
)

const labelWidth = 10

// stageWeight is the share of a unit's work finished once a stage starts.
var stageWeight = map[driver.Stage]float64{
	driver.StageLoad:    0.1,
	driver.StageCache:   0.2,
	driver.StageDecode:  0.4,
	driver.StageResolve: 0.8,
}

var stageVerb = map[driver.Stage]string{
	driver.StageLoad:    "loading",
	driver.StageCache:   "caching",
	driver.StageDecode:  "decoding",
	driver.StageResolve: "resolving",
}

var (
	styleTitle   = lipgloss.NewStyle().Bold(true)
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFailed  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleWorking = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleIdle    = lipgloss.NewStyle().Faint(true)
)

// unitRow is the display state of one tree document.
type unitRow struct {
	path    string
	status  driver.Status
	stage   driver.Stage
	elapsed time.Duration
}

func (r unitRow) finished() bool {
	return r.status == driver.StatusDone || r.status == driver.StatusError
}

func (r unitRow) label() string {
	switch r.status {
	case driver.StatusWorking:
		if verb, ok := stageVerb[r.stage]; ok {
			return verb
		}
		return "working"
	case driver.StatusDone:
		return "ok"
	case driver.StatusError:
		return "failed"
	default:
		return "queued"
	}
}

func (r unitRow) style() lipgloss.Style {
	switch r.status {
	case driver.StatusDone:
		return styleOK
	case driver.StatusError:
		return styleFailed
	case driver.StatusWorking:
		return styleWorking
	default:
		return styleIdle
	}
}

func (r unitRow) share() float64 {
	if r.finished() {
		return 1
	}
	if r.status != driver.StatusWorking {
		return 0
	}
	return stageWeight[r.stage]
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []unitRow
	byPath  map[string]int
	width   int
	done    bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model listing every unit with its
// current stage. The model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleWorking

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	rows := make([]unitRow, len(files))
	byPath := make(map[string]int, len(files))
	for i, file := range files {
		rows[i] = unitRow{path: file, status: driver.StatusQueued}
		byPath[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    rows,
		byPath:  byPath,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		updated, cmd := m.bar.Update(msg)
		m.bar = updated.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	if m.done {
		b.WriteString(styleTitle.Render("done: " + m.title))
	} else {
		b.WriteString(m.spinner.View() + " " + styleTitle.Render(m.title))
	}
	b.WriteString("\n\n")

	nameWidth := max(m.width-labelWidth-14, 20)
	for _, row := range m.rows {
		label := row.style().Render(runewidth.FillLeft(row.label(), labelWidth))
		fmt.Fprintf(&b, "  %s %s", label, truncate(row.path, nameWidth))
		if row.finished() && row.elapsed > 0 {
			b.WriteString(styleIdle.Render(" " + row.elapsed.Round(time.Millisecond).String()))
		}
		b.WriteString("\n")
	}

	finished, failed := m.counts()
	fmt.Fprintf(&b, "\n  %d/%d units", finished, len(m.rows))
	if failed > 0 {
		b.WriteString(styleFailed.Render(fmt.Sprintf(", %d with errors", failed)))
	}
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) counts() (finished, failed int) {
	for _, row := range m.rows {
		if row.finished() {
			finished++
		}
		if row.status == driver.StatusError {
			failed++
		}
	}
	return finished, failed
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

// apply records ev on its unit row and moves the bar. Events for files the
// model does not list are ignored.
func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	idx, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[idx]
	row.status = ev.Status
	if ev.Stage != "" {
		row.stage = ev.Stage
	}
	if row.finished() {
		row.elapsed = ev.Elapsed
	}

	total := 0.0
	for _, r := range m.rows {
		total += r.share()
	}
	return m.bar.SetPercent(total / float64(len(m.rows)))
}

// truncate shortens value to at most width columns, ending in "...".
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
