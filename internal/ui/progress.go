// Package ui renders the interactive build view of the nitrate CLI.
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

	"github.com/Kracken256/nitrate-sub001/internal/driver"
)

const statusWidth = 10

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	busyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// stageInfo is the label shown while a stage runs and the share of a unit
// that is finished once it started.
var stageInfo = map[driver.Stage]struct {
	label string
	share float64
}{
	driver.StageParse:        {"parsing", 0.1},
	driver.StageLower:        {"lowering", 0.4},
	driver.StageCheckReturns: {"checking", 0.7},
	driver.StageSizes:        {"sizing", 0.9},
}

type unitRow struct {
	path    string
	stage   driver.Stage
	status  driver.Status
	elapsed time.Duration
}

func (r *unitRow) finished() bool {
	return r.status == driver.StatusDone || r.status == driver.StatusError
}

func (r *unitRow) label() string {
	switch r.status {
	case driver.StatusDone:
		return "done"
	case driver.StatusError:
		return "error"
	case driver.StatusWorking:
		return stageInfo[r.stage].label
	default:
		return "queued"
	}
}

func (r *unitRow) style() lipgloss.Style {
	switch r.status {
	case driver.StatusDone:
		return okStyle
	case driver.StatusError:
		return errStyle
	case driver.StatusWorking:
		return busyStyle
	default:
		return idleStyle
	}
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

// NewProgressModel returns a Bubble Tea model with one row per unit.
// The model quits when events is closed.
func NewProgressModel(title string, units []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = busyStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    make([]unitRow, len(units)),
		byPath:  make(map[string]int, len(units)),
		width:   80,
	}
	for i, u := range units {
		m.rows[i] = unitRow{path: u, stage: driver.StageQueued, status: driver.StatusQueued}
		m.byPath[u] = i
	}
	return m
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
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	finished, failed := m.counts()
	header := fmt.Sprintf("%s %d/%d", m.title, finished, len(m.rows))
	if failed > 0 {
		header += fmt.Sprintf(", %d failed", failed)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-4, 20)
	for i := range m.rows {
		r := &m.rows[i]
		fmt.Fprintf(&b, "  %s %s", r.style().Render(fmt.Sprintf("%*s", statusWidth, r.label())), truncate(r.path, nameWidth))
		if r.finished() && r.elapsed > 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf(" (%s)", r.elapsed.Round(time.Microsecond))))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
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

// apply updates one row and moves the bar; events for unknown units are dropped.
func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	i, ok := m.byPath[ev.Unit]
	if !ok {
		return nil
	}
	r := &m.rows[i]
	r.stage, r.status = ev.Stage, ev.Status
	if r.finished() {
		r.elapsed = ev.Elapsed
	}

	total := 0.0
	for j := range m.rows {
		if m.rows[j].finished() {
			total++
		} else {
			total += progressFromStage(m.rows[j].stage)
		}
	}
	return m.bar.SetPercent(total / float64(len(m.rows)))
}

func (m *progressModel) counts() (finished, failed int) {
	for i := range m.rows {
		if m.rows[i].finished() {
			finished++
		}
		if m.rows[i].status == driver.StatusError {
			failed++
		}
	}
	return finished, failed
}

func progressFromStage(stage driver.Stage) float64 {
	return stageInfo[stage].share
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	// хвост "..." входит в width
	return runewidth.Truncate(value, width, "...")
}
