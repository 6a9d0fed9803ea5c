package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/lifetrack/internal/metrics"
	"github.com/balkashynov/lifetrack/internal/models"
	"github.com/balkashynov/lifetrack/internal/parser"
	"github.com/balkashynov/lifetrack/internal/tracker"
)

// Session is the part of the tracker the checklist drives.
type Session interface {
	Snapshot() models.Snapshot
	Pending() []tracker.Change
	Failures() []tracker.Change
	ClearFailures()
	ToggleCompletion(ctx context.Context, taskID, date string) (bool, error)
	NewTask(domainID string) models.Task
	AddTask(ctx context.Context, task models.Task) error
	ResolveDomain(ref string) (models.Domain, error)
}

// changeDoneMsg reports a finished write.
type changeDoneMsg struct {
	status string
	err    error
}

// row is one selectable task line.
type row struct {
	task   models.Task
	domain models.Domain
}

// ChecklistModel shows one day's tasks grouped by domain.
type ChecklistModel struct {
	ctx     context.Context
	session Session
	today   func() string

	date   string
	rows   []row
	cursor int

	keys   keyMap
	help   help.Model
	input  textinput.Model
	adding bool

	status string
	err    error

	width  int
	height int
}

// NewChecklistModel creates the model for date.
func NewChecklistModel(ctx context.Context, session Session, date string, today func() string) ChecklistModel {
	input := textinput.New()
	input.Placeholder = "Title @domain +points ~frequency"
	input.CharLimit = 200
	input.Width = 60
	input.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	input.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
	input.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	m := ChecklistModel{
		ctx:     ctx,
		session: session,
		today:   today,
		date:    date,
		keys:    defaultKeyMap(),
		help:    help.New(),
		input:   input,
	}
	m.rows = m.buildRows()
	return m
}

// Date is the day currently shown.
func (m ChecklistModel) Date() string { return m.date }

func (m ChecklistModel) buildRows() []row {
	snap := m.session.Snapshot()
	var rows []row
	for _, d := range snap.Domains {
		for _, t := range snap.TasksInDomain(d.ID) {
			if t.IsActive {
				rows = append(rows, row{task: t, domain: d})
			}
		}
	}
	return rows
}

func (m ChecklistModel) refresh() ChecklistModel {
	m.rows = m.buildRows()
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}

// Init initializes the model
func (m ChecklistModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ChecklistModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case changeDoneMsg:
		m.status = msg.status
		m.err = msg.err
		return m.refresh(), nil

	case tea.KeyMsg:
		if m.adding {
			return m.handleAddKeys(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.Toggle):
			if len(m.rows) == 0 {
				return m, nil
			}
			return m, m.toggle(m.rows[m.cursor].task)

		case key.Matches(msg, m.keys.PrevDay):
			return m.shiftDay(-1), nil

		case key.Matches(msg, m.keys.NextDay):
			return m.shiftDay(1), nil

		case key.Matches(msg, m.keys.Today):
			m.date = m.today()
			m.status = ""

		case key.Matches(msg, m.keys.Add):
			m.adding = true
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink

		case key.Matches(msg, m.keys.Dismiss):
			m.session.ClearFailures()
			m.err = nil

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	return m, nil
}

// handleAddKeys handles key input while the quick-add line is open
func (m ChecklistModel) handleAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.adding = false
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		task, err := m.parseQuickAdd(m.input.Value())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.adding = false
		m.input.Blur()
		m.err = nil
		return m, m.addTask(task)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// parseQuickAdd builds a task from quick-add syntax. Without @domain the task
// goes into the selected task's domain.
func (m ChecklistModel) parseQuickAdd(input string) (models.Task, error) {
	parsed := parser.ParseTask(input)
	if len(parsed.Errors) > 0 {
		return models.Task{}, models.NewError(models.ErrCodeInvalid, strings.Join(parsed.Errors, "; "))
	}

	var domainID string
	switch {
	case parsed.Domain != "":
		d, err := m.session.ResolveDomain(parsed.Domain)
		if err != nil {
			return models.Task{}, err
		}
		domainID = d.ID
	case len(m.rows) > 0:
		domainID = m.rows[m.cursor].domain.ID
	default:
		snap := m.session.Snapshot()
		if len(snap.Domains) == 0 {
			return models.Task{}, models.NewError(models.ErrCodeInvalid, "add a domain first")
		}
		domainID = snap.Domains[0].ID
	}

	task := m.session.NewTask(domainID)
	if parsed.Title != "" {
		task.Title = parsed.Title
	}
	if parsed.Points != nil {
		task.Points = *parsed.Points
	}
	if parsed.Frequency != "" {
		task.Frequency = parsed.Frequency
	}
	return task, nil
}

func (m ChecklistModel) shiftDay(n int) ChecklistModel {
	next, err := models.AddDays(m.date, n)
	if err != nil {
		m.err = err
		return m
	}
	m.date = next
	m.status = ""
	return m
}

// toggle runs the write off the UI loop; the pending change is visible
// through Snapshot until it settles.
func (m ChecklistModel) toggle(task models.Task) tea.Cmd {
	ctx, session, date := m.ctx, m.session, m.date
	return func() tea.Msg {
		done, err := session.ToggleCompletion(ctx, task.ID, date)
		if err != nil {
			return changeDoneMsg{err: err}
		}
		if done {
			return changeDoneMsg{status: fmt.Sprintf("✓ %s (+%s)", task.Title, formatPoints(task.Points))}
		}
		return changeDoneMsg{status: "↩ " + task.Title}
	}
}

func (m ChecklistModel) addTask(task models.Task) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		if err := session.AddTask(ctx, task); err != nil {
			return changeDoneMsg{err: err}
		}
		return changeDoneMsg{status: "Added " + task.Title}
	}
}

// View renders the TUI
func (m ChecklistModel) View() string {
	snap := m.session.Snapshot()

	var b strings.Builder
	b.WriteString(m.renderHeader(snap))
	b.WriteString("\n\n")
	b.WriteString(m.renderTasks(snap))
	b.WriteString("\n")

	if m.adding {
		b.WriteString("\n" + m.input.View() + "\n")
	}
	if line := m.renderStatus(); line != "" {
		b.WriteString("\n" + line + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m ChecklistModel) renderHeader(snap models.Snapshot) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))

	dayColor := ColorSecondaryText
	if metrics.Qualifies(snap, m.date) {
		dayColor = ColorSuccess
	}
	stats := fmt.Sprintf("Points %s · Streak %d",
		formatPoints(metrics.PointsForDate(snap, m.date)),
		metrics.Streak(snap, m.date))

	return titleStyle.Render("lifetrack · "+parser.FormatDate(m.date, m.today())) + "\n" +
		lipgloss.NewStyle().Foreground(lipgloss.Color(dayColor)).Render(stats)
}

func (m ChecklistModel) renderTasks(snap models.Snapshot) string {
	var b strings.Builder

	domainStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Background(lipgloss.Color(ColorAccentMain))

	if len(snap.Domains) == 0 {
		return mutedStyle.Italic(true).Render("No domains yet")
	}

	i := 0
	for _, status := range metrics.DomainStatus(snap, m.date) {
		d := status.Domain
		name := strings.ToUpper(d.Name)
		switch {
		case !d.IsActive:
			b.WriteString(mutedStyle.Render(name + " (inactive)"))
		case status.Completed:
			b.WriteString(domainStyle.Render(name) + doneStyle.Render(" ✓"))
		default:
			b.WriteString(domainStyle.Render(name))
		}
		b.WriteString("\n")

		empty := true
		for ; i < len(m.rows) && m.rows[i].domain.ID == d.ID; i++ {
			empty = false
			t := m.rows[i].task
			box := "[ ]"
			if _, ok := snap.CompletionFor(t.ID, m.date); ok {
				box = doneStyle.Render("[x]")
			}
			line := fmt.Sprintf("%s +%s", t.Title, formatPoints(t.Points))
			if i == m.cursor {
				line = selectedStyle.Render(line)
			}
			b.WriteString("  " + box + " " + line + "\n")
		}
		if empty {
			b.WriteString(mutedStyle.Render("  (no tasks)") + "\n")
		}
	}
	return b.String()
}

func (m ChecklistModel) renderStatus() string {
	if n := len(m.session.Pending()); n > 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).Render(fmt.Sprintf("Saving %d change(s)...", n))
	}
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
	if failures := m.session.Failures(); len(failures) > 0 {
		last := failures[len(failures)-1]
		return errStyle.Render(fmt.Sprintf("✗ %d change(s) failed and were reverted; last: %s: %v (x to dismiss)", len(failures), last.Kind, last.Err))
	}
	if m.err != nil {
		return errStyle.Render("✗ " + m.err.Error())
	}
	if m.status != "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render(m.status)
	}
	return ""
}

func formatPoints(p float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", p), "0"), ".")
}
