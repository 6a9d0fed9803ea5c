package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/balkashynov/lifetrack/internal/db"
	"github.com/balkashynov/lifetrack/internal/models"
	"github.com/balkashynov/lifetrack/internal/tracker"
)

func newModel(t *testing.T) (ChecklistModel, *tracker.Tracker) {
	t.Helper()
	store, err := db.Open(db.Options{
		Driver: db.DriverBolt,
		Path:   filepath.Join(t.TempDir(), "lifetrack.bolt"),
		Logger: zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	tr := tracker.New(store,
		tracker.WithLogger(zaptest.NewLogger(t)),
		tracker.WithClock(func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }))
	require.NoError(t, tr.Load(context.Background()))

	today := func() string { return "2024-03-01" }
	return NewChecklistModel(context.Background(), tr, "2024-03-01", today), tr
}

// send feeds msg to the model and runs the resulting command, if any, once.
func send(t *testing.T, m ChecklistModel, msg tea.Msg) ChecklistModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(ChecklistModel)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, ok := out.(changeDoneMsg); ok {
				next, _ = m.Update(out)
				m = next.(ChecklistModel)
			}
		}
	}
	return m
}

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestChecklist_ToggleSelectedTask(t *testing.T) {
	m, tr := newModel(t)
	require.Len(t, m.rows, 2)

	m = send(t, m, press("down"))
	assert.Equal(t, 1, m.cursor)

	m = send(t, m, press("enter"))
	selected := m.rows[1].task
	c, ok := tr.Snapshot().CompletionFor(selected.ID, "2024-03-01")
	require.True(t, ok)
	assert.Equal(t, selected.Points, c.PointsEarned)
	assert.Contains(t, m.View(), "[x]")
	assert.Contains(t, m.View(), "Points 2")

	m = send(t, m, press("enter"))
	_, ok = tr.Snapshot().CompletionFor(selected.ID, "2024-03-01")
	assert.False(t, ok)
	assert.NotContains(t, m.View(), "[x]")
}

func TestChecklist_ChangeDay(t *testing.T) {
	m, tr := newModel(t)

	m = send(t, m, press("left"))
	assert.Equal(t, "2024-02-29", m.Date())

	m = send(t, m, press("enter"))
	_, ok := tr.Snapshot().CompletionFor(m.rows[0].task.ID, "2024-02-29")
	assert.True(t, ok)

	m = send(t, m, press("right"))
	m = send(t, m, press("right"))
	assert.Equal(t, "2024-03-02", m.Date())

	m = send(t, m, press("t"))
	assert.Equal(t, "2024-03-01", m.Date())
}

func TestChecklist_QuickAdd(t *testing.T) {
	m, tr := newModel(t)

	m = send(t, m, press("a"))
	require.True(t, m.adding)
	m = send(t, m, press("Journal @spiritual +2 ~weekly"))
	m = send(t, m, press("enter"))
	assert.False(t, m.adding)

	spiritual := tr.Snapshot().TasksInDomain("spiritual")
	require.Len(t, spiritual, 1)
	assert.Equal(t, "Journal", spiritual[0].Title)
	assert.Equal(t, 2.0, spiritual[0].Points)
	assert.Equal(t, models.FrequencyWeekly, spiritual[0].Frequency)
	assert.Len(t, m.rows, 3)

	// invalid input keeps the line open
	m = send(t, m, press("a"))
	m = send(t, m, press("Oops @nowhere"))
	m = send(t, m, press("enter"))
	assert.True(t, m.adding)
	assert.ErrorIs(t, m.err, models.ErrDomainNotFound)

	m = send(t, m, press("esc"))
	assert.False(t, m.adding)
}

func TestChecklist_QuitAndHelp(t *testing.T) {
	m, _ := newModel(t)

	m = send(t, m, press("?"))
	assert.True(t, m.help.ShowAll)

	_, cmd := m.Update(press("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
