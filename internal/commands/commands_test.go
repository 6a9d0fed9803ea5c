package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/lifetrack/internal/models"
)

var testNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// setup points config at a temp store and returns a runner for the CLI.
func setup(t *testing.T) func(stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LIFETRACK_STORAGE_DRIVER", "sqlite")
	t.Setenv("LIFETRACK_STORAGE_PATH", filepath.Join(t.TempDir(), "lifetrack.db"))
	t.Setenv("LIFETRACK_TIMEZONE", "UTC")
	t.Setenv("LIFETRACK_LOG_LEVEL", "error")

	return func(stdin string, args ...string) (string, error) {
		var out, errOut bytes.Buffer
		cmd := newRootCmd(&app{now: func() time.Time { return testNow }})
		cmd.SetArgs(args)
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetIn(strings.NewReader(stdin))
		err := cmd.Execute()
		return out.String(), err
	}
}

func exportSnapshot(t *testing.T, run func(string, ...string) (string, error)) models.Snapshot {
	t.Helper()
	out, err := run("", "export")
	require.NoError(t, err)
	var snap models.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	return snap
}

func findTask(t *testing.T, snap models.Snapshot, title string) models.Task {
	t.Helper()
	for _, task := range snap.Tasks {
		if task.Title == title {
			return task
		}
	}
	t.Fatalf("no task titled %q", title)
	return models.Task{}
}

func TestToday_ShowsSeededChecklist(t *testing.T) {
	run := setup(t)

	out, err := run("", "today")
	require.NoError(t, err)
	assert.Contains(t, out, "Today (Fri 01 Mar 2024)")
	assert.Contains(t, out, "Points: 0   Streak: 0   Qualifies: no")
	assert.Contains(t, out, "PHYSICAL")
	assert.Contains(t, out, "Open app")
	assert.Contains(t, out, "3 exercises")
	assert.Contains(t, out, "(no tasks)")
}

func TestDone_TogglesCompletion(t *testing.T) {
	run := setup(t)
	task := findTask(t, exportSnapshot(t, run), "3 exercises")

	out, err := run("", "done", shortID(task.ID))
	require.NoError(t, err)
	assert.Contains(t, out, `Completed "3 exercises"`)
	assert.Contains(t, out, "Points: 2")

	snap := exportSnapshot(t, run)
	require.Len(t, snap.Completions, 1)
	assert.Equal(t, "2024-03-01", snap.Completions[0].Date)
	assert.Equal(t, 2.0, snap.Completions[0].PointsEarned)

	out, err = run("", "toggle", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Undid")
	assert.Empty(t, exportSnapshot(t, run).Completions)

	_, err = run("", "done", task.ID, "--date", "yesterday")
	require.NoError(t, err)
	snap = exportSnapshot(t, run)
	require.Len(t, snap.Completions, 1)
	assert.Equal(t, "2024-02-29", snap.Completions[0].Date)
}

func TestDone_UnknownTask(t *testing.T) {
	run := setup(t)
	_, err := run("", "done", "nope")
	assert.ErrorIs(t, err, models.ErrTaskNotFound)

	_, err = run("", "done", "nope", "--date", "someday")
	assert.Error(t, err)
}

func TestStreakAcrossDomains(t *testing.T) {
	run := setup(t)

	// a single active domain makes one task enough to qualify
	for _, d := range []string{"financial", "social", "spiritual"} {
		_, err := run("", "domain", "edit", d, "--active=false")
		require.NoError(t, err)
	}
	task := findTask(t, exportSnapshot(t, run), "Open app")
	for _, day := range []string{"2024-02-28", "2024-02-29", "2024-03-01"} {
		_, err := run("", "done", task.ID, "--date", day)
		require.NoError(t, err)
	}

	out, err := run("", "today")
	require.NoError(t, err)
	assert.Contains(t, out, "Streak: 3   Qualifies: yes")
	assert.Contains(t, out, "SOCIAL")
	assert.Contains(t, out, "(inactive)")
}

func TestTaskCommands(t *testing.T) {
	run := setup(t)

	out, err := run("", "task", "add", "Read 20 pages @spiritual +2.5 ~weekly")
	require.NoError(t, err)
	assert.Contains(t, out, `New task "Read 20 pages" added to Spiritual`)

	task := findTask(t, exportSnapshot(t, run), "Read 20 pages")
	assert.Equal(t, "spiritual", task.DomainID)
	assert.Equal(t, 2.5, task.Points)
	assert.Equal(t, models.FrequencyWeekly, task.Frequency)
	assert.Equal(t, 2, task.Order)

	_, err = run("", "task", "add", "Budget", "--domain", "financial", "-p", "3")
	require.NoError(t, err)
	assert.Equal(t, 3.0, findTask(t, exportSnapshot(t, run), "Budget").Points)

	_, err = run("", "task", "add", "No domain here")
	assert.True(t, models.IsError(err, models.ErrCodeInvalid))

	for _, args := range [][]string{
		{"task", "add", "Bad @spiritual +lots"},
		{"task", "add", "Bad @spiritual +NaN"},
		{"task", "add", "Bad @spiritual", "--points", "Inf"},
		{"task", "add", "Bad @spiritual", "--points", "NaN"},
	} {
		_, err = run("", args...)
		assert.True(t, models.IsError(err, models.ErrCodeInvalid), args)
	}
	_, err = run("", "task", "edit", task.ID, "--points", "NaN")
	assert.True(t, models.IsError(err, models.ErrCodeInvalid))
	_, err = run("", "export")
	require.NoError(t, err)

	_, err = run("", "task", "edit", task.ID, "--title", "Read 30 pages", "--points", "4", "--active=false")
	require.NoError(t, err)
	edited := findTask(t, exportSnapshot(t, run), "Read 30 pages")
	assert.Equal(t, 4.0, edited.Points)
	assert.False(t, edited.IsActive)
	assert.Equal(t, models.FrequencyWeekly, edited.Frequency)

	out, err = run("", "today")
	require.NoError(t, err)
	assert.NotContains(t, out, "Read 30 pages")
	out, err = run("", "today", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Read 30 pages")

	out, err = run("", "task", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "Budget")

	_, err = run("", "done", task.ID)
	require.NoError(t, err)
	_, err = run("", "task", "rm", task.ID)
	require.NoError(t, err)
	snap := exportSnapshot(t, run)
	assert.Len(t, snap.Tasks, 3)
	assert.Empty(t, snap.Completions)
}

func TestDomainCommands(t *testing.T) {
	run := setup(t)

	out, err := run("", "domain", "add", "Creative", "work")
	require.NoError(t, err)
	assert.Contains(t, out, `New domain "Creative work" added`)

	_, err = run("", "domain", "edit", "creative work", "--name", "Art", "--order", "9")
	require.NoError(t, err)

	out, err = run("", "domain", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "Art")
	assert.NotContains(t, out, "Creative")

	task := findTask(t, exportSnapshot(t, run), "Open app")
	_, err = run("", "done", task.ID)
	require.NoError(t, err)

	out, err = run("", "domain", "rm", "physical")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted domain Physical and 2 task(s)")

	snap := exportSnapshot(t, run)
	assert.Len(t, snap.Domains, 4)
	assert.Empty(t, snap.Tasks)
	assert.Empty(t, snap.Completions)

	_, err = run("", "domain", "rm", "ghost")
	assert.ErrorIs(t, err, models.ErrDomainNotFound)
}

func TestStats(t *testing.T) {
	run := setup(t)
	task := findTask(t, exportSnapshot(t, run), "3 exercises")
	_, err := run("", "done", task.ID, "--date=-1")
	require.NoError(t, err)

	out, err := run("", "stats", "--days", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Last 7 days")
	assert.Contains(t, out, "2024-02-24")
	assert.Contains(t, out, "2024-02-29")
	assert.Contains(t, out, "7-day buckets: 2 (total 2)")
	assert.Contains(t, out, "Physical")
	assert.Contains(t, out, "100%")
}

func TestExportImportReset(t *testing.T) {
	run := setup(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "backup.json")

	task := findTask(t, exportSnapshot(t, run), "Open app")
	_, err := run("", "done", task.ID)
	require.NoError(t, err)

	out, err := run("", "export", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported to")

	out, err = run("y\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Data reset to defaults.")
	assert.Empty(t, exportSnapshot(t, run).Completions)

	out, err = run("", "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 4 domains, 2 tasks, 1 completions")

	_, err = run(`{"domains": {}, "tasks": [], "completions": []}`, "import", "-")
	require.Error(t, err)
	assert.Equal(t, "invalid data", err.Error())
	assert.Len(t, exportSnapshot(t, run).Completions, 1)

	out, err = run("n\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "cancelled")
	assert.Len(t, exportSnapshot(t, run).Completions, 1)

	_, err = run("", "reset", "--yes")
	require.NoError(t, err)
	assert.Empty(t, exportSnapshot(t, run).Completions)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"completions": [`)
}

func TestRepairAndVersion(t *testing.T) {
	run := setup(t)

	out, err := run("", "repair")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to repair.")

	out, err = run("", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "lifetrack dev")

	out, err = run("", "help")
	require.NoError(t, err)
	assert.Contains(t, out, "lifetrack - CLI Habit Tracker")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))

	got := truncate("Ранкова медитація й розтяжка", 12)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 12)
}
