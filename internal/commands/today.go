package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/balkashynov/lifetrack/internal/metrics"
	"github.com/balkashynov/lifetrack/internal/models"
	"github.com/balkashynov/lifetrack/internal/parser"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
)

func newTodayCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:     "today",
		Aliases: []string{"ls"},
		Short:   "Show the checklist for a day",
		Long: `Show every domain with its tasks checked off for the day, plus the day's
points, whether it counts toward the streak, and the current streak.

Usage:
  lifetrack today
  lifetrack ls --date yesterday
  lifetrack ls --all       - include inactive tasks`,
		Args: cobra.NoArgs,
		RunE: a.withApp(func(cmd *cobra.Command, args []string) error {
			day, err := a.date()
			if err != nil {
				return err
			}
			printDay(cmd.OutOrStdout(), a.tracker.Snapshot(), day, a.today(), all)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include inactive tasks")
	return cmd
}

func printDay(w io.Writer, snap models.Snapshot, day, today string, all bool) {
	qualifies := "no"
	if metrics.Qualifies(snap, day) {
		qualifies = "yes"
	}
	fmt.Fprintln(w, headerStyle.Render(parser.FormatDate(day, today)))
	fmt.Fprintf(w, "Points: %s   Streak: %d   Qualifies: %s\n\n",
		formatPoints(metrics.PointsForDate(snap, day)),
		metrics.Streak(snap, day),
		qualifies)

	for _, status := range metrics.DomainStatus(snap, day) {
		name := strings.ToUpper(status.Domain.Name)
		switch {
		case !status.Domain.IsActive:
			name += mutedStyle.Render(" (inactive)")
		case status.Completed:
			name += doneStyle.Render(" ✓")
		}
		fmt.Fprintln(w, name)

		shown := 0
		for _, task := range snap.TasksInDomain(status.Domain.ID) {
			if !task.IsActive && !all {
				continue
			}
			box := "[ ]"
			if _, ok := snap.CompletionFor(task.ID, day); ok {
				box = doneStyle.Render("[x]")
			}
			line := fmt.Sprintf("  %s %-8s  %-32s +%s", box, shortID(task.ID), truncate(task.Title, 32), formatPoints(task.Points))
			if task.Frequency != models.FrequencyDaily {
				line += mutedStyle.Render(" ~" + string(task.Frequency))
			}
			if !task.IsActive {
				line += mutedStyle.Render(" (inactive)")
			}
			fmt.Fprintln(w, line)
			shown++
		}
		if shown == 0 {
			fmt.Fprintln(w, mutedStyle.Render("  (no tasks)"))
		}
	}
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "done <task-id>",
		Aliases: []string{"toggle"},
		Short:   "Toggle a task's completion for a day",
		Long: `Mark a task as completed for the day, or undo it if it already is.
The task id may be a unique prefix.

Usage:
  lifetrack done 3f2a
  lifetrack done 3f2a --date yesterday`,
		Args: cobra.ExactArgs(1),
		RunE: a.withApp(func(cmd *cobra.Command, args []string) error {
			day, err := a.date()
			if err != nil {
				return err
			}
			task, err := a.tracker.ResolveTask(args[0])
			if err != nil {
				return err
			}
			done, err := a.tracker.ToggleCompletion(cmd.Context(), task.ID, day)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			label := parser.FormatDate(day, a.today())
			if done {
				fmt.Fprintf(out, "✅ Completed %q for %s (+%s)\n", task.Title, label, formatPoints(task.Points))
			} else {
				fmt.Fprintf(out, "↩️  Undid %q for %s\n", task.Title, label)
			}

			snap := a.tracker.Snapshot()
			fmt.Fprintf(out, "Points: %s   Streak: %d\n",
				formatPoints(metrics.PointsForDate(snap, day)),
				metrics.Streak(snap, day))
			return nil
		}),
	}
}

// shortID is the first 8 characters of an id, enough to resolve it again.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncate cuts s to n terminal cells without splitting a rune.
func truncate(s string, n int) string {
	return ansi.Truncate(s, n, "...")
}

func formatPoints(p float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", p), "0"), ".")
}
