package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/balkashynov/lifetrack/internal/metrics"
	"github.com/balkashynov/lifetrack/internal/parser"
)

const barWidth = 30

var barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))

func newStatsCmd(a *app) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show points over time",
		Long: `Show the daily points series ending at --date, the weekly and monthly
bucket totals, and how the points split across domains.`,
		Args: cobra.NoArgs,
		RunE: a.withApp(func(cmd *cobra.Command, args []string) error {
			end, err := a.date()
			if err != nil {
				return err
			}
			w := metrics.Window{
				Days:    a.cfg.Stats.Days,
				Weekly:  a.cfg.Stats.WeeklyWindow,
				Monthly: a.cfg.Stats.MonthlyWindow,
			}
			if cmd.Flags().Changed("days") {
				if days < 1 {
					return fmt.Errorf("--days must be positive")
				}
				w.Days = days
			}

			s, err := metrics.Summarize(a.tracker.Snapshot(), end, w)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), s, a.today(), w)
			return nil
		}),
	}
	cmd.Flags().IntVarP(&days, "days", "n", 0, "Days in the series (default from config)")
	return cmd
}

func printSummary(w io.Writer, s metrics.Summary, today string, win metrics.Window) {
	qualifies := "no"
	if s.Qualifies {
		qualifies = "yes"
	}
	fmt.Fprintln(w, headerStyle.Render("Stats through "+parser.FormatDate(s.Date, today)))
	fmt.Fprintf(w, "Points: %s   Streak: %d   Qualifies: %s\n\n", formatPoints(s.Points), s.Streak, qualifies)

	var peak float64
	for _, d := range s.Days {
		if d.Points > peak {
			peak = d.Points
		}
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Last %d days", len(s.Days))))
	for _, d := range s.Days {
		fmt.Fprintf(w, "%s %s %s\n", d.Date, barStyle.Render(bar(d.Points, peak)), formatPoints(d.Points))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d-day buckets: %s (total %s)\n", win.Weekly, joinPoints(s.Weekly), formatPoints(s.WeeklySum))
	fmt.Fprintf(w, "%d-day buckets: %s (total %s)\n", win.Monthly, joinPoints(s.Monthly), formatPoints(s.MonthlySum))

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("Focus by domain"))
	var total float64
	for _, d := range s.ByDomain {
		total += d.Points
	}
	for _, d := range s.ByDomain {
		share := 0.0
		if total > 0 {
			share = d.Points / total * 100
		}
		fmt.Fprintf(w, "%-16s %-8s %3.0f%% %s\n", truncate(d.Domain.Name, 16), formatPoints(d.Points), share, barStyle.Render(bar(d.Points, total)))
	}
}

func bar(v, peak float64) string {
	if peak <= 0 || v <= 0 {
		return ""
	}
	n := int(v / peak * barWidth)
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

func joinPoints(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatPoints(v)
	}
	return strings.Join(parts, " ")
}
