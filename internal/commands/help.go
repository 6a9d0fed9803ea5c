package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help",
		Short: "Show comprehensive help for lifetrack",
		Long:  `Display detailed help for all lifetrack commands and flags.`,
		Run: func(cmd *cobra.Command, args []string) {
			showCustomHelp(cmd.OutOrStdout())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lifetrack %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

func showCustomHelp(w io.Writer) {
	fmt.Fprint(w, `
lifetrack - CLI Habit Tracker

Complete at least one task in every active domain each day to grow your streak.

COMMANDS:

  today                   Checklist for a day (alias: ls)
    -a, --all             Include inactive tasks

  done <task>             Toggle a task's completion (alias: toggle)

  task add <title>        Add a task with smart parsing
    --domain              Domain name or id
    -p, --points          Points per completion
    -f, --frequency       daily|weekly|one_time

    Smart syntax:
      @domain       Set domain
      +points       Set points (e.g. +2, +0.5)
      ~frequency    Set frequency

    Example:
      lifetrack task add "Read 20 pages @spiritual +2"

  task edit <task>        Edit a task
    -t, --title, --domain, -p, --points, -f, --frequency, --active, --order
  task rm <task>          Delete a task and its completions
  task ls                 List tasks

  domain add <name>       Add a domain
  domain edit <domain>    Rename, reorder or (de)activate
    -n, --name, --active, --order
  domain rm <domain>      Delete a domain, its tasks and their completions
  domain ls               List domains

  stats                   Daily series, weekly/monthly totals, focus by domain
    -n, --days            Days in the series

  export [file]           Write all data as JSON (stdout by default)
  import <file|->         Replace all data with an export
  reset                   Replace all data with the defaults
    -y, --yes             Skip confirmation
  repair                  Remove orphaned tasks and completions

  ui                      Interactive checklist
    Quick actions:
      ↑/↓           Navigate tasks
      space/enter   Mark done/undone
      ←/→           Previous/next day
      t             Jump to today
      a             Quick-add a task
      ?             Toggle help
      esc/q         Quit

  version                 Print version information
  help                    Show this help

GLOBAL FLAGS:
  -d, --date              today, yesterday, yyyy-mm-dd, dd/mm/yyyy, "3 days ago", -N
  --config                Config file (default ~/.lifetrack/config.yaml)
  -v, --verbose           Debug logging to stderr

Tasks and domains can be given by id, unique id prefix, or (domains) name.

`)
}
