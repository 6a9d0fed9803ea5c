package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/balkashynov/lifetrack/internal/models"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export all data as JSON",
		Long: `Write domains, tasks and completions as one JSON document, to the given
file or to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.withApp(func(cmd *cobra.Command, args []string) error {
			data, err := a.tracker.Export(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 0 || args[0] == "-" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(args[0], append(data, '\n'), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Exported to %s\n", args[0])
			return nil
		}),
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace all data with a JSON export",
		Long: `Replace every domain, task and completion with the contents of an export.
Nothing changes if the document is not a valid export.`,
		Args: cobra.ExactArgs(1),
		RunE: a.withApp(func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			if err := a.tracker.Import(cmd.Context(), data); err != nil {
				a.log.Warn("Import failed", zap.Error(err))
				if errors.Is(err, models.ErrInvalidData) {
					return models.ErrInvalidData
				}
				return err
			}
			snap := a.tracker.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Imported %d domains, %d tasks, %d completions\n",
				len(snap.Domains), len(snap.Tasks), len(snap.Completions))
			return nil
		}),
	}
}

func newResetCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Replace all data with the defaults",
		Args:  cobra.NoArgs,
		RunE: a.withApp(func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !yes {
				fmt.Fprint(out, "This deletes every domain, task and completion. Continue? [y/N] ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(out, "❌ Reset cancelled.")
					return nil
				}
			}
			if err := a.tracker.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out, "✅ Data reset to defaults.")
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func newRepairCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Remove tasks and completions whose parent is gone",
		Args:  cobra.NoArgs,
		RunE: a.withApp(func(cmd *cobra.Command, args []string) error {
			report, err := a.store.Repair(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if report.Empty() {
				fmt.Fprintln(out, "Nothing to repair.")
				return nil
			}
			fmt.Fprintf(out, "🔧 Removed %d orphaned task(s) and %d orphaned completion(s)\n",
				len(report.Tasks), len(report.Completions))
			return nil
		}),
	}
}
