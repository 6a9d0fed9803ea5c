package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/lifetrack/internal/models"
	"github.com/balkashynov/lifetrack/internal/parser"
)

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(newTaskAddCmd(a))
	cmd.AddCommand(newTaskEditCmd(a))
	cmd.AddCommand(newTaskRmCmd(a))
	cmd.AddCommand(newTaskLsCmd(a))
	return cmd
}

func newTaskAddCmd(a *app) *cobra.Command {
	var (
		domain    string
		points    float64
		frequency string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Long: `Add a task with optional metadata.

Smart parsing syntax:
  @domain     - Domain name or id (required unless --domain is given)
  +points     - Points per completion (default 1)
  ~frequency  - daily, weekly or one_time (default daily)

Flags override values parsed from the title.

Example:
  lifetrack task add "Read 20 pages @spiritual +2"`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.withApp(func(cmd *cobra.Command, args []string) error {
			parsed := parser.ParseTask(strings.Join(args, " "))
			if len(parsed.Errors) > 0 {
				return models.NewError(models.ErrCodeInvalid, strings.Join(parsed.Errors, "; "))
			}

			if cmd.Flags().Changed("domain") {
				parsed.Domain = domain
			}
			if parsed.Domain == "" {
				return models.NewError(models.ErrCodeInvalid, "a domain is required: use @domain or --domain")
			}
			d, err := a.tracker.ResolveDomain(parsed.Domain)
			if err != nil {
				return err
			}

			task := a.tracker.NewTask(d.ID)
			if parsed.Title != "" {
				task.Title = parsed.Title
			}
			if parsed.Points != nil {
				task.Points = *parsed.Points
			}
			if cmd.Flags().Changed("points") {
				if err := models.ValidatePoints(points); err != nil {
					return err
				}
				task.Points = points
			}
			if parsed.Frequency != "" {
				task.Frequency = parsed.Frequency
			}
			if cmd.Flags().Changed("frequency") {
				if task.Frequency, err = models.ParseFrequency(strings.ToLower(frequency)); err != nil {
					return err
				}
			}

			if err := a.tracker.AddTask(cmd.Context(), task); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ New task %q added to %s - ID: %s\n", task.Title, d.Name, shortID(task.ID))
			return nil
		}),
	}
	cmd.Flags().StringVar(&domain, "domain", "", "Domain name or id")
	cmd.Flags().Float64VarP(&points, "points", "p", 1, "Points per completion")
	cmd.Flags().StringVarP(&frequency, "frequency", "f", "", "daily, weekly or one_time")
	return cmd
}

func newTaskEditCmd(a *app) *cobra.Command {
	var (
		title     string
		domain    string
		points    float64
		frequency string
		active    bool
		order     int
	)
	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit a task",
		Long: `Change fields of an existing task. Only the given flags are changed.
Completions already recorded keep the points they earned.

Usage:
  lifetrack task edit 3f2a --points 3
  lifetrack task edit 3f2a --active=false`,
		Args: cobra.ExactArgs(1),
		RunE: a.withApp(func(cmd *cobra.Command, args []string) error {
			task, err := a.tracker.ResolveTask(args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("title") {
				task.Title = strings.TrimSpace(title)
			}
			if flags.Changed("domain") {
				d, err := a.tracker.ResolveDomain(domain)
				if err != nil {
					return err
				}
				task.DomainID = d.ID
			}
			if flags.Changed("points") {
				if err := models.ValidatePoints(points); err != nil {
					return err
				}
				task.Points = points
			}
			if flags.Changed("frequency") {
				if task.Frequency, err = models.ParseFrequency(strings.ToLower(frequency)); err != nil {
					return err
				}
			}
			if flags.Changed("active") {
				task.IsActive = active
			}
			if flags.Changed("order") {
				task.Order = order
			}

			if err := a.tracker.EditTask(cmd.Context(), task); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Updated task %s: %s\n", shortID(task.ID), task.Title)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVar(&domain, "domain", "", "Move to domain (name or id)")
	cmd.Flags().Float64VarP(&points, "points", "p", 0, "Points per completion")
	cmd.Flags().StringVarP(&frequency, "frequency", "f", "", "daily, weekly or one_time")
	cmd.Flags().BoolVar(&active, "active", true, "Whether the task is shown")
	cmd.Flags().IntVar(&order, "order", 0, "Display position")
	return cmd
}

func newTaskRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task and its completions",
		Args:    cobra.ExactArgs(1),
		RunE: a.withApp(func(cmd *cobra.Command, args []string) error {
			task, err := a.tracker.ResolveTask(args[0])
			if err != nil {
				return err
			}
			if err := a.tracker.DeleteTask(cmd.Context(), task.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted task %s: %s\n", shortID(task.ID), task.Title)
			return nil
		}),
	}
}

func newTaskLsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: a.withApp(func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			snap := a.tracker.Snapshot()
			if len(snap.Tasks) == 0 {
				fmt.Fprintln(out, "No tasks found. Use 'lifetrack task add \"title @domain\"' to create your first task.")
				return nil
			}

			// Print table header
			fmt.Fprintf(out, "%-8s  %-32s %-12s %-7s %-9s %s\n", "ID", "TITLE", "DOMAIN", "POINTS", "FREQ", "ACTIVE")
			fmt.Fprintln(out, strings.Repeat("-", 80))
			for _, task := range snap.Tasks {
				domainName := task.DomainID
				if d, ok := snap.Domain(task.DomainID); ok {
					domainName = d.Name
				}
				active := "yes"
				if !task.IsActive {
					active = "no"
				}
				fmt.Fprintf(out, "%-8s  %-32s %-12s %-7s %-9s %s\n",
					shortID(task.ID),
					truncate(task.Title, 32),
					truncate(domainName, 12),
					formatPoints(task.Points),
					task.Frequency,
					active)
			}
			return nil
		}),
	}
}
