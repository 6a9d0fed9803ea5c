package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDomainCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domain",
		Short: "Manage life domains",
	}
	cmd.AddCommand(newDomainAddCmd(a))
	cmd.AddCommand(newDomainEditCmd(a))
	cmd.AddCommand(newDomainRmCmd(a))
	cmd.AddCommand(newDomainLsCmd(a))
	return cmd
}

func newDomainAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a domain",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.withApp(func(cmd *cobra.Command, args []string) error {
			d, err := a.tracker.AddDomain(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ New domain %q added - ID: %s\n", d.Name, shortID(d.ID))
			return nil
		}),
	}
}

func newDomainEditCmd(a *app) *cobra.Command {
	var (
		name   string
		active bool
		order  int
	)
	cmd := &cobra.Command{
		Use:   "edit <domain>",
		Short: "Rename, reorder or (de)activate a domain",
		Long: `Change fields of a domain, given by name, id or id prefix.
Inactive domains are not required for a day to count toward the streak.

Usage:
  lifetrack domain edit social --active=false
  lifetrack domain edit financial --name money --order 0`,
		Args: cobra.ExactArgs(1),
		RunE: a.withApp(func(cmd *cobra.Command, args []string) error {
			d, err := a.tracker.ResolveDomain(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				d.Name = strings.TrimSpace(name)
			}
			if cmd.Flags().Changed("active") {
				d.IsActive = active
			}
			if cmd.Flags().Changed("order") {
				d.Order = order
			}
			if err := a.tracker.UpdateDomain(cmd.Context(), d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Updated domain %s\n", d.Name)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "New name")
	cmd.Flags().BoolVar(&active, "active", true, "Whether the domain counts toward the streak")
	cmd.Flags().IntVar(&order, "order", 0, "Display position")
	return cmd
}

func newDomainRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <domain>",
		Aliases: []string{"delete"},
		Short:   "Delete a domain with its tasks and their completions",
		Args:    cobra.ExactArgs(1),
		RunE: a.withApp(func(cmd *cobra.Command, args []string) error {
			d, err := a.tracker.ResolveDomain(args[0])
			if err != nil {
				return err
			}
			tasks := len(a.tracker.Snapshot().TasksInDomain(d.ID))
			if err := a.tracker.DeleteDomain(cmd.Context(), d.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted domain %s and %d task(s)\n", d.Name, tasks)
			return nil
		}),
	}
}

func newDomainLsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List domains",
		Args:    cobra.NoArgs,
		RunE: a.withApp(func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			snap := a.tracker.Snapshot()
			fmt.Fprintf(out, "%-10s %-20s %-6s %-6s %s\n", "ID", "NAME", "ORDER", "TASKS", "ACTIVE")
			fmt.Fprintln(out, strings.Repeat("-", 52))
			for _, d := range snap.Domains {
				active := "yes"
				if !d.IsActive {
					active = "no"
				}
				fmt.Fprintf(out, "%-10s %-20s %-6d %-6d %s\n",
					shortID(d.ID), truncate(d.Name, 20), d.Order, len(snap.TasksInDomain(d.ID)), active)
			}
			return nil
		}),
	}
}
