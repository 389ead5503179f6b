package main

import (
	"strings"

	"github.com/matsen/questjournal/internal/quest"
	"github.com/spf13/cobra"
)

func newAddCmd(a *app) *cobra.Command {
	var priority, due string

	cmd := &cobra.Command{
		Use:     "add <description>",
		Aliases: []string{"a"},
		Short:   "Add a new quest",
		Long: `Add a new Uncharted quest to the journal.

Multiple arguments are joined with spaces. The priority defaults to
default_priority from the config file, or Medium.

Examples:
  quest add "Find the Lost Ark" --priority High
  quest add Buy torch --due 2025-10-01`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.openRepository()
			if err != nil {
				return err
			}
			q, err := repo.Add(strings.Join(args, " "), quest.Priority(priority), due)
			if err != nil {
				return err
			}
			return a.outputQuest("added", "Added", q)
		},
	}

	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority: Low, Medium or High")
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due date (YYYY-MM-DD)")
	return cmd
}
