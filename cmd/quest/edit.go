package main

import (
	"strings"

	"github.com/matsen/questjournal/internal/quest"
	"github.com/spf13/cobra"
)

func newEditCmd(a *app) *cobra.Command {
	var priority, due string
	var clearDue bool

	cmd := &cobra.Command{
		Use:     "edit <id> [description]",
		Aliases: []string{"e"},
		Short:   "Change a quest's description, priority or due date",
		Long: `Change a quest. Only the given fields are updated.

Examples:
  quest edit 3 "Decode the map with the staff"
  quest edit 3 --priority High --due 2025-10-01
  quest edit 3 --clear-due`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if clearDue && cmd.Flags().Changed("due") {
				return &quest.ValidationError{Field: "due_date", Reason: "--due and --clear-due cannot be combined"}
			}

			var changes quest.Changes
			if len(args) > 1 {
				desc := strings.Join(args[1:], " ")
				changes.Description = &desc
			}
			if cmd.Flags().Changed("priority") {
				changes.Priority = quest.Priority(priority)
				if priority == "" {
					return &quest.ValidationError{Field: "priority", Reason: "must be one of Low, Medium, High"}
				}
			}
			switch {
			case clearDue:
				none := ""
				changes.DueDate = &none
			case cmd.Flags().Changed("due"):
				if strings.TrimSpace(due) == "" {
					return &quest.ValidationError{Field: "due_date", Reason: "use --clear-due to remove a due date"}
				}
				changes.DueDate = &due
			}

			repo, err := a.openRepository()
			if err != nil {
				return err
			}
			q, err := repo.Edit(id, changes)
			if err != nil {
				return err
			}
			return a.outputQuest("updated", "Updated", q)
		},
	}

	cmd.Flags().StringVarP(&priority, "priority", "p", "", "New priority: Low, Medium or High")
	cmd.Flags().StringVarP(&due, "due", "d", "", "New due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	return cmd
}
