package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/matsen/questjournal/internal/export"
	"github.com/spf13/cobra"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one quest in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			repo, err := a.openRepository()
			if err != nil {
				return err
			}
			q, err := repo.Get(id)
			if err != nil {
				return err
			}

			if a.jsonOutput {
				return a.outputJSON(QuestResult{Status: "found", Quest: q})
			}

			now := a.now()
			fmt.Fprintf(a.stdout, "Quest %d: %s\n", q.ID, q.Description)
			fmt.Fprintf(a.stdout, "  Status:   %s\n", q.Status)
			fmt.Fprintf(a.stdout, "  Priority: %s\n", q.Priority)
			switch {
			case q.DueDate == "":
				fmt.Fprintf(a.stdout, "  Due:      none\n")
			case q.Overdue(now):
				fmt.Fprintf(a.stdout, "  Due:      %s (%s, overdue)\n", q.DueDate, export.RelativeDue(q, now))
			default:
				fmt.Fprintf(a.stdout, "  Due:      %s (%s)\n", q.DueDate, export.RelativeDue(q, now))
			}
			if created, ok := q.Created(); ok {
				fmt.Fprintf(a.stdout, "  Created:  %s (%s)\n", q.CreatedAt, humanize.RelTime(created, now, "ago", "from now"))
			}
			return nil
		},
	}
}
