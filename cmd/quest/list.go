package main

import (
	"github.com/matsen/questjournal/internal/quest"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var status, priority string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"l", "ls"},
		Short:   "List quests",
		Long: `List quests in the order they were added. Filters combine: only quests
matching every given filter are shown.

Examples:
  quest list
  quest list --status Uncharted --priority High`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.openRepository()
			if err != nil {
				return err
			}
			quests, err := repo.List(quest.Filter{
				Status:   quest.Status(status),
				Priority: quest.Priority(priority),
			})
			if err != nil {
				return err
			}
			return a.outputQuests(quests, "No quests found.")
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Only quests with this status: Uncharted or Discovered")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Only quests with this priority: Low, Medium or High")
	return cmd
}
