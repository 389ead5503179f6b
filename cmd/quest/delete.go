package main

import (
	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"del", "rm"},
		Short:   "Delete a quest permanently",
		Long: `Delete a quest permanently. Other quests keep their ids and the deleted
id is never given to a new quest.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			repo, err := a.openRepository()
			if err != nil {
				return err
			}
			q, err := repo.Delete(id)
			if err != nil {
				return err
			}
			return a.outputQuest("deleted", "Deleted", q)
		},
	}
}
