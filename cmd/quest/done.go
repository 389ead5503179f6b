package main

import "github.com/spf13/cobra"

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "done <id>",
		Aliases: []string{"d"},
		Short:   "Mark a quest as Discovered",
		Long: `Mark a quest as Discovered.

A quest that is already Discovered is left as it is; the command reports
it on stderr and exits with status 5.`,
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

			q, err := repo.Done(id)
			if err != nil {
				return err
			}
			return a.outputQuest("discovered", "Discovered", q)
		},
	}
}
