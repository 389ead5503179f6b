package main

import (
	"fmt"
	"strings"

	"github.com/matsen/questjournal/internal/quest"
	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	var status, priority string

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Find quests whose description contains a keyword",
		Long: `Find quests whose description contains the keyword, ignoring case.
Multiple arguments are joined with spaces. --status and --priority narrow
the matches further.

Examples:
  quest search temple
  quest search "crystal skull" --status Uncharted`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := quest.Filter{Status: quest.Status(status), Priority: quest.Priority(priority)}
			repo, err := a.openRepository()
			if err != nil {
				return err
			}
			keyword := strings.Join(args, " ")
			matches, err := repo.Search(keyword)
			if err != nil {
				return err
			}
			// List applies the same validation to filter values.
			allowed, err := repo.List(filter)
			if err != nil {
				return err
			}
			ids := make(map[int]bool, len(allowed))
			for _, q := range allowed {
				ids[q.ID] = true
			}
			results := make([]quest.Quest, 0, len(matches))
			for _, q := range matches {
				if ids[q.ID] {
					results = append(results, q)
				}
			}
			return a.outputQuests(results, fmt.Sprintf("No quests match %q.", strings.TrimSpace(keyword)))
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Only quests with this status: Uncharted or Discovered")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Only quests with this priority: Low, Medium or High")
	return cmd
}
