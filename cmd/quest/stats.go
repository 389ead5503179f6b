package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/matsen/questjournal/internal/quest"
	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the journal",
		Long:  `Show quest counts by status and priority, overdue quests and the completion rate.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.openRepository()
			if err != nil {
				return err
			}
			s := repo.Stats()
			if a.jsonOutput {
				return a.outputJSON(s)
			}

			r := lipgloss.NewRenderer(a.stdout)
			label := r.NewStyle().Bold(true).Padding(0, 1)
			value := r.NewStyle().Padding(0, 1).Align(lipgloss.Right)

			rows := [][]string{
				{"Total", fmt.Sprint(s.Total)},
				{"Discovered", fmt.Sprint(s.Discovered)},
				{"Uncharted", fmt.Sprint(s.Uncharted)},
				{"Overdue", fmt.Sprint(s.Overdue)},
			}
			for _, p := range quest.ValidPriorities {
				rows = append(rows, []string{string(p) + " priority", fmt.Sprint(s.ByPriority[p])})
			}
			rows = append(rows, []string{"Completion", fmt.Sprintf("%.1f%%", s.CompletionRate)})

			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(r.NewStyle().Faint(true)).
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if col == 0 {
						return label
					}
					return value
				})
			fmt.Fprintln(a.stdout, t.String())
			return nil
		},
	}
}
