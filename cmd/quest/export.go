package main

import (
	"fmt"

	"github.com/matsen/questjournal/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the journal as JSON, CSV, text or SQLite",
		Long: `Export every quest in journal order.

Output goes to stdout unless --output names a file. The sqlite format
writes a snapshot database and always needs --output.

Examples:
  quest export
  quest export --format csv > quests.csv
  quest export --format txt
  quest export --format sqlite -o quests.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if f.NeedsFile() && output == "" {
				return fmt.Errorf("--format %s requires --output", f)
			}

			repo, err := a.openRepository()
			if err != nil {
				return err
			}
			quests := repo.All()

			if output == "" {
				return export.Write(a.stdout, f, quests, repo.Now())
			}

			n, err := export.WriteFile(output, f, quests, repo.Now())
			if err != nil {
				return err
			}
			a.logger.Debug("export written", "path", output, "format", f, "quests", n)
			if a.jsonOutput {
				return a.outputJSON(ExportResult{Status: "exported", Format: string(f), Path: output, Count: n})
			}
			fmt.Fprintf(a.stdout, "Exported %d quests to %s\n", n, output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(export.FormatJSON), "Export format: json, csv, txt or sqlite")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
