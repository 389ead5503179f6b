package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/matsen/questjournal/internal/export"
	"github.com/matsen/questjournal/internal/quest"
)

// TableDescriptionMaxLen bounds the description column of list tables.
const TableDescriptionMaxLen = 60

// QuestResult is the JSON response for commands that act on one quest.
type QuestResult struct {
	Status string      `json:"status"`
	Quest  quest.Quest `json:"quest"`
}

// QuestListResult is the JSON response for list and search.
type QuestListResult struct {
	Count  int           `json:"count"`
	Quests []quest.Quest `json:"quests"`
}

// ExportResult is the JSON response for export --output.
type ExportResult struct {
	Status string `json:"status"`
	Format string `json:"format"`
	Path   string `json:"path"`
	Count  int    `json:"count"`
}

// VersionResponse is the JSON response for the version command.
type VersionResponse struct {
	Version string `json:"version"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// outputJSON writes a value as formatted JSON to stdout.
func (a *app) outputJSON(v interface{}) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeError reports err on stderr in the selected output style.
func (a *app) writeError(err error) {
	if a.jsonOutput {
		enc := json.NewEncoder(a.stderr)
		enc.SetEscapeHTML(false)
		enc.Encode(ErrorResponse{Error: err.Error(), Code: exitCodeFor(err)})
		return
	}
	fmt.Fprintf(a.stderr, "error: %s\n", err)
}

// outputQuest prints a single-quest confirmation, e.g.
// "Added quest 3: Find the Lost Ark".
func (a *app) outputQuest(status, verb string, q quest.Quest) error {
	if a.jsonOutput {
		return a.outputJSON(QuestResult{Status: status, Quest: q})
	}
	fmt.Fprintf(a.stdout, "%s quest %d: %s\n", verb, q.ID, q.Description)
	return nil
}

// outputQuests prints a table of quests, or a note when there are none.
func (a *app) outputQuests(quests []quest.Quest, empty string) error {
	if a.jsonOutput {
		return a.outputJSON(QuestListResult{Count: len(quests), Quests: quests})
	}
	if len(quests) == 0 {
		fmt.Fprintln(a.stdout, empty)
		return nil
	}
	fmt.Fprintln(a.stdout, a.questTable(quests))
	return nil
}

// questTable renders quests as a bordered table. Styling degrades to plain
// text when stdout is not a terminal.
func (a *app) questTable(quests []quest.Quest) string {
	r := lipgloss.NewRenderer(a.stdout)
	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)
	overdue := cell.Foreground(lipgloss.Color("9"))
	discovered := cell.Faint(true)

	now := a.now()
	rows := make([][]string, len(quests))
	for i, q := range quests {
		rows[i] = []string{
			strconv.Itoa(q.ID),
			truncateString(q.Description, TableDescriptionMaxLen),
			string(q.Status),
			string(q.Priority),
			dueColumn(q, now),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Faint(true)).
		Headers("ID", "QUEST", "STATUS", "PRIORITY", "DUE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case row < 0 || row >= len(quests):
				return cell
			case quests[row].Overdue(now):
				return overdue
			case quests[row].Discovered():
				return discovered
			default:
				return cell
			}
		})
	return t.String()
}

// dueColumn shows the due date with a relative hint, e.g. "2025-09-30 (3 days from now)".
func dueColumn(q quest.Quest, now time.Time) string {
	if q.DueDate == "" {
		return "-"
	}
	if q.Discovered() {
		return q.DueDate
	}
	return fmt.Sprintf("%s (%s)", q.DueDate, export.RelativeDue(q, now))
}

// truncateString shortens s to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// parseID converts a positional id argument. Anything but a positive
// integer is invalid input.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, &quest.ValidationError{Field: "id", Value: arg, Reason: "must be a positive integer"}
	}
	return id, nil
}
