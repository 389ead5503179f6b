// Package export renders the quest journal in formats meant for other tools.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/matsen/questjournal/internal/quest"
	"github.com/matsen/questjournal/internal/storage"
)

// Format names an export format.
type Format string

const (
	FormatJSON   Format = "json"
	FormatCSV    Format = "csv"
	FormatText   Format = "txt"
	FormatSQLite Format = "sqlite"
)

// Formats lists the supported formats; the first is the default.
var Formats = []Format{FormatJSON, FormatCSV, FormatText, FormatSQLite}

// ParseFormat converts a --format value to a Format.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return "", &quest.ValidationError{Field: "format", Value: s, Reason: "must be one of " + strings.Join(names, ", ")}
}

// NeedsFile reports whether the format can only be written to a file.
func (f Format) NeedsFile() bool {
	return f == FormatSQLite
}

// csvHeader matches the journal's field names.
var csvHeader = []string{"id", "quest", "status", "priority", "due_date", "created_at"}

// Write renders quests to w. Text output describes due dates relative to now.
func Write(w io.Writer, f Format, quests []quest.Quest, now time.Time) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, quests)
	case FormatCSV:
		return writeCSV(w, quests)
	case FormatText:
		return writeText(w, quests, now)
	case FormatSQLite:
		return fmt.Errorf("%s export requires an output file", f)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

// WriteFile renders quests to the file at path and returns the number of
// quests written. SQLite snapshots go through the storage package; other
// formats are rendered in memory first so a failed export leaves no partial
// file behind.
func WriteFile(path string, f Format, quests []quest.Quest, now time.Time) (int, error) {
	if f == FormatSQLite {
		return storage.WriteSQLite(path, quests, now)
	}

	var buf bytes.Buffer
	if err := Write(&buf, f, quests, now); err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return 0, fmt.Errorf("writing export file: %w", err)
	}
	return len(quests), nil
}

func writeJSON(w io.Writer, quests []quest.Quest) error {
	if quests == nil {
		quests = []quest.Quest{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(quests); err != nil {
		return fmt.Errorf("encoding JSON export: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, quests []quest.Quest) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, q := range quests {
		record := []string{
			strconv.Itoa(q.ID),
			q.Description,
			string(q.Status),
			string(q.Priority),
			q.DueDate,
			q.CreatedAt,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV row for quest %d: %w", q.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}

// writeText writes one checklist line per quest:
//
//	[x] #2 Explore ancient temple (Medium)
//	[ ] #3 Decode mysterious map (Low) due 2025-09-30, 3 days from now
func writeText(w io.Writer, quests []quest.Quest, now time.Time) error {
	for _, q := range quests {
		box := "[ ]"
		if q.Discovered() {
			box = "[x]"
		}
		line := fmt.Sprintf("%s #%d %s (%s)", box, q.ID, q.Description, q.Priority)
		if q.DueDate != "" {
			line += " due " + q.DueDate + ", " + RelativeDue(q, now)
			if q.Overdue(now) {
				line += " OVERDUE"
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("writing text export: %w", err)
		}
	}
	return nil
}

// RelativeDue describes the quest's deadline relative to the calendar day of
// now, e.g. "today", "3 days ago" or "1 week from now". It returns "" for a
// quest without a deadline.
func RelativeDue(q quest.Quest, now time.Time) string {
	due, ok := q.Due()
	if !ok {
		return ""
	}
	today, err := time.Parse(quest.DateLayout, now.Format(quest.DateLayout))
	if err != nil {
		return ""
	}
	if due.Equal(today) {
		return "today"
	}
	return humanize.RelTime(due, today, "ago", "from now")
}
