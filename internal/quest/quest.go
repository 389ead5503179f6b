// Package quest defines the core domain types of the quest journal and the
// repository that enforces its rules.
package quest

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a quest.
type Status string

const (
	StatusUncharted  Status = "Uncharted"
	StatusDiscovered Status = "Discovered"
)

// ValidStatuses lists the status vocabulary in display order.
var ValidStatuses = []Status{StatusUncharted, StatusDiscovered}

// Valid reports whether s is part of the status vocabulary.
func (s Status) Valid() bool {
	return s == StatusUncharted || s == StatusDiscovered
}

// ParseStatus converts user input to a Status. Matching is exact and
// case-sensitive: "uncharted" is rejected.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", &ValidationError{Field: "status", Value: s, Reason: "must be one of " + joinStatuses()}
	}
	return st, nil
}

// Priority is the urgency of a quest.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// DefaultPriority is assigned when a quest is added without a priority.
const DefaultPriority = PriorityMedium

// ValidPriorities lists the priority vocabulary from lowest to highest.
var ValidPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is part of the priority vocabulary.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority converts user input to a Priority (exact, case-sensitive).
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", &ValidationError{Field: "priority", Value: s, Reason: "must be one of " + joinPriorities()}
	}
	return p, nil
}

// DateLayout is the on-disk and command-line format of due dates.
const DateLayout = "2006-01-02"

// ParseDueDate validates a YYYY-MM-DD date and returns it in canonical form.
func ParseDueDate(s string) (string, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", &ValidationError{Field: "due_date", Value: s, Reason: "must be a date in YYYY-MM-DD format"}
	}
	return d.Format(DateLayout), nil
}

// Quest is a single journal entry. JSON field names match the journal file
// written by earlier versions of the tool and must not change.
type Quest struct {
	ID          int      `json:"id"`
	Description string   `json:"quest"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	DueDate     string   `json:"due_date"`             // YYYY-MM-DD, empty when there is no deadline
	CreatedAt   string   `json:"created_at,omitempty"` // RFC3339, set once on add
}

// Discovered reports whether the quest has been completed.
func (q Quest) Discovered() bool {
	return q.Status == StatusDiscovered
}

// Due returns the parsed due date, or false when the quest has none.
func (q Quest) Due() (time.Time, bool) {
	if q.DueDate == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, q.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Overdue reports whether an uncharted quest's deadline is before the
// calendar day of now.
func (q Quest) Overdue(now time.Time) bool {
	if q.Discovered() || q.DueDate == "" {
		return false
	}
	return q.DueDate < now.Format(DateLayout)
}

// Created returns the parsed creation timestamp, or false when unknown.
func (q Quest) Created() (time.Time, bool) {
	if q.CreatedAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, q.CreatedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Validate checks that a stored quest is well formed.
func (q Quest) Validate() error {
	if q.ID <= 0 {
		return &ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	if strings.TrimSpace(q.Description) == "" {
		return &ValidationError{Field: "quest", Reason: "description is required"}
	}
	if !q.Status.Valid() {
		return &ValidationError{Field: "status", Value: string(q.Status), Reason: "must be one of " + joinStatuses()}
	}
	if !q.Priority.Valid() {
		return &ValidationError{Field: "priority", Value: string(q.Priority), Reason: "must be one of " + joinPriorities()}
	}
	if q.DueDate != "" {
		if _, err := time.Parse(DateLayout, q.DueDate); err != nil {
			return &ValidationError{Field: "due_date", Value: q.DueDate, Reason: "must be a date in YYYY-MM-DD format"}
		}
	}
	if q.CreatedAt != "" {
		if _, err := time.Parse(time.RFC3339, q.CreatedAt); err != nil {
			return &ValidationError{Field: "created_at", Value: q.CreatedAt, Reason: "must be an RFC3339 timestamp"}
		}
	}
	return nil
}

func joinStatuses() string {
	names := make([]string, len(ValidStatuses))
	for i, s := range ValidStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func joinPriorities() string {
	names := make([]string, len(ValidPriorities))
	for i, p := range ValidPriorities {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
