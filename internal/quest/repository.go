package quest

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Repository holds a journal in memory and persists every mutation through
// its Store. It is not safe for concurrent use.
type Repository struct {
	store           Store
	quests          []Quest
	lastID          int
	now             func() time.Time
	defaultPriority Priority
	logger          *log.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the time source used for created_at and overdue checks.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithDefaultPriority sets the priority used when Add is given none.
// Invalid values are ignored.
func WithDefaultPriority(p Priority) Option {
	return func(r *Repository) {
		if p.Valid() {
			r.defaultPriority = p
		}
	}
}

// WithLogger sets the logger for load and save tracing.
func WithLogger(l *log.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRepository loads the journal from store.
func NewRepository(store Store, opts ...Option) (*Repository, error) {
	r := &Repository{
		store:           store,
		now:             time.Now,
		defaultPriority: DefaultPriority,
		logger:          log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}

	snap, err := store.Load()
	if err != nil {
		return nil, err
	}
	r.quests = snap.Quests
	r.lastID = snap.LastID
	if m := r.maxID(); m > r.lastID {
		r.lastID = m
	}
	r.logger.Debug("journal loaded", "quests", len(r.quests), "last_id", r.lastID)
	return r, nil
}

// Filter selects quests by status and priority. Zero fields match anything.
type Filter struct {
	Status   Status
	Priority Priority
}

func (f Filter) validate() error {
	if f.Status != "" && !f.Status.Valid() {
		return &ValidationError{Field: "status", Value: string(f.Status), Reason: "must be one of " + joinStatuses()}
	}
	if f.Priority != "" && !f.Priority.Valid() {
		return &ValidationError{Field: "priority", Value: string(f.Priority), Reason: "must be one of " + joinPriorities()}
	}
	return nil
}

func (f Filter) match(q Quest) bool {
	if f.Status != "" && q.Status != f.Status {
		return false
	}
	if f.Priority != "" && q.Priority != f.Priority {
		return false
	}
	return true
}

// Changes lists the fields Edit should update. Nil or empty fields are left
// untouched. DueDate set to "" clears the deadline.
type Changes struct {
	Description *string
	Priority    Priority
	DueDate     *string
}

func (c Changes) empty() bool {
	return c.Description == nil && c.Priority == "" && c.DueDate == nil
}

// Add appends a new Uncharted quest. An empty priority means the default;
// an empty due date means no deadline.
func (r *Repository) Add(description string, priority Priority, due string) (Quest, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Quest{}, &ValidationError{Field: "quest", Reason: "description is required"}
	}
	if priority == "" {
		priority = r.defaultPriority
	}
	if !priority.Valid() {
		return Quest{}, &ValidationError{Field: "priority", Value: string(priority), Reason: "must be one of " + joinPriorities()}
	}
	if due != "" {
		var err error
		if due, err = ParseDueDate(due); err != nil {
			return Quest{}, err
		}
	}

	q := Quest{
		ID:          r.lastID + 1,
		Description: description,
		Status:      StatusUncharted,
		Priority:    priority,
		DueDate:     due,
		CreatedAt:   r.now().UTC().Format(time.RFC3339),
	}

	prevQuests, prevLast := r.quests, r.lastID
	r.quests = append(cloneQuests(r.quests), q)
	r.lastID = q.ID
	if err := r.persist(prevQuests, prevLast); err != nil {
		return Quest{}, err
	}
	r.logger.Debug("quest added", "id", q.ID, "priority", q.Priority)
	return q, nil
}

// List returns the quests matching every field set in f, in insertion order.
// The result is a copy; mutating it does not affect the journal.
func (r *Repository) List(f Filter) ([]Quest, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	out := make([]Quest, 0, len(r.quests))
	for _, q := range r.quests {
		if f.match(q) {
			out = append(out, q)
		}
	}
	return out, nil
}

// All returns every quest in insertion order.
func (r *Repository) All() []Quest {
	return cloneQuests(r.quests)
}

// Get returns the quest with the given id.
func (r *Repository) Get(id int) (Quest, error) {
	idx, ok := r.find(id)
	if !ok {
		return Quest{}, &NotFoundError{ID: id}
	}
	return r.quests[idx], nil
}

// Edit applies the provided changes to a quest. At least one change is
// required.
func (r *Repository) Edit(id int, c Changes) (Quest, error) {
	idx, ok := r.find(id)
	if !ok {
		return Quest{}, &NotFoundError{ID: id}
	}
	if c.empty() {
		return Quest{}, &ValidationError{Field: "changes", Reason: "nothing to update; give a description, priority or due date"}
	}

	q := r.quests[idx]
	if c.Description != nil {
		d := strings.TrimSpace(*c.Description)
		if d == "" {
			return Quest{}, &ValidationError{Field: "quest", Reason: "description is required"}
		}
		q.Description = d
	}
	if c.Priority != "" {
		if !c.Priority.Valid() {
			return Quest{}, &ValidationError{Field: "priority", Value: string(c.Priority), Reason: "must be one of " + joinPriorities()}
		}
		q.Priority = c.Priority
	}
	if c.DueDate != nil {
		if *c.DueDate == "" {
			q.DueDate = ""
		} else {
			due, err := ParseDueDate(*c.DueDate)
			if err != nil {
				return Quest{}, err
			}
			q.DueDate = due
		}
	}

	if err := r.replace(idx, q); err != nil {
		return Quest{}, err
	}
	r.logger.Debug("quest edited", "id", id)
	return q, nil
}

// Done marks a quest Discovered. A quest that is already Discovered is left
// unchanged and reported with an *AlreadyCompletedError.
func (r *Repository) Done(id int) (Quest, error) {
	idx, ok := r.find(id)
	if !ok {
		return Quest{}, &NotFoundError{ID: id}
	}
	q := r.quests[idx]
	if q.Discovered() {
		return q, &AlreadyCompletedError{Quest: q}
	}
	q.Status = StatusDiscovered
	if err := r.replace(idx, q); err != nil {
		return Quest{}, err
	}
	r.logger.Debug("quest discovered", "id", id)
	return q, nil
}

// Delete removes a quest permanently and returns it. Other ids are unchanged
// and the removed id is never issued again.
func (r *Repository) Delete(id int) (Quest, error) {
	idx, ok := r.find(id)
	if !ok {
		return Quest{}, &NotFoundError{ID: id}
	}
	removed := r.quests[idx]

	prevQuests, prevLast := r.quests, r.lastID
	next := make([]Quest, 0, len(r.quests)-1)
	next = append(next, r.quests[:idx]...)
	next = append(next, r.quests[idx+1:]...)
	r.quests = next
	if err := r.persist(prevQuests, prevLast); err != nil {
		return Quest{}, err
	}
	r.logger.Debug("quest deleted", "id", id)
	return removed, nil
}

// Search returns quests whose description contains keyword, ignoring case.
// An empty keyword is rejected rather than matching everything.
func (r *Repository) Search(keyword string) ([]Quest, error) {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	if needle == "" {
		return nil, &ValidationError{Field: "keyword", Reason: "search keyword is required"}
	}
	out := []Quest{}
	for _, q := range r.quests {
		if strings.Contains(strings.ToLower(q.Description), needle) {
			out = append(out, q)
		}
	}
	return out, nil
}

// Stats summarizes the journal.
type Stats struct {
	Total          int              `json:"total"`
	Discovered     int              `json:"discovered"`
	Uncharted      int              `json:"uncharted"`
	Overdue        int              `json:"overdue"`
	ByPriority     map[Priority]int `json:"by_priority"`
	CompletionRate float64          `json:"completion_rate"` // percent of quests discovered
}

// Stats aggregates the current journal without side effects.
func (r *Repository) Stats() Stats {
	s := Stats{ByPriority: make(map[Priority]int, len(ValidPriorities))}
	for _, p := range ValidPriorities {
		s.ByPriority[p] = 0
	}
	now := r.now()
	for _, q := range r.quests {
		s.Total++
		if q.Discovered() {
			s.Discovered++
		} else {
			s.Uncharted++
		}
		if q.Overdue(now) {
			s.Overdue++
		}
		s.ByPriority[q.Priority]++
	}
	if s.Total > 0 {
		s.CompletionRate = float64(s.Discovered) * 100 / float64(s.Total)
	}
	return s
}

// Now returns the repository clock's current time.
func (r *Repository) Now() time.Time {
	return r.now()
}

func (r *Repository) find(id int) (int, bool) {
	for i, q := range r.quests {
		if q.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (r *Repository) maxID() int {
	m := 0
	for _, q := range r.quests {
		if q.ID > m {
			m = q.ID
		}
	}
	return m
}

// replace swaps the quest at idx and persists.
func (r *Repository) replace(idx int, q Quest) error {
	prevQuests, prevLast := r.quests, r.lastID
	next := cloneQuests(r.quests)
	next[idx] = q
	r.quests = next
	return r.persist(prevQuests, prevLast)
}

// persist saves the current state, restoring the previous state if the
// store rejects it.
func (r *Repository) persist(prevQuests []Quest, prevLast int) error {
	if err := r.store.Save(Snapshot{Quests: r.quests, LastID: r.lastID}); err != nil {
		r.quests, r.lastID = prevQuests, prevLast
		r.logger.Debug("saving journal failed", "err", err)
		return err
	}
	r.logger.Debug("journal saved", "quests", len(r.quests))
	return nil
}
