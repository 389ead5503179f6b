// Package storage persists the quest journal as a JSON file and writes
// SQLite snapshots of it.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/matsen/questjournal/internal/quest"
)

// SeqSuffix is appended to the journal path to name the sidecar file that
// records the last issued quest id.
const SeqSuffix = ".seq"

// JSONStore reads and writes a journal file: a JSON array of quest objects
// in insertion order.
type JSONStore struct {
	path   string
	logger *log.Logger
}

// Open returns a store for the journal at path. The file is not touched
// until Load or Save. A nil logger discards output.
func Open(path string, logger *log.Logger) *JSONStore {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &JSONStore{path: path, logger: logger}
}

// Path returns the journal file path.
func (s *JSONStore) Path() string {
	return s.path
}

// SeqPath returns the path of the last-id sidecar file.
func (s *JSONStore) SeqPath() string {
	return s.path + SeqSuffix
}

// Load reads the journal. A missing file is an empty journal. A file that
// exists but is not a schema-valid quest array, or that repeats an id, is
// reported as *quest.CorruptStoreError.
func (s *JSONStore) Load() (quest.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("journal not found, starting empty", "path", s.path)
			return quest.Snapshot{}, nil
		}
		return quest.Snapshot{}, fmt.Errorf("reading journal: %w", err)
	}

	quests, err := decodeJournal(data)
	if err != nil {
		return quest.Snapshot{}, &quest.CorruptStoreError{Path: s.path, Err: err}
	}

	lastID, err := s.readSeq()
	if err != nil {
		return quest.Snapshot{}, err
	}

	s.logger.Debug("journal read", "path", s.path, "quests", len(quests), "last_id", lastID)
	return quest.Snapshot{Quests: quests, LastID: lastID}, nil
}

// Save replaces the journal with snap. The sidecar is written first so a
// crash between the two writes can only leave a gap in ids, never reuse.
func (s *JSONStore) Save(snap quest.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating journal directory: %w", err)
	}

	if err := writeFileAtomic(s.SeqPath(), []byte(strconv.Itoa(snap.LastID)+"\n")); err != nil {
		return fmt.Errorf("writing id sequence: %w", err)
	}

	data, err := encodeJournal(snap.Quests)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("writing journal: %w", err)
	}

	s.logger.Debug("journal written", "path", s.path, "quests", len(snap.Quests), "bytes", len(data))
	return nil
}

// decodeJournal validates and decodes journal bytes.
func decodeJournal(data []byte) ([]quest.Quest, error) {
	if err := validateJournal(data); err != nil {
		return nil, err
	}

	var quests []quest.Quest
	if err := json.Unmarshal(data, &quests); err != nil {
		return nil, fmt.Errorf("decoding quests: %w", err)
	}

	seen := make(map[int]bool, len(quests))
	for i, q := range quests {
		// Fail fast: the schema cannot check calendar dates or timestamps.
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("quest at index %d: %w", i, err)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate quest id %d at index %d", q.ID, i)
		}
		seen[q.ID] = true
	}
	if quests == nil {
		quests = []quest.Quest{}
	}
	return quests, nil
}

// encodeJournal renders quests as an indented JSON array. HTML escaping is
// off so descriptions stay readable in the file.
func encodeJournal(quests []quest.Quest) ([]byte, error) {
	if quests == nil {
		quests = []quest.Quest{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(quests); err != nil {
		return nil, fmt.Errorf("encoding journal: %w", err)
	}
	return buf.Bytes(), nil
}

// readSeq returns the last issued id from the sidecar, or 0 if there is none.
func (s *JSONStore) readSeq() (int, error) {
	data, err := os.ReadFile(s.SeqPath())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading id sequence: %w", err)
	}
	n, err := strconv.Atoi(string(bytes.TrimSpace(data)))
	if err != nil || n < 0 {
		return 0, &quest.CorruptStoreError{
			Path: s.SeqPath(),
			Err:  fmt.Errorf("id sequence %q is not a non-negative integer", bytes.TrimSpace(data)),
		}
	}
	return n, nil
}
