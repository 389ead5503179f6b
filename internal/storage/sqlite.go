package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/matsen/questjournal/internal/quest"
	_ "modernc.org/sqlite"
)

// selectQuestFields contains the standard field list for SELECT queries.
const selectQuestFields = `id, quest, status, priority, due_date, created_at`

// snapshotSchema is recreated on every export; a snapshot is a copy of the
// journal at one moment, not a database that is updated in place.
const snapshotSchema = `
	DROP TABLE IF EXISTS quests;
	DROP TABLE IF EXISTS quests_fts;
	DROP TABLE IF EXISTS snapshot_meta;

	-- Main quests table; position preserves journal order
	CREATE TABLE quests (
		id INTEGER PRIMARY KEY,
		position INTEGER NOT NULL,
		quest TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('Uncharted', 'Discovered')),
		priority TEXT NOT NULL CHECK (priority IN ('Low', 'Medium', 'High')),
		due_date TEXT,
		created_at TEXT
	);

	CREATE INDEX idx_quests_status_priority ON quests(status, priority);

	-- Full-text search over descriptions
	CREATE VIRTUAL TABLE quests_fts USING fts5(id UNINDEXED, quest);

	CREATE TABLE snapshot_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
`

// openSnapshotDB opens or creates a SQLite database at the given path.
func openSnapshotDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes
	return db, nil
}

// WriteSQLite writes quests to a SQLite snapshot at path, replacing any
// earlier snapshot tables there. Returns the number of rows written.
func WriteSQLite(path string, quests []quest.Quest, exportedAt time.Time) (int, error) {
	db, err := openSnapshotDB(path)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(snapshotSchema); err != nil {
		return 0, fmt.Errorf("creating schema: %w", err)
	}

	questStmt, err := tx.Prepare(`
		INSERT INTO quests (id, position, quest, status, priority, due_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing quest insert: %w", err)
	}
	defer questStmt.Close()

	ftsStmt, err := tx.Prepare(`INSERT INTO quests_fts (id, quest) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for i, q := range quests {
		_, err := questStmt.Exec(
			q.ID, i, q.Description, string(q.Status), string(q.Priority),
			nullableString(q.DueDate), nullableString(q.CreatedAt),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting quest %d: %w", q.ID, err)
		}
		if _, err := ftsStmt.Exec(q.ID, q.Description); err != nil {
			return 0, fmt.Errorf("inserting fts for quest %d: %w", q.ID, err)
		}
	}

	meta := map[string]string{
		"exported_at": exportedAt.UTC().Format(time.RFC3339),
		"quest_count": fmt.Sprint(len(quests)),
	}
	for k, v := range meta {
		if _, err := tx.Exec(`INSERT INTO snapshot_meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return 0, fmt.Errorf("writing snapshot metadata: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing snapshot: %w", err)
	}
	return len(quests), nil
}

// ReadSQLite reads quests back from a snapshot in journal order.
func ReadSQLite(path string) ([]quest.Quest, error) {
	db, err := openSnapshotDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT ` + selectQuestFields + ` FROM quests ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("listing quests: %w", err)
	}
	defer rows.Close()

	quests := []quest.Quest{}
	for rows.Next() {
		var q quest.Quest
		var status, priority string
		var due, created sql.NullString
		if err := rows.Scan(&q.ID, &q.Description, &status, &priority, &due, &created); err != nil {
			return nil, fmt.Errorf("scanning quest: %w", err)
		}
		q.Status = quest.Status(status)
		q.Priority = quest.Priority(priority)
		q.DueDate = due.String
		q.CreatedAt = created.String
		quests = append(quests, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating quests: %w", err)
	}
	return quests, nil
}

// nullableString converts an empty string to SQL NULL.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
