package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// EnvJournalPath names the environment variable that overrides the
	// configured journal location.
	EnvJournalPath = "QUEST_FILE"
	// DefaultJournalFile is used, relative to the working directory, when
	// nothing else names a journal.
	DefaultJournalFile = "quests.json"
	// DotEnvFile is loaded from the working directory before the environment
	// is consulted.
	DotEnvFile = ".env"
)

// PathSource records where the journal path came from.
type PathSource string

const (
	SourceFlag    PathSource = "flag"
	SourceEnv     PathSource = "env"
	SourceConfig  PathSource = "config"
	SourceDefault PathSource = "default"
)

// LoadDotEnv loads variables from a .env file without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: loading %s: %v", ErrInvalidConfig, path, err)
	}
	return nil
}

// ResolveJournalPath picks the journal file: the --file flag, then
// $QUEST_FILE, then journal_path from the global config, then
// ./quests.json. A leading ~ is expanded in every case.
func ResolveJournalPath(flag string, cfg *GlobalConfig) (string, PathSource) {
	if flag != "" {
		return ExpandPath(flag), SourceFlag
	}
	if env := os.Getenv(EnvJournalPath); env != "" {
		return ExpandPath(env), SourceEnv
	}
	if cfg != nil && cfg.JournalPath != "" {
		return cfg.JournalPath, SourceConfig
	}
	return DefaultJournalFile, SourceDefault
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
