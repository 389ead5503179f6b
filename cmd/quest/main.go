// Package main provides the quest CLI entry point.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/matsen/questjournal/internal/config"
	"github.com/matsen/questjournal/internal/quest"
	"github.com/matsen/questjournal/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries the state shared by every command of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
	args   []string

	// Persistent flags
	journalFlag string
	jsonOutput  bool
	logLevel    string

	logger *log.Logger
}

// run executes the CLI with args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr, now: time.Now, args: args}
	root := newRootCmd(a)
	root.SetArgs(args)

	err := root.Execute()
	if err != nil {
		a.writeError(err)
	}
	return exitCodeFor(err)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "quest",
		Short: "Keep a journal of quests to discover",
		Long: `quest is a command-line to-do manager. Each quest has a description,
a status (Uncharted or Discovered), a priority (Low, Medium or High) and an
optional due date.

The journal is a JSON file. Its location is taken from --file, then the
QUEST_FILE environment variable (a .env file in the working directory is
read first), then journal_path in ~/.config/quest/config.yml, and finally
./quests.json.

Exit codes: 0 success, 1 usage or I/O error, 2 quest not found,
3 invalid input, 4 corrupt journal, 5 quest already discovered,
6 configuration error.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(a.flagError)

	root.PersistentFlags().StringVarP(&a.journalFlag, "file", "f", "", "Path to the quest journal")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Use JSON output instead of human-readable text")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error (default warn)")

	root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newDoneCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newSearchCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
		newVersionCmd(a),
	)
	root.SetHelpCommand(newHelpCmd())
	return root
}

// flagError reports a negative id such as "done -1" as invalid input.
// pflag reads it as an unknown shorthand flag before parseID sees it.
func (a *app) flagError(cmd *cobra.Command, err error) error {
	if !strings.Contains(err.Error(), "unknown shorthand flag") {
		return err
	}
	for _, arg := range a.args {
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		if _, convErr := strconv.Atoi(arg); convErr == nil {
			_, idErr := parseID(arg)
			return idErr
		}
	}
	return err
}

// openRepository loads the environment, the global config and the journal.
func (a *app) openRepository() (*quest.Repository, error) {
	if err := config.LoadDotEnv(config.DotEnvFile); err != nil {
		return nil, err
	}
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		return nil, err
	}
	if err := a.setupLogger(cfg); err != nil {
		return nil, err
	}

	path, source := config.ResolveJournalPath(a.journalFlag, cfg)
	a.logger.Debug("using journal", "path", path, "source", source)

	store := storage.Open(path, a.logger)
	repo, err := quest.NewRepository(store,
		quest.WithClock(a.now),
		quest.WithDefaultPriority(cfg.Priority()),
		quest.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// setupLogger builds the stderr logger. --log-level wins over log_level in
// the config file; the default is warn.
func (a *app) setupLogger(cfg *config.GlobalConfig) error {
	level := log.WarnLevel
	switch {
	case a.logLevel != "":
		lvl, err := log.ParseLevel(a.logLevel)
		if err != nil {
			return &quest.ValidationError{Field: "log-level", Value: a.logLevel, Reason: "must be one of debug, info, warn, error"}
		}
		level = lvl
	case cfg.LogLevel != "":
		level, _ = log.ParseLevel(cfg.LogLevel) // validated on load
	}

	a.logger = log.NewWithOptions(a.stderr, log.Options{
		Level:  level,
		Prefix: "quest",
	})
	return nil
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.jsonOutput {
				return a.outputJSON(VersionResponse{Version: Version})
			}
			fmt.Fprintf(a.stdout, "quest %s\n", Version)
			return nil
		},
	}
}

// newHelpCmd mirrors cobra's default help command and adds the h alias.
func newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "help [command]",
		Aliases: []string{"h"},
		Short:   "Help about any command",
		Long: `Help provides help for any command in the application.
Simply type quest help [path to command] for full details.`,
		Run: func(c *cobra.Command, args []string) {
			cmd, _, err := c.Root().Find(args)
			if cmd == nil || err != nil {
				c.Printf("Unknown help topic %#q\n", args)
				cobra.CheckErr(c.Root().Usage())
				return
			}
			cmd.InitDefaultHelpFlag()
			cmd.InitDefaultVersionFlag()
			cobra.CheckErr(cmd.Help())
		},
	}
}
