package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matsen/questjournal/internal/config"
	"github.com/matsen/questjournal/internal/quest"
	"github.com/matsen/questjournal/internal/storage"
)

// testEnv isolates a CLI run from the user's config and environment.
type testEnv struct {
	t       *testing.T
	journal string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv(config.EnvJournalPath, "")
	config.ResetGlobalConfigCache()
	t.Cleanup(config.ResetGlobalConfigCache)
	return &testEnv{t: t, journal: filepath.Join(dir, "quests.json")}
}

// quest runs the CLI against the env's journal.
func (e *testEnv) quest(args ...string) (code int, stdout, stderr string) {
	e.t.Helper()
	var out, errOut bytes.Buffer
	code = run(append([]string{"--file", e.journal}, args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

// mustRun runs the CLI and fails the test on a non-zero exit.
func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	code, stdout, stderr := e.quest(args...)
	if code != ExitSuccess {
		e.t.Fatalf("quest %v exited %d\nstderr: %s", args, code, stderr)
	}
	return stdout
}

func (e *testEnv) listJSON(args ...string) QuestListResult {
	e.t.Helper()
	out := e.mustRun(append([]string{"list", "--json"}, args...)...)
	var res QuestListResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		e.t.Fatalf("list --json output is not JSON: %v\n%s", err, out)
	}
	return res
}

func questIDs(qs []quest.Quest) []int {
	ids := make([]int, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	return ids
}

func TestCLI_Scenario(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("add", "Find the Lost Ark", "--priority", "High")
	if out != "Added quest 1: Find the Lost Ark\n" {
		t.Errorf("add output = %q", out)
	}
	env.mustRun("add", "Buy", "torch")

	res := env.listJSON()
	if res.Count != 2 || res.Quests[1].Priority != quest.PriorityMedium || res.Quests[1].Description != "Buy torch" {
		t.Fatalf("after adds: %+v", res)
	}

	env.mustRun("done", "1")
	res = env.listJSON("--status", "Uncharted")
	if got := questIDs(res.Quests); len(got) != 1 || got[0] != 2 {
		t.Errorf("uncharted quests = %v, want [2]", got)
	}

	env.mustRun("delete", "2")
	res = env.listJSON("--status", "Uncharted")
	if res.Count != 0 {
		t.Errorf("uncharted after delete = %v", questIDs(res.Quests))
	}

	out = env.mustRun("add", "Escape the temple")
	if out != "Added quest 3: Escape the temple\n" {
		t.Errorf("id reused after delete: %q", out)
	}
}

func TestCLI_ExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"not found", []string{"done", "99"}, ExitNotFound, "quest 99 not found"},
		{"delete not found", []string{"delete", "99"}, ExitNotFound, "not found"},
		{"show not found", []string{"show", "42"}, ExitNotFound, "not found"},
		{"empty description", []string{"add", "   "}, ExitValidation, "description is required"},
		{"lowercase priority", []string{"add", "x", "--priority", "high"}, ExitValidation, "priority"},
		{"bad due date", []string{"add", "x", "--due", "2025-13-01"}, ExitValidation, "YYYY-MM-DD"},
		{"unknown status filter", []string{"list", "--status", "Done"}, ExitValidation, "status"},
		{"non-numeric id", []string{"show", "abc"}, ExitValidation, "positive integer"},
		{"zero id", []string{"done", "0"}, ExitValidation, "positive integer"},
		{"negative id", []string{"done", "-1"}, ExitValidation, "positive integer"},
		{"negative id with flags", []string{"edit", "-3", "--priority", "High"}, ExitValidation, "positive integer"},
		{"unknown shorthand", []string{"list", "-x"}, ExitError, "unknown shorthand flag"},
		{"blank search", []string{"search", " "}, ExitValidation, "keyword"},
		{"edit without changes", []string{"edit", "1"}, ExitValidation, "nothing to update"},
		{"edit due and clear", []string{"edit", "1", "--due", "2025-10-01", "--clear-due"}, ExitValidation, "cannot be combined"},
		{"bad export format", []string{"export", "--format", "xml"}, ExitValidation, "format"},
		{"bad log level", []string{"list", "--log-level", "chatty"}, ExitValidation, "log-level"},
		{"unknown command", []string{"fly"}, ExitError, "unknown command"},
		{"missing argument", []string{"done"}, ExitError, "arg"},
		{"sqlite to stdout", []string{"export", "--format", "sqlite"}, ExitError, "requires --output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.mustRun("add", "Find the Crystal Skull")

			code, _, stderr := env.quest(tt.args...)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, stderr)
			}
			if !strings.HasPrefix(stderr, "error: ") || !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("stderr = %q, want error mentioning %q", stderr, tt.wantErr)
			}
		})
	}
}

func TestCLI_DoneTwice(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "Find the Lost Ark")

	out := env.mustRun("done", "1")
	if out != "Discovered quest 1: Find the Lost Ark\n" {
		t.Errorf("first done output = %q", out)
	}
	before, err := os.ReadFile(env.journal)
	if err != nil {
		t.Fatal(err)
	}

	code, stdout, stderr := env.quest("done", "1")
	if code != ExitAlreadyDone {
		t.Errorf("second done exit = %d, want %d", code, ExitAlreadyDone)
	}
	if stdout != "" || stderr != "error: quest 1 is already discovered\n" {
		t.Errorf("second done stdout = %q, stderr = %q", stdout, stderr)
	}

	code, stdout, stderr = env.quest("--json", "done", "1")
	var resp ErrorResponse
	if err := json.Unmarshal([]byte(stderr), &resp); err != nil {
		t.Fatalf("stderr is not JSON: %q", stderr)
	}
	if code != ExitAlreadyDone || stdout != "" || resp.Code != ExitAlreadyDone {
		t.Errorf("second done --json exit = %d, stdout = %q, error = %+v", code, stdout, resp)
	}

	after, _ := os.ReadFile(env.journal)
	if !bytes.Equal(before, after) {
		t.Error("journal changed on second done")
	}
}

func TestCLI_CorruptJournal(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown status", `[{"id": 1, "quest": "Find the Ark", "status": "Lost", "priority": "High"}]`},
		{"impossible due date", `[{"id": 1, "quest": "Find the Ark", "status": "Uncharted", "priority": "High", "due_date": "2025-02-30"}]`},
		{"bad created_at", `[{"id": 1, "quest": "Find the Ark", "status": "Uncharted", "priority": "High", "created_at": "yesterday"}]`},
		{"not JSON", `[{"id": 1,`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if err := os.WriteFile(env.journal, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			for _, args := range [][]string{{"list"}, {"add", "New quest"}, {"stats"}} {
				code, _, stderr := env.quest(args...)
				if code != ExitCorrupt {
					t.Errorf("quest %v exit = %d, want %d (stderr: %s)", args, code, ExitCorrupt, stderr)
				}
				if !strings.Contains(stderr, env.journal) {
					t.Errorf("stderr should name the journal: %q", stderr)
				}
			}

			data, _ := os.ReadFile(env.journal)
			if string(data) != tt.content {
				t.Error("corrupt journal was rewritten")
			}
		})
	}
}

func TestCLI_ConfigError(t *testing.T) {
	env := newTestEnv(t)
	cfgDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), config.GlobalConfigDir)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, config.GlobalConfigFile), []byte("default_priority: Urgent\n"), 0644); err != nil {
		t.Fatal(err)
	}

	code, _, stderr := env.quest("list")
	if code != ExitConfigError {
		t.Errorf("exit = %d, want %d (stderr: %s)", code, ExitConfigError, stderr)
	}
}

func TestCLI_ConfigDefaults(t *testing.T) {
	newTestEnv(t)
	cfgDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), config.GlobalConfigDir)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatal(err)
	}
	configured := filepath.Join(t.TempDir(), "configured.json")
	content := "journal_path: " + configured + "\ndefault_priority: Low\n"
	if err := os.WriteFile(filepath.Join(cfgDir, config.GlobalConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	// No --file: the configured journal is used.
	var out, errOut bytes.Buffer
	if code := run([]string{"add", "Map the catacombs"}, &out, &errOut); code != ExitSuccess {
		t.Fatalf("add exit = %d: %s", code, errOut.String())
	}

	snap, err := storage.Open(configured, nil).Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Quests) != 1 || snap.Quests[0].Priority != quest.PriorityLow {
		t.Errorf("configured journal = %+v", snap.Quests)
	}
}

func TestCLI_EnvJournalPath(t *testing.T) {
	newTestEnv(t)
	path := filepath.Join(t.TempDir(), "env.json")
	t.Setenv(config.EnvJournalPath, path)

	var out, errOut bytes.Buffer
	if code := run([]string{"add", "Follow the map"}, &out, &errOut); code != ExitSuccess {
		t.Fatalf("add exit = %d: %s", code, errOut.String())
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("journal not written to $%s: %v", config.EnvJournalPath, err)
	}
}

func TestCLI_Edit(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "Decode map", "--due", "2025-09-30")

	env.mustRun("edit", "1", "Decode", "the", "map", "--priority", "High")
	res := env.listJSON()
	q := res.Quests[0]
	if q.Description != "Decode the map" || q.Priority != quest.PriorityHigh || q.DueDate != "2025-09-30" {
		t.Errorf("after edit: %+v", q)
	}

	env.mustRun("e", "1", "--clear-due")
	if q := env.listJSON().Quests[0]; q.DueDate != "" || q.Description != "Decode the map" {
		t.Errorf("after --clear-due: %+v", q)
	}
}

func TestCLI_SearchAndFilters(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "Find the Crystal Skull", "--priority", "High")
	env.mustRun("add", "Explore ancient temple")
	env.mustRun("add", "Map the temple catacombs", "--priority", "High")
	env.mustRun("done", "3")

	tests := []struct {
		args []string
		want []int
	}{
		{[]string{"TEMPLE"}, []int{2, 3}},
		{[]string{"temple", "--status", "Uncharted"}, []int{2}},
		{[]string{"temple", "--priority", "High"}, []int{3}},
		{[]string{"crystal", "skull"}, []int{1}},
		{[]string{"ark"}, []int{}},
	}
	for _, tt := range tests {
		out := env.mustRun(append([]string{"search", "--json"}, tt.args...)...)
		var res QuestListResult
		if err := json.Unmarshal([]byte(out), &res); err != nil {
			t.Fatalf("search output: %v", err)
		}
		got := questIDs(res.Quests)
		if len(got) != len(tt.want) {
			t.Errorf("search %v = %v, want %v", tt.args, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("search %v = %v, want %v", tt.args, got, tt.want)
				break
			}
		}
	}

	if out := env.mustRun("search", "ark"); !strings.Contains(out, `No quests match "ark"`) {
		t.Errorf("empty search output = %q", out)
	}
}

func TestCLI_ListTable(t *testing.T) {
	env := newTestEnv(t)

	if out := env.mustRun("list"); out != "No quests found.\n" {
		t.Errorf("empty list output = %q", out)
	}

	env.mustRun("add", "Find the Crystal Skull", "--priority", "High")
	env.mustRun("add", "Explore ancient temple")
	out := env.mustRun("ls")
	for _, want := range []string{"ID", "QUEST", "Find the Crystal Skull", "Explore ancient temple", "Uncharted", "High", "Medium"} {
		if !strings.Contains(out, want) {
			t.Errorf("list table missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Crystal Skull") > strings.Index(out, "ancient temple") {
		t.Error("list is not in insertion order")
	}
}

func TestCLI_Stats(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "a", "--priority", "High")
	env.mustRun("add", "b")
	env.mustRun("add", "c", "--priority", "High")
	env.mustRun("add", "d", "--due", "2000-01-01")
	env.mustRun("done", "1")

	var s quest.Stats
	if err := json.Unmarshal([]byte(env.mustRun("stats", "--json")), &s); err != nil {
		t.Fatal(err)
	}
	if s.Total != 4 || s.Discovered != 1 || s.Uncharted != 3 || s.Overdue != 1 {
		t.Errorf("stats = %+v", s)
	}
	if s.ByPriority[quest.PriorityHigh] != 2 || s.ByPriority[quest.PriorityLow] != 0 {
		t.Errorf("by priority = %v", s.ByPriority)
	}
	if s.CompletionRate != 25 {
		t.Errorf("completion rate = %v, want 25", s.CompletionRate)
	}

	out := env.mustRun("stats")
	for _, want := range []string{"Total", "4", "Completion", "25.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_Export(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "Find the Crystal Skull", "--priority", "High")
	env.mustRun("add", "Explore ancient temple")

	out := env.mustRun("export")
	var quests []quest.Quest
	if err := json.Unmarshal([]byte(out), &quests); err != nil || len(quests) != 2 {
		t.Errorf("json export = %q (%v)", out, err)
	}

	out = env.mustRun("export", "--format", "csv")
	if !strings.HasPrefix(out, "id,quest,status,priority,due_date,created_at\n1,Find the Crystal Skull,Uncharted,High,,") {
		t.Errorf("csv export = %q", out)
	}

	out = env.mustRun("export", "--format", "txt")
	if !strings.Contains(out, "[ ] #2 Explore ancient temple (Medium)") {
		t.Errorf("txt export = %q", out)
	}

	db := filepath.Join(t.TempDir(), "snapshot.db")
	out = env.mustRun("export", "--format", "sqlite", "-o", db)
	if out != "Exported 2 quests to "+db+"\n" {
		t.Errorf("sqlite export output = %q", out)
	}
	got, err := storage.ReadSQLite(db)
	if err != nil || len(got) != 2 || got[0].Description != "Find the Crystal Skull" {
		t.Errorf("snapshot = %+v (%v)", got, err)
	}
}

func TestCLI_JSONErrors(t *testing.T) {
	env := newTestEnv(t)
	code, stdout, stderr := env.quest("--json", "show", "7")
	if code != ExitNotFound {
		t.Errorf("exit = %d, want %d", code, ExitNotFound)
	}
	if stdout != "" {
		t.Errorf("stdout should be empty, got %q", stdout)
	}
	var resp ErrorResponse
	if err := json.Unmarshal([]byte(stderr), &resp); err != nil {
		t.Fatalf("stderr is not JSON: %q", stderr)
	}
	if resp.Code != ExitNotFound || !strings.Contains(resp.Error, "quest 7 not found") {
		t.Errorf("error response = %+v", resp)
	}
}

func TestCLI_Show(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "Find the Crystal Skull", "--priority", "High", "--due", "2000-01-01")

	out := env.mustRun("show", "1")
	for _, want := range []string{"Quest 1: Find the Crystal Skull", "Priority: High", "2000-01-01", "overdue", "Created:"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_HelpAndVersion(t *testing.T) {
	env := newTestEnv(t)

	for _, args := range [][]string{{"help"}, {"h"}, {"help", "add"}, {"--help"}} {
		code, stdout, _ := env.quest(args...)
		if code != ExitSuccess || !strings.Contains(stdout, "Usage:") {
			t.Errorf("quest %v exit = %d, output = %q", args, code, stdout)
		}
	}

	if out := env.mustRun("version"); out != "quest "+Version+"\n" {
		t.Errorf("version output = %q", out)
	}

	// Help must not create a journal.
	if _, err := os.Stat(env.journal); !os.IsNotExist(err) {
		t.Error("help or version touched the journal")
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{&quest.NotFoundError{ID: 1}, ExitNotFound},
		{&quest.ValidationError{Field: "quest", Reason: "x"}, ExitValidation},
		{&quest.CorruptStoreError{Path: "q.json"}, ExitCorrupt},
		{&quest.CorruptStoreError{Path: "q.json", Err: &quest.ValidationError{Field: "due_date", Reason: "x"}}, ExitCorrupt},
		{&quest.AlreadyCompletedError{}, ExitAlreadyDone},
		{config.ErrInvalidConfig, ExitConfigError},
		{os.ErrPermission, ExitError},
	}
	for _, tt := range tests {
		if got := exitCodeFor(tt.err); got != tt.want {
			t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
