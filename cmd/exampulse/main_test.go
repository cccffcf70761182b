package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/exampulse/internal/config"
	"github.com/verte-zerg/exampulse/internal/dashboard"
	"github.com/verte-zerg/exampulse/internal/dashui"
	"github.com/verte-zerg/exampulse/internal/model"
	"github.com/verte-zerg/exampulse/internal/store"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, name := range []string{"EXAMPULSE_DB_PATH", "EXAMPULSE_REFRESH_INTERVAL", "EXAMPULSE_RANGE", "EXAMPULSE_RETENTION"} {
		t.Setenv(name, "")
		_ = os.Unsetenv(name)
	}
	return dir
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("exampulse %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestResolveConfigPrecedence(t *testing.T) {
	dir := isolateEnv(t)
	cfgPath := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	dbPath := filepath.Join(dir, "from-file.db")
	body := "[dashboard]\nrange = \"month\"\nretention = 20\nrefresh-interval = \"1m\"\n\n[storage]\ndb-path = \"" + filepath.ToSlash(dbPath) + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("EXAMPULSE_RETENTION", "30")
	t.Setenv("EXAMPULSE_REFRESH_INTERVAL", "2m")

	root := newRootCmd()
	if err := root.ParseFlags([]string{"--range", "all", "--refresh", "45s"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg, err := resolveConfig(root)
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if cfg.Range != model.RangeAll {
		t.Fatalf("expected flag to win for range, got %s", cfg.Range)
	}
	if cfg.RefreshInterval != 45*time.Second {
		t.Fatalf("expected flag to win for refresh, got %v", cfg.RefreshInterval)
	}
	if cfg.Retention != 30 {
		t.Fatalf("expected env to beat file for retention, got %d", cfg.Retention)
	}
	if cfg.DBPath != filepath.ToSlash(dbPath) {
		t.Fatalf("expected db path from file, got %q", cfg.DBPath)
	}
	if cfg.RecentLimit != dashboard.DefaultRecentLimit {
		t.Fatalf("expected default recent limit, got %d", cfg.RecentLimit)
	}
}

func TestResolveConfigRejectsInvalidValues(t *testing.T) {
	isolateEnv(t)
	cases := [][]string{
		{"--range", "year"},
		{"--refresh", "soon"},
		{"--refresh", "500ms"},
		{"--retention", "0"},
	}
	for _, args := range cases {
		root := newRootCmd()
		if err := root.ParseFlags(args); err != nil {
			t.Fatalf("parse flags %v: %v", args, err)
		}
		if _, err := resolveConfig(root); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestBuildSubmittedRecord(t *testing.T) {
	isolateEnv(t)
	newRootCmd()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	submitName, submitScore, submitStatus, submitAt = "  Go Basics ", 88, "Failed", ""
	rec, err := buildSubmittedRecord(now)
	if err != nil {
		t.Fatalf("build record: %v", err)
	}
	if rec.ID == "" || rec.Name != "Go Basics" || rec.Status != model.StatusFailed || !rec.CompletedAt.Equal(now) {
		t.Fatalf("unexpected record %+v", rec)
	}

	submitAt = "2026-03-01T09:30:00Z"
	rec, err = buildSubmittedRecord(now)
	if err != nil {
		t.Fatalf("build record with --at: %v", err)
	}
	if !rec.CompletedAt.Equal(time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected completion time %v", rec.CompletedAt)
	}

	submitAt = "yesterday"
	if _, err := buildSubmittedRecord(now); err == nil {
		t.Fatalf("expected error for bad --at")
	}
	submitAt, submitStatus = "", "passed"
	if _, err := buildSubmittedRecord(now); err == nil {
		t.Fatalf("expected error for bad status")
	}
	submitStatus, submitScore = "completed", 120
	if _, err := buildSubmittedRecord(now); err == nil {
		t.Fatalf("expected error for out-of-range score")
	}
}

func TestSubmitExportStatsClear(t *testing.T) {
	dir := isolateEnv(t)
	db := filepath.Join(dir, "exampulse.db")

	out := runCLI(t, "submit", "--db", db, "--name", "Go Basics", "--score", "88", "--time", "30", "--questions", "20")
	if !strings.Contains(out, `Recorded "Go Basics"`) || !strings.Contains(out, "Exams: 1") {
		t.Fatalf("unexpected submit output:\n%s", out)
	}

	out = runCLI(t, "export", "--db", db, "--format", "csv", "--stdout")
	if !strings.HasPrefix(out, dashboard.CSVHeader+"\n") || !strings.Contains(out, `"Go Basics"`) {
		t.Fatalf("unexpected csv export:\n%s", out)
	}

	exportDir := filepath.Join(dir, "exports")
	runCLI(t, "export", "--db", db, "--format", "report", "--out", exportDir)
	entries, err := os.ReadDir(exportDir)
	if err != nil || len(entries) != 1 || !strings.HasPrefix(entries[0].Name(), "performance-report-") {
		t.Fatalf("expected one report file, got %v (%v)", entries, err)
	}

	out = runCLI(t, "stats", "--db", db, "--range", "all")
	if !strings.Contains(out, "Exam Performance Report") || !strings.Contains(out, "Go Basics") {
		t.Fatalf("unexpected stats output:\n%s", out)
	}

	runCLI(t, "clear", "--db", db, "--yes")
	out = runCLI(t, "export", "--db", db, "--format", "csv", "--stdout")
	if strings.TrimSpace(out) != dashboard.CSVHeader {
		t.Fatalf("expected empty csv after clear, got:\n%s", out)
	}
}

func TestClearWithoutConfirmationKeepsData(t *testing.T) {
	dir := isolateEnv(t)
	db := filepath.Join(dir, "exampulse.db")
	runCLI(t, "submit", "--db", db, "--name", "Go Basics", "--score", "88")
	runCLI(t, "clear", "--db", db)

	out := runCLI(t, "export", "--db", db, "--format", "csv", "--stdout")
	if !strings.Contains(out, "Go Basics") {
		t.Fatalf("expected history to survive an unconfirmed clear:\n%s", out)
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	isolateEnv(t)
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensure config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template should decode: %v", err)
	}
	if cfg.Dashboard.Range != nil || cfg.Storage.DBPath != nil {
		t.Fatalf("expected all template values to be commented out")
	}

	if err := os.WriteFile(path, []byte("[dashboard]\nretention = 9\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensure config: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(data) != "[dashboard]\nretention = 9\n" {
		t.Fatalf("existing config was overwritten")
	}
}

func sendWithin(t *testing.T, program *tea.Program, msg tea.Msg) {
	t.Helper()
	sent := make(chan struct{})
	go func() {
		program.Send(msg)
		close(sent)
	}()
	select {
	case <-sent:
	case <-time.After(3 * time.Second):
		t.Fatalf("dashboard stopped accepting messages at %T", msg)
	}
}

func waitRange(t *testing.T, ranges <-chan model.DateRange, want model.DateRange) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case got := <-ranges:
			if got == want {
				return
			}
		case <-deadline:
			t.Fatalf("no dashboard view for range %s", want)
		}
	}
}

func TestDashboardRangeKeyRepublishes(t *testing.T) {
	dir := isolateEnv(t)
	st, err := store.Open(filepath.Join(dir, "dash.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer closeStore(st)
	engine := dashboard.NewEngine(st, dashboard.Options{})

	ranges := make(chan model.DateRange, 16)
	recordViews := tea.WithFilter(func(_ tea.Model, msg tea.Msg) tea.Msg {
		if v, ok := msg.(dashui.ViewMsg); ok {
			select {
			case ranges <- v.View.Range:
			default:
			}
		}
		return msg
	})
	cfg := model.Config{RefreshInterval: time.Hour, Range: model.RangeWeek}
	program, coord := newDashboardProgram(engine, cfg, filepath.Join(dir, "exports"),
		tea.WithInput(nil), tea.WithoutRenderer(), recordViews)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	coord.Start(ctx)
	defer coord.Stop()

	result := make(chan error, 1)
	go func() {
		_, err := program.Run()
		result <- err
	}()

	waitRange(t, ranges, model.RangeWeek)
	sendWithin(t, program, tea.WindowSizeMsg{Width: 100, Height: 30})
	sendWithin(t, program, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	waitRange(t, ranges, model.RangeMonth)
	sendWithin(t, program, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("dashboard run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("dashboard did not exit after changing range and quitting")
	}
	if coord.Range() != model.RangeMonth {
		t.Fatalf("expected coordinator range month, got %s", coord.Range())
	}
}
