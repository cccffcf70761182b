package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/exampulse/internal/config"
	"github.com/verte-zerg/exampulse/internal/dashboard"
	"github.com/verte-zerg/exampulse/internal/model"
	"github.com/verte-zerg/exampulse/internal/report"
	"github.com/verte-zerg/exampulse/internal/store"
)

var (
	submitName      string
	submitScore     float64
	submitMaxScore  float64
	submitTime      int
	submitQuestions int
	submitStatus    string
	submitAt        string

	exportFormat string
	exportOut    string
	exportStdout bool

	clearYes bool
)

// openEngine resolves configuration, opens the store and loads the engine.
func openEngine(cmd *cobra.Command) (*dashboard.Engine, *store.Store, model.Config, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, model.Config{}, err
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, model.Config{}, fmt.Errorf("failed to open db: %w", err)
	}
	engine := dashboard.NewEngine(st, dashboard.Options{
		Retention:   cfg.Retention,
		RecentLimit: cfg.RecentLimit,
	})
	if err := engine.Refresh(cmd.Context()); err != nil {
		closeStore(st)
		return nil, nil, model.Config{}, err
	}
	return engine, st, cfg, nil
}

func newSubmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Record a finished exam",
		Args:  cobra.NoArgs,
		RunE:  runSubmitCmd,
	}
	cmd.Flags().StringVar(&submitName, "name", "", "exam name")
	cmd.Flags().Float64Var(&submitScore, "score", 0, "score percentage (0-100)")
	cmd.Flags().Float64Var(&submitMaxScore, "max-score", 100, "maximum achievable score")
	cmd.Flags().IntVar(&submitTime, "time", 0, "minutes spent")
	cmd.Flags().IntVar(&submitQuestions, "questions", 0, "number of questions")
	cmd.Flags().StringVar(&submitStatus, "status", string(model.StatusCompleted), "completed, in-progress or failed")
	cmd.Flags().StringVar(&submitAt, "at", "", "completion time (RFC3339, default now)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("score")
	return cmd
}

func runSubmitCmd(cmd *cobra.Command, _ []string) error {
	record, err := buildSubmittedRecord(time.Now())
	if err != nil {
		return err
	}

	engine, st, _, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := engine.SubmitExamResult(cmd.Context(), record); err != nil {
		return fmt.Errorf("failed to record exam: %w", err)
	}
	stats := engine.Stats()
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Recorded %q (%s): %s\n", record.Name, record.ID, report.Score(record.Score)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintf(out, "Exams: %s  Average: %s  Questions: %s  Study time: %s\n",
		report.Count(stats.TotalExams), report.Score(stats.AverageScore),
		report.Count(stats.TotalQuestions), report.Minutes(stats.TotalStudyTime)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func buildSubmittedRecord(now time.Time) (model.ExamRecord, error) {
	status, err := model.ParseExamStatus(submitStatus)
	if err != nil {
		return model.ExamRecord{}, err
	}
	completedAt := now
	if strings.TrimSpace(submitAt) != "" {
		completedAt, err = time.Parse(time.RFC3339, strings.TrimSpace(submitAt))
		if err != nil {
			return model.ExamRecord{}, fmt.Errorf("invalid --at value (expected RFC3339): %w", err)
		}
	}
	if submitMaxScore <= 0 {
		return model.ExamRecord{}, fmt.Errorf("--max-score must be > 0")
	}
	record := model.ExamRecord{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(submitName),
		CompletedAt:   completedAt,
		Score:         submitScore,
		MaxScore:      submitMaxScore,
		TimeSpent:     submitTime,
		QuestionCount: submitQuestions,
		Status:        status,
	}
	if err := record.Validate(); err != nil {
		return model.ExamRecord{}, err
	}
	return record, nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export dashboard data",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", "json", "json, csv or report")
	cmd.Flags().StringVar(&exportOut, "out", config.DefaultExportDir(), "output directory")
	cmd.Flags().BoolVar(&exportStdout, "stdout", false, "write to stdout instead of a file")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	kind := strings.ToLower(strings.TrimSpace(exportFormat))
	if kind != exportKindText {
		if _, err := dashboard.ParseExportFormat(kind); err != nil {
			return fmt.Errorf("%w (or report)", err)
		}
	}

	engine, st, cfg, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st)

	now := time.Now()
	view := engine.View(cfg.Range, now)
	if exportStdout {
		text, err := exportText(engine, kind, view, now)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(text, "\n")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	path, err := exportView(engine, exportOut, kind, view, now)
	if err != nil {
		return err
	}
	logErrf("Wrote %s\n", path)
	return nil
}

func exportText(engine *dashboard.Engine, kind string, v dashboard.View, now time.Time) (string, error) {
	if kind == exportKindText {
		return report.Text(v, report.Options{Width: report.TerminalWidth()})
	}
	format, err := dashboard.ParseExportFormat(kind)
	if err != nil {
		return "", err
	}
	return engine.ExportAsText(format, now)
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the performance report",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	engine, st, cfg, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st)

	view := engine.View(cfg.Range, time.Now())
	if err := report.Render(cmd.OutOrStdout(), view, report.Options{}); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored exams and reset the dashboard",
		Args:  cobra.NoArgs,
		RunE:  runClearCmd,
	}
	cmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func runClearCmd(cmd *cobra.Command, _ []string) error {
	if !clearYes {
		if _, err := fmt.Fprint(cmd.OutOrStdout(), "Delete all exam history? [y/N] "); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			logErrln("Aborted.")
			return nil
		}
	}

	engine, st, _, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := engine.Clear(cmd.Context()); err != nil {
		return err
	}
	logErrln("Cleared exam history.")
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the commented template unless a config exists.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}
