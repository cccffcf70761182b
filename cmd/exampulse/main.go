// Package main provides the CLI entrypoint for exampulse.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/exampulse/internal/config"
	"github.com/verte-zerg/exampulse/internal/dashboard"
	"github.com/verte-zerg/exampulse/internal/dashui"
	"github.com/verte-zerg/exampulse/internal/model"
	"github.com/verte-zerg/exampulse/internal/report"
	"github.com/verte-zerg/exampulse/internal/store"
)

const (
	defaultRange   = "week"
	exportKindText = "report"
)

var (
	flagDBPath      string
	flagRefresh     string
	flagRange       string
	flagRetention   int
	flagRecentLimit int
	flagLogFile     string
	flagExportDir   string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "exampulse",
		Short:         "Exam performance dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runDashboardCmd,
	}

	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", config.DefaultDBPath(), "path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&flagRange, "range", defaultRange, "date range: week, month or all")
	rootCmd.PersistentFlags().IntVar(&flagRetention, "retention", dashboard.DefaultRetention, "number of exams kept in history")
	rootCmd.PersistentFlags().IntVar(&flagRecentLimit, "recent-limit", dashboard.DefaultRecentLimit, "number of recent exams kept on the dashboard")
	rootCmd.Flags().StringVar(&flagRefresh, "refresh", dashboard.DefaultRefreshInterval.String(), "dashboard refresh interval")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "write diagnostics to this file while the dashboard runs")
	rootCmd.Flags().StringVar(&flagExportDir, "export-dir", config.DefaultExportDir(), "directory for dashboard exports")

	rootCmd.AddCommand(newSubmitCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	if flagLogFile != "" {
		logFile, err := tea.LogToFile(flagLogFile, "exampulse")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() {
			_ = logFile.Close()
		}()
	} else {
		log.SetOutput(io.Discard)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	engine := dashboard.NewEngine(st, dashboard.Options{
		Retention:   cfg.Retention,
		RecentLimit: cfg.RecentLimit,
	})

	program, coord := newDashboardProgram(engine, cfg, flagExportDir, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	coord.Start(ctx)
	defer coord.Stop()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

// newDashboardProgram wires the coordinator to a Bubble Tea program. Views
// reach the program through Send; the coordinator must be started by the caller.
func newDashboardProgram(engine *dashboard.Engine, cfg model.Config, exportDir string, opts ...tea.ProgramOption) (*tea.Program, *dashboard.Coordinator) {
	var program *tea.Program
	coord := dashboard.NewCoordinator(engine, cfg.RefreshInterval, cfg.Range, func(v dashboard.View) {
		program.Send(dashui.ViewMsg{View: v})
	})
	ui := dashui.NewModel(coord, func(kind string, v dashboard.View) (string, error) {
		return exportView(engine, exportDir, kind, v, time.Now())
	})
	program = tea.NewProgram(ui, opts...)
	return program, coord
}

// exportView writes one export of kind into dir and returns its path.
func exportView(engine *dashboard.Engine, dir, kind string, v dashboard.View, now time.Time) (string, error) {
	if kind == exportKindText {
		text, err := report.Text(v, report.Options{Width: 100})
		if err != nil {
			return "", fmt.Errorf("failed to render report: %w", err)
		}
		path := filepath.Join(dir, dashboard.ExportFileName("performance-report", "txt", now))
		if err := dashboard.WriteExportFile(path, text); err != nil {
			return "", err
		}
		return path, nil
	}
	format, err := dashboard.ParseExportFormat(kind)
	if err != nil {
		return "", err
	}
	path, ok := engine.ExportToFile(dir, format, now)
	if !ok {
		return "", fmt.Errorf("failed to write %s export to %s", format, dir)
	}
	return path, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
