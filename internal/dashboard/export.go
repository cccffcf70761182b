package dashboard

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/exampulse/internal/model"
)

// ExportFormat selects the text export encoding.
type ExportFormat string

// Export formats.
const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
)

// CSVHeader is the first line of a CSV export.
const CSVHeader = "Exam Name,Date,Score,Time Spent,Status"

// isoMillis is ISO-8601 in UTC with millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// ParseExportFormat normalizes an export format name.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json or csv)", s)
}

// ExportDocument is the JSON export layout.
type ExportDocument struct {
	Dashboard   model.DashboardSnapshot `json:"dashboard"`
	ExamHistory []model.ExamRecord      `json:"examHistory"`
	ExportDate  time.Time               `json:"exportDate"`
}

// ExportAsText serializes the snapshot and history in the given format.
func (e *Engine) ExportAsText(format ExportFormat, now time.Time) (string, error) {
	e.mu.RLock()
	records := e.history.Records()
	snap := cloneSnapshot(e.snapshot)
	e.mu.RUnlock()

	switch format {
	case FormatJSON:
		if records == nil {
			records = []model.ExamRecord{}
		}
		doc := ExportDocument{
			Dashboard:   snap,
			ExamHistory: records,
			ExportDate:  now.UTC(),
		}
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode export: %w", err)
		}
		return string(out), nil
	case FormatCSV:
		return renderCSV(records), nil
	}
	return "", fmt.Errorf("unknown export format %q", format)
}

// ExportToFile writes an export into dir and returns its path. A failed
// export leaves no file behind and reports false.
func (e *Engine) ExportToFile(dir string, format ExportFormat, now time.Time) (string, bool) {
	content, err := e.ExportAsText(format, now)
	if err != nil {
		log.Printf("export failed: %v", err)
		return "", false
	}
	path := filepath.Join(dir, ExportFileName("dashboard-export", string(format), now))
	if err := WriteExportFile(path, content); err != nil {
		log.Printf("export failed: %v", err)
		return "", false
	}
	return path, true
}

// ExportFileName builds a dated export file name such as
// dashboard-export-2026-03-10.json.
func ExportFileName(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", prefix, now.Format("2006-01-02"), ext)
}

// WriteExportFile writes content to path through a temp file and rename.
func WriteExportFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "export-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.WriteString(content); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func renderCSV(records []model.ExamRecord) string {
	var b strings.Builder
	b.WriteString(CSVHeader)
	b.WriteByte('\n')
	for _, r := range records {
		b.WriteString(quoteCSV(r.Name))
		b.WriteByte(',')
		b.WriteString(quoteCSV(r.CompletedAt.UTC().Format(isoMillis)))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(r.Score, 'f', -1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(r.TimeSpent))
		b.WriteByte(',')
		b.WriteString(quoteCSV(string(r.Status)))
		b.WriteByte('\n')
	}
	return b.String()
}

func quoteCSV(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
