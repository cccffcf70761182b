package report

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/exampulse/internal/dashboard"
	"github.com/verte-zerg/exampulse/internal/model"
	"github.com/verte-zerg/exampulse/internal/store"
)

var reportNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func buildView(t *testing.T, records ...model.ExamRecord) dashboard.View {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "exampulse.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	engine := dashboard.NewEngine(st, dashboard.Options{Now: func() time.Time { return reportNow }})
	if err := engine.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	for _, r := range records {
		if err := engine.SubmitExamResult(ctx, r); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	return engine.View(model.RangeWeek, reportNow)
}

func TestRenderReport(t *testing.T) {
	v := buildView(t,
		model.ExamRecord{ID: "1", Name: "Networking Basics", CompletedAt: reportNow.Add(-48 * time.Hour), Score: 64, MaxScore: 100, TimeSpent: 30, QuestionCount: 20, Status: model.StatusCompleted},
		model.ExamRecord{ID: "2", Name: "Cloud Security", CompletedAt: reportNow.Add(-time.Hour), Score: 91, MaxScore: 100, TimeSpent: 75, QuestionCount: 1200, Status: model.StatusCompleted},
	)

	var buf bytes.Buffer
	if err := Render(&buf, v, Options{Width: 80}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Exam Performance Report",
		"Range: Last 7 days",
		"Summary",
		"Average score",
		"Derived streak",
		"77.5%",
		"This Week vs Last Week",
		"Exams (Last 7 days)",
		"Cloud Security",
		"1,200",
		"1h 15m",
		"Score Trend",
		"Domain Performance",
		"Study Calendar",
		"Goals",
		"[x] 10 Exams",
		"Weak Areas",
		"Recommended Next",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in report:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no colour codes when writing to a buffer")
	}
	if strings.Index(out, "Cloud Security") > strings.Index(out, "Networking Basics") {
		t.Fatalf("expected newest exam listed first")
	}
}

func TestRenderExamsEmptyRange(t *testing.T) {
	v := dashboard.View{Range: model.RangeWeek}
	var buf bytes.Buffer
	if err := RenderExams(&buf, v); err != nil {
		t.Fatalf("render exams: %v", err)
	}
	if !strings.Contains(buf.String(), "No exams in this range.") {
		t.Fatalf("expected empty-range message, got %q", buf.String())
	}
}

func TestRenderGoalOverdue(t *testing.T) {
	v := dashboard.View{Goal: &dashboard.GoalStatus{
		Goal:     model.Goal{Target: "Average score", Current: 60, TargetValue: 80},
		Percent:  75,
		DaysLeft: -2,
	}}
	var buf bytes.Buffer
	if err := RenderGoal(&buf, v); err != nil {
		t.Fatalf("render goal: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "overdue") || !strings.Contains(out, "75%") {
		t.Fatalf("unexpected goal output %q", out)
	}
}

func TestPlotScores(t *testing.T) {
	var buf bytes.Buffer
	err := PlotScores(&buf, "Score Trend", []Series{
		{Name: "Score", Values: []float64{40, 60, 80, 100}},
	}, 12, 4, false)
	if err != nil {
		t.Fatalf("plot: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// title, 4 chart rows, legend
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "100 │ ") || !strings.HasPrefix(lines[4], "  0 │ ") {
		t.Fatalf("unexpected axis labels:\n%s", buf.String())
	}
	if !strings.HasPrefix(lines[5], "Legend:") {
		t.Fatalf("expected legend, got %q", lines[5])
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 74 {
		t.Fatalf("expected 74, got %d", got)
	}
	if got := PlotWidthFor(5); got != minPlotWidth {
		t.Fatalf("expected minimum width, got %d", got)
	}
}
