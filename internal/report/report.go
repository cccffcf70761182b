package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/verte-zerg/exampulse/internal/dashboard"
	"github.com/verte-zerg/exampulse/internal/model"
)

// Options controls report layout.
type Options struct {
	// Width is the total line width; zero uses the terminal width.
	Width int
	// Color forces ANSI colour in the score chart.
	Color bool
}

const examNameWidth = 32

// Render writes the full performance report for a view.
func Render(w io.Writer, v dashboard.View, opts Options) error {
	width := opts.Width
	if width <= 0 {
		width = terminalWidth()
	}
	sections := []func(io.Writer, dashboard.View) error{
		renderHeader,
		RenderSummary,
		RenderComparison,
		RenderExams,
		func(w io.Writer, v dashboard.View) error {
			return RenderScoreChart(w, v, width, opts.Color)
		},
		RenderDomains,
		RenderCalendar,
		RenderGoal,
		RenderWeakAreas,
		RenderRecommendations,
	}
	for _, section := range sections {
		if err := section(w, v); err != nil {
			return err
		}
	}
	return nil
}

// Text renders the report into a string.
func Text(v dashboard.View, opts Options) (string, error) {
	var b strings.Builder
	if err := Render(&b, v, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderHeader(w io.Writer, v dashboard.View) error {
	lines := []string{
		"Exam Performance Report",
		fmt.Sprintf("Range: %s", v.Range.Label()),
	}
	if !v.FetchedAt.IsZero() {
		lines = append(lines, fmt.Sprintf("Updated: %s", v.FetchedAt.Format("2006-01-02 15:04")))
	}
	return writeLines(w, append(lines, ""))
}

// RenderSummary prints the headline user statistics.
func RenderSummary(w io.Writer, v dashboard.View) error {
	s := v.Snapshot.UserStats
	last := "never"
	if s.LastExamDate != nil {
		last = Date(*s.LastExamDate)
	}
	rows := [][]string{
		{"Exams taken", Count(s.TotalExams), Delta(float64(s.Trend.Exams), "")},
		{"Average score", Score(s.AverageScore), Delta(s.Trend.Score, "%")},
		{"Study streak", fmt.Sprintf("%d days", s.StudyStreak), Delta(float64(s.Trend.Streak), "")},
		{"Derived streak", fmt.Sprintf("%d days", v.DerivedStreak), "from history"},
		{"Questions", Count(s.TotalQuestions), ""},
		{"Study time", Minutes(s.TotalStudyTime), ""},
		{"Last exam", last, ""},
		{"Achievements", fmt.Sprintf("%d/%d", v.Unlocked, v.Achievements), ""},
	}
	lines := []string{"Summary"}
	lines = append(lines, formatTable(nil, rows, map[int]bool{1: true})...)
	return writeLines(w, append(lines, ""))
}

// RenderComparison prints this week against the week before.
func RenderComparison(w io.Writer, v dashboard.View) error {
	if !v.HasComparison {
		return nil
	}
	c := v.Comparison
	rows := [][]string{
		{"Exams", Count(c.ThisPeriod.ExamCount), Count(c.LastPeriod.ExamCount), Delta(float64(c.Change.Exams), "")},
		{"Avg score", Score(c.ThisPeriod.AverageScore), Score(c.LastPeriod.AverageScore), Delta(c.Change.Score, "%")},
	}
	lines := []string{"This Week vs Last Week"}
	lines = append(lines, formatTable([]string{"", "This week", "Last week", "Change"}, rows, map[int]bool{1: true, 2: true})...)
	return writeLines(w, append(lines, ""))
}

// RenderExams prints the exams inside the selected range, newest first.
func RenderExams(w io.Writer, v dashboard.View) error {
	title := fmt.Sprintf("Exams (%s)", v.Range.Label())
	if len(v.Exams) == 0 {
		return writeLines(w, []string{title, "No exams in this range.", ""})
	}
	rows := make([][]string, 0, len(v.Exams))
	for _, e := range v.Exams {
		rows = append(rows, ExamRow(e))
	}
	lines := []string{title}
	lines = append(lines, formatTable(ExamHeaders, rows, map[int]bool{2: true, 3: true, 4: true})...)
	return writeLines(w, append(lines, ""))
}

// ExamHeaders are the column titles of an exam row.
var ExamHeaders = []string{"Exam", "Date", "Score", "Time", "Questions", "Status"}

// ExamRow formats one exam for tabular display.
func ExamRow(e model.ExamRecord) []string {
	return []string{
		truncateCell(e.Name, examNameWidth),
		Date(e.CompletedAt),
		Score(e.Score),
		Minutes(e.TimeSpent),
		Count(e.QuestionCount),
		string(e.Status),
	}
}

// RenderScoreChart plots exam scores for the range, oldest to newest.
func RenderScoreChart(w io.Writer, v dashboard.View, width int, color bool) error {
	if len(v.Exams) < 2 {
		return nil
	}
	scores := make([]float64, len(v.Exams))
	for i, e := range v.Exams {
		scores[len(v.Exams)-1-i] = e.Score
	}
	return PlotScores(w, "Score Trend", []Series{{Name: "Score", Values: scores}}, PlotWidthFor(width), 0, color)
}

// RenderDomains prints per-domain accuracy, strongest first.
func RenderDomains(w io.Writer, v dashboard.View) error {
	if len(v.Domains) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(v.Domains))
	for _, d := range v.Domains {
		rows = append(rows, []string{
			d.Domain,
			Score(d.Accuracy),
			ProgressBar(d.Accuracy, 20),
			fmt.Sprintf("%s/%s", Count(d.QuestionsAnswered), Count(d.TotalQuestions)),
			fmt.Sprintf("%ds", d.AverageTime),
		})
	}
	lines := []string{"Domain Performance"}
	lines = append(lines, formatTable([]string{"Domain", "Accuracy", "", "Answered", "Avg time"}, rows, map[int]bool{1: true, 3: true, 4: true})...)
	return writeLines(w, append(lines, ""))
}

// RenderCalendar prints the study heat map and daily score sparkline.
func RenderCalendar(w io.Writer, v dashboard.View) error {
	if len(v.HeatMap) == 0 {
		return nil
	}
	scores := make([]float64, len(v.HeatMap))
	active := 0
	for i, c := range v.HeatMap {
		scores[i] = c.Score
		if c.Intensity > 0 {
			active++
		}
	}
	first := v.HeatMap[0].Date
	last := v.HeatMap[len(v.HeatMap)-1].Date
	lines := []string{
		fmt.Sprintf("Study Calendar (%s - %s)", first.Format("Jan 2"), last.Format("Jan 2")),
		"Activity: " + HeatRow(v.HeatMap),
		"Scores:   " + Sparkline(scores),
		fmt.Sprintf("Active days: %d/%d", active, len(v.HeatMap)),
		"",
	}
	return writeLines(w, lines)
}

// RenderGoal prints the current goal and milestones.
func RenderGoal(w io.Writer, v dashboard.View) error {
	if v.Goal == nil && len(v.Snapshot.Goals.Milestones) == 0 {
		return nil
	}
	lines := []string{"Goals"}
	if g := v.Goal; g != nil {
		due := fmt.Sprintf("%d days left", g.DaysLeft)
		if g.DaysLeft < 0 {
			due = "overdue"
		}
		lines = append(lines,
			fmt.Sprintf("%s: %.1f / %.1f", g.Goal.Target, g.Goal.Current, g.Goal.TargetValue),
			fmt.Sprintf("%s %.0f%% (%s)", ProgressBar(g.Percent, 30), g.Percent, due),
		)
	}
	for _, m := range v.Snapshot.Goals.Milestones {
		mark := "[ ]"
		detail := ""
		if m.Completed {
			mark = "[x]"
		} else if m.Progress > 0 {
			detail = fmt.Sprintf(" (%d%%)", m.Progress)
		}
		lines = append(lines, fmt.Sprintf("%s %s%s", mark, m.Name, detail))
	}
	return writeLines(w, append(lines, ""))
}

// RenderWeakAreas prints flagged domains, weakest first.
func RenderWeakAreas(w io.Writer, v dashboard.View) error {
	areas := slices.Clone(v.Snapshot.WeakAreas)
	if len(areas) == 0 {
		return nil
	}
	slices.SortStableFunc(areas, func(a, b model.WeakArea) int {
		switch {
		case a.Accuracy < b.Accuracy:
			return -1
		case a.Accuracy > b.Accuracy:
			return 1
		}
		return 0
	})
	lines := []string{"Weak Areas"}
	for _, a := range areas {
		lines = append(lines,
			fmt.Sprintf("- %s %s [%s priority]", a.Domain, Score(a.Accuracy), a.Priority),
			"  "+a.Recommendation,
		)
	}
	return writeLines(w, append(lines, ""))
}

// RenderRecommendations prints suggested next activities.
func RenderRecommendations(w io.Writer, v dashboard.View) error {
	recs := v.Snapshot.Recommendations
	if len(recs) == 0 {
		return nil
	}
	lines := []string{"Recommended Next"}
	for _, r := range recs {
		lines = append(lines, fmt.Sprintf("- %s (%s, ~%s): %s", r.Title, r.Type, Minutes(r.EstimatedTime), r.Reason))
	}
	return writeLines(w, append(lines, ""))
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
