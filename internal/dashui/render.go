package dashui

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/exampulse/internal/dashboard"
	"github.com/verte-zerg/exampulse/internal/report"
)

// heatStyles colour calendar intensity 0-4.
var heatStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#0E4429")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#006D32")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#26A641")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#39D353")),
}

func renderOverview(v dashboard.View, width int) string {
	parts := []string{renderSummaryCards(v, width)}
	if v.HasComparison {
		parts = append(parts, renderComparisonLine(v))
	}
	parts = append(parts,
		renderSection(func(w io.Writer) error { return report.RenderScoreChart(w, v, width, true) }),
		renderSection(func(w io.Writer) error { return report.RenderGoal(w, v) }),
	)
	return joinSections(parts)
}

func renderSummaryCards(v dashboard.View, width int) string {
	s := v.Snapshot.UserStats
	cards := []string{
		metricCard("Exams", report.Count(s.TotalExams), float64(s.Trend.Exams), report.Delta(float64(s.Trend.Exams), "")),
		metricCard("Avg Score", report.Score(s.AverageScore), s.Trend.Score, report.Delta(s.Trend.Score, "%")),
		metricCard("Streak", fmt.Sprintf("%d days (%d derived)", s.StudyStreak, v.DerivedStreak), float64(s.Trend.Streak), report.Delta(float64(s.Trend.Streak), "")),
		metricCard("Study Time", report.Minutes(s.TotalStudyTime), 0, ""),
		metricCard("Achievements", fmt.Sprintf("%d/%d", v.Unlocked, v.Achievements), 0, ""),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string, delta float64, deltaText string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	if deltaText != "" {
		content += "\n" + trendStyle(delta).Render(deltaText)
	}
	return cardStyle.Render(content)
}

func trendStyle(delta float64) lipgloss.Style {
	switch dashboard.TrendOf(delta) {
	case dashboard.TrendUp:
		return trendUpStyle
	case dashboard.TrendDown:
		return trendDownStyle
	}
	return headerStyle
}

func renderComparisonLine(v dashboard.View) string {
	c := v.Comparison
	return fmt.Sprintf("This week: %d exams, %s avg  %s  %s",
		c.ThisPeriod.ExamCount,
		report.Score(c.ThisPeriod.AverageScore),
		trendStyle(float64(c.Change.Exams)).Render(report.Delta(float64(c.Change.Exams), " exams")),
		trendStyle(c.Change.Score).Render(report.Delta(c.Change.Score, "%")),
	)
}

func renderDomains(v dashboard.View, width int) string {
	return wrapText(joinSections([]string{
		renderSection(func(w io.Writer) error { return report.RenderDomains(w, v) }),
		renderSection(func(w io.Writer) error { return report.RenderWeakAreas(w, v) }),
		renderSection(func(w io.Writer) error { return report.RenderRecommendations(w, v) }),
	}), width)
}

func renderCalendar(v dashboard.View, width int) string {
	parts := []string{renderHeatGrid(v.HeatMap)}
	analytics := v.Snapshot.StudyAnalytics
	if len(analytics.WeeklyStudyTime) > 0 {
		lines := []string{"Weekly Study Time"}
		for _, d := range analytics.WeeklyStudyTime {
			lines = append(lines, fmt.Sprintf("%-4s %s %.1fh", d.Day, report.ProgressBar(d.Hours/4*100, barWidth(width)), d.Hours))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	if len(analytics.PeakHours) > 0 {
		lines := []string{"Peak Study Hours"}
		for _, h := range analytics.PeakHours {
			lines = append(lines, fmt.Sprintf("%-6s %s %d%%", h.Hour, report.ProgressBar(float64(h.Activity), barWidth(width)), h.Activity))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	if len(v.Snapshot.Achievements) > 0 {
		lines := []string{fmt.Sprintf("Achievements (%d/%d)", v.Unlocked, v.Achievements)}
		for _, a := range v.Snapshot.Achievements {
			status := fmt.Sprintf("%d%%", a.Progress)
			if a.Unlocked {
				status = "unlocked"
				if a.UnlockedDate != nil {
					status += " " + report.Date(*a.UnlockedDate)
				}
			}
			lines = append(lines, fmt.Sprintf("%s %s - %s (%s)", a.Icon, a.Name, a.Description, status))
		}
		parts = append(parts, wrapText(strings.Join(lines, "\n"), width))
	}
	return joinSections(parts)
}

// renderHeatGrid lays calendar cells out in week columns, Monday on top.
func renderHeatGrid(cells []dashboard.HeatCell) string {
	if len(cells) == 0 {
		return "No study activity recorded."
	}
	const weekdays = 7
	offset := (int(cells[0].Date.Weekday()) + 6) % weekdays
	cols := (offset + len(cells) + weekdays - 1) / weekdays
	grid := make([][]string, weekdays)
	for row := range grid {
		grid[row] = make([]string, cols)
		for col := range grid[row] {
			grid[row][col] = " "
		}
	}
	for i, c := range cells {
		pos := offset + i
		idx := c.Intensity
		if idx < 0 || idx >= len(heatStyles) {
			idx = 0
		}
		grid[pos%weekdays][pos/weekdays] = heatStyles[idx].Render(report.HeatRow([]dashboard.HeatCell{c}))
	}
	labels := []string{"Mon", "", "Wed", "", "Fri", "", "Sun"}
	lines := []string{fmt.Sprintf("Study Calendar (%s - %s)", cells[0].Date.Format("Jan 2"), cells[len(cells)-1].Date.Format("Jan 2"))}
	for row := 0; row < weekdays; row++ {
		lines = append(lines, fmt.Sprintf("%-4s%s", labels[row], strings.Join(grid[row], " ")))
	}
	legend := make([]string, 0, len(heatStyles))
	for i, style := range heatStyles {
		legend = append(legend, style.Render(report.HeatRow([]dashboard.HeatCell{{Intensity: i}})))
	}
	lines = append(lines, "Less "+strings.Join(legend, " ")+" More")
	return strings.Join(lines, "\n")
}

func barWidth(width int) int {
	return maxInt(10, minInt(30, width-20))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func renderSection(render func(io.Writer) error) string {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Sprintf("Failed to render: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func joinSections(parts []string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}
