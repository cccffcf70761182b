// Package dashui provides the Bubble Tea dashboard interface.
package dashui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/exampulse/internal/dashboard"
	"github.com/verte-zerg/exampulse/internal/model"
	"github.com/verte-zerg/exampulse/internal/report"
)

const (
	tabOverview = iota
	tabExams
	tabDomains
	tabCalendar
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3A8CC8"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	trendUpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	trendDownStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Controller drives the refresh coordinator. Both methods are called from
// Update and must return without waiting for a view to be delivered.
type Controller interface {
	Trigger()
	SetRange(r model.DateRange)
}

// ExportFunc writes an export of the given kind (json, csv or report) and
// returns the written path.
type ExportFunc func(kind string, v dashboard.View) (string, error)

// ViewMsg delivers a freshly published dashboard view.
type ViewMsg struct {
	View dashboard.View
}

type exportDoneMsg struct {
	path string
	err  error
}

// Model implements the Bubble Tea dashboard UI.
type Model struct {
	ctrl   Controller
	export ExportFunc

	view       dashboard.View
	hasView    bool
	refreshing bool
	notice     string
	errMsg     string

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	examTable   table.Model
	tableLayout tableLayout

	width  int
	height int
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a dashboard model. Views arrive through ViewMsg.
func NewModel(ctrl Controller, export ExportFunc) *Model {
	m := &Model{
		ctrl:       ctrl,
		export:     export,
		refreshing: true,
		tabs:       []string{"Overview", "Exams", "Domains", "Calendar"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.examTable = table.New(
		table.WithColumns(examColumns()),
		table.WithHeight(1),
	)
	m.examTable.SetStyles(examTableStyles())
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case ViewMsg:
		m.applyView(msg.View)
		return m, nil
	case exportDoneMsg:
		if msg.err != nil {
			m.notice = ""
			m.errMsg = fmt.Sprintf("export failed: %v", msg.err)
		} else {
			m.errMsg = ""
			m.notice = "Exported to " + msg.path
		}
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
		return m, tea.Quit
	}
	switch msg.String() {
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l", "tab":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "r":
		m.refreshing = true
		m.notice = ""
		if m.ctrl != nil {
			m.ctrl.Trigger()
		}
		return m, nil
	case "w":
		m.setRange(model.RangeWeek)
		return m, nil
	case "m":
		m.setRange(model.RangeMonth)
		return m, nil
	case "a":
		m.setRange(model.RangeAll)
		return m, nil
	case "e":
		return m, m.startExport("json")
	case "c":
		return m, m.startExport("csv")
	case "p":
		return m, m.startExport("report")
	case "g", "home":
		if m.activeTab == tabExams {
			m.examTable.GotoTop()
		} else {
			m.viewports[m.activeTab].GotoTop()
		}
		return m, nil
	case "G", "end":
		if m.activeTab == tabExams {
			m.examTable.GotoBottom()
		} else {
			m.viewports[m.activeTab].GotoBottom()
		}
		return m, nil
	}
	var cmd tea.Cmd
	if m.activeTab == tabExams {
		m.examTable, cmd = m.examTable.Update(msg)
		return m, cmd
	}
	m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) applyView(v dashboard.View) {
	m.view = v
	m.hasView = true
	m.refreshing = false
	if v.Err != nil {
		m.errMsg = v.Err.Error()
	} else {
		m.errMsg = ""
	}
	m.applyExamTable(true)
	m.renderTabContents()
}

func (m *Model) setRange(r model.DateRange) {
	if m.hasView && m.view.Range == r {
		return
	}
	m.notice = ""
	if m.ctrl != nil {
		m.ctrl.SetRange(r)
	}
}

func (m *Model) startExport(kind string) tea.Cmd {
	if m.export == nil || !m.hasView {
		return nil
	}
	m.notice = "Exporting " + kind + "..."
	export := m.export
	v := m.view
	return func() tea.Msg {
		path, err := export(kind, v)
		return exportDoneMsg{path: path, err: err}
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" || m.notice != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setExamTableSize(m.width, vpHeight)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := (m.activeTab + delta + count) % count
	m.activeTab = next
	if m.activeTab == tabExams {
		m.examTable.Focus()
	} else {
		m.examTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	return tabs + "\n" + padLines(m.renderStatus(), m.width)
}

func (m *Model) renderStatus() string {
	rangeLabel := "-"
	if m.hasView {
		rangeLabel = m.view.Range.Label()
	}
	state := "Loading..."
	switch {
	case m.refreshing && m.hasView:
		state = "Refreshing..."
	case m.hasView && !m.view.FetchedAt.IsZero():
		state = "Updated " + m.view.FetchedAt.Format(time.TimeOnly)
	case m.hasView:
		state = "Not loaded"
	}
	summary := fmt.Sprintf("Range: %s  %s", rangeLabel, state)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Range: w/m/a  Refresh: r  Export: e json, c csv, p report  Quit: q"
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	switch {
	case m.errMsg != "":
		return m.renderHelp() + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	case m.notice != "":
		return m.renderHelp() + "\n" + noticeStyle.Render(truncateLine(m.notice, m.width))
	}
	return m.renderHelp()
}

func (m *Model) renderBody(height int) string {
	if !m.hasView {
		return fitLines("Loading dashboard...", m.width, height)
	}
	if m.activeTab == tabExams {
		if len(m.view.Exams) == 0 {
			return fitLines("No exams in this range.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.examTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderTabContents() {
	if !m.hasView {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.view, width))
	m.viewports[tabDomains].SetContent(renderDomains(m.view, width))
	m.viewports[tabCalendar].SetContent(renderCalendar(m.view, width))
}

func examColumns() []table.Column {
	return []table.Column{
		{Title: "Exam", Width: 32},
		{Title: "Date", Width: 12},
		{Title: "Score", Width: 7},
		{Title: "Time", Width: 8},
		{Title: "Questions", Width: 9},
		{Title: "Status", Width: 11},
	}
}

func examRows(exams []model.ExamRecord) []table.Row {
	rows := make([]table.Row, 0, len(exams))
	for _, e := range exams {
		rows = append(rows, table.Row(report.ExamRow(e)))
	}
	return rows
}

func (m *Model) applyExamTable(force bool) {
	rows := examRows(m.view.Exams)
	if !force && m.tableLayout.rowCount == len(rows) {
		return
	}
	m.examTable.SetRows(rows)
	m.tableLayout.rowCount = len(rows)
	if m.width > 0 && m.height > 0 {
		_, bodyHeight, _ := m.layoutHeights()
		m.tableLayout.width = 0
		m.setExamTableSize(m.width, bodyHeight)
	}
}

func (m *Model) setExamTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	if m.tableLayout.width == width && m.tableLayout.height == viewportHeight {
		return
	}
	m.tableLayout.width = width
	m.tableLayout.height = viewportHeight
	m.examTable.SetWidth(width)
	m.examTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustExamTableHeight(height)
	if m.tableLayout.height != viewportHeight {
		m.tableLayout.height = viewportHeight
		m.examTable.SetHeight(viewportHeight)
	}
}

func (m *Model) adjustExamTableHeight(bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := m.examTable.Height()
	viewHeight := lipgloss.Height(m.examTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func examTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
