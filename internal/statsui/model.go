// Package statsui provides the Bubble Tea report viewer.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/huepattern/internal/dataset"
	"github.com/verte-zerg/huepattern/internal/model"
	"github.com/verte-zerg/huepattern/internal/pattern"
	"github.com/verte-zerg/huepattern/internal/stats"
)

const (
	tabScores = iota
	tabCurves
	tabLevels
)

const (
	plotHeight = 10
	barWidth   = 40
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Settings selects what the viewer computes.
type Settings struct {
	Metric   string
	Data     model.DataConfig
	Analysis model.AnalysisConfig
}

type reportMsg struct {
	gen    int
	report stats.Report
	err    error
}

// Model implements the Bubble Tea report viewer.
type Model struct {
	ctx      context.Context
	sessions []model.Session
	load     dataset.LoadStats
	settings Settings

	report  stats.Report
	errMsg  string
	loading bool
	gen     int

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	scoreTable  table.Model
	tableHeight int

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a viewer over already loaded sessions.
func NewModel(ctx context.Context, sessions []model.Session, load dataset.LoadStats, settings Settings) *Model {
	if settings.Metric == "" {
		settings.Metric = pattern.Names[0]
	}
	m := &Model{
		ctx:      ctx,
		sessions: sessions,
		load:     load,
		settings: settings,
		tabs:     []string{"Scores", "Curves", "Levels"},
	}
	m.initInputs()
	m.scoreTable = buildScoreTable(nil, 0, 1)
	m.initViewports()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.refreshReport()
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
	case reportMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.errMsg = ""
			m.report = msg.report
		}
		m.scoreTable.SetRows(scoreRows(m.report.Scores))
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "m":
			m.settings.Metric = nextMetric(m.settings.Metric)
			return m, m.refreshReport()
		case "=":
			m.settings.Data.MistakeMinLevel++
			return m, m.refreshReport()
		case "-":
			if m.settings.Data.MistakeMinLevel > 0 {
				m.settings.Data.MistakeMinLevel--
			}
			return m, m.refreshReport()
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabScores {
				m.scoreTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabScores {
				m.scoreTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabScores {
				var cmd tea.Cmd
				m.scoreTable, cmd = m.scoreTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
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

// Report returns the last computed report.
func (m *Model) Report() stats.Report {
	return m.report
}

// refreshReport starts a recomputation; results of superseded runs are dropped.
func (m *Model) refreshReport() tea.Cmd {
	m.gen++
	m.loading = true
	gen := m.gen
	ctx := m.ctx
	sessions := m.sessions
	settings := m.settings
	settings.Data.Models = append([]model.ColorModel(nil), settings.Data.Models...)
	return func() tea.Msg {
		stat, err := pattern.New(settings.Metric, settings.Analysis)
		if err != nil {
			return reportMsg{gen: gen, err: err}
		}
		report, err := stats.BuildReport(ctx, sessions, stat, settings.Data, settings.Analysis.Workers)
		return reportMsg{gen: gen, report: report, err: err}
	}
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Metric: "),
		newFilterInput("Mistake min level: "),
		newFilterInput("Models: "),
	}
	m.setInputsFromSettings()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromSettings() {
	m.filterInputs[0].SetValue(m.settings.Metric)
	m.filterInputs[1].SetValue(strconv.Itoa(m.settings.Data.MistakeMinLevel))
	names := make([]string, len(m.settings.Data.Models))
	for i, cm := range m.settings.Data.Models {
		names[i] = string(cm)
	}
	m.filterInputs[2].SetValue(strings.Join(names, ","))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
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
	m.tableHeight = maxInt(1, vpHeight-summaryHeight())
	m.scoreTable.SetWidth(m.width)
	m.scoreTable.SetHeight(m.tableHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabScores {
		m.scoreTable.Focus()
	} else {
		m.scoreTable.Blur()
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
	settings := padLines(m.renderSettingsSummary(), m.width)
	return tabs + "\n" + settings
}

func (m *Model) renderSettingsSummary() string {
	models := "default"
	if len(m.settings.Data.Models) > 0 {
		names := make([]string, len(m.settings.Data.Models))
		for i, cm := range m.settings.Data.Models {
			names[i] = string(cm)
		}
		models = strings.Join(names, ",")
	}
	summary := fmt.Sprintf("Settings: metric=%s  min-level=%d  models=%s", m.settings.Metric, m.settings.Data.MistakeMinLevel, models)
	if m.loading {
		summary += "  (computing...)"
	}
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  quit: ctrl+c")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Metric: m  Min level: -/=  Settings: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	lines = append(lines, headerStyle.Render("Metrics: "+strings.Join(pattern.Names, ", ")))
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if len(m.sessions) == 0 {
		return fitLines("No sessions found.", m.width, height)
	}
	if m.activeTab == tabScores {
		cards := m.renderSummaryCards()
		view := tableMutedStyle.Render(m.scoreTable.View())
		return fitLines(cards+"\n"+view, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to compute report.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabCurves].SetContent(renderCurves(m.report, width))
	m.viewports[tabLevels].SetContent(renderLevels(m.report, width))
}

func summaryHeight() int {
	return lipgloss.Height(metricCard("X", "X")) + 1
}

func (m *Model) renderSummaryCards() string {
	metric := m.report.Metric
	if metric == "" {
		metric = "-"
	}
	cards := []string{
		metricCard("Sessions", strconv.Itoa(len(m.sessions))),
		metricCard("Rounds", strconv.Itoa(m.load.Rounds)),
		metricCard("Skipped", strconv.Itoa(m.load.SkippedRows+m.load.SkippedRounds)),
		metricCard("Metric", metric),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderCurves(report stats.Report, width int) string {
	if len(report.Scores) == 0 {
		return "No scores computed."
	}
	var buf bytes.Buffer
	opts := stats.CurveOptions{
		Width:    width,
		Height:   plotHeight,
		Color:    true,
		XName:    pattern.AxisName(report.Metric),
		Baseline: report.Baseline,
	}
	if err := stats.RenderCurves(&buf, report.Scores, opts); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	if buf.Len() == 0 {
		return "No model has enough points to plot."
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderLevels(report stats.Report, width int) string {
	bars := minInt(barWidth, maxInt(10, width-16))
	var buf bytes.Buffer
	sections := []struct {
		title string
		h     stats.Histogram
	}{
		{"Games by final level", report.Games},
		{"Mistakes by level", report.Mistakes},
		{"Games reaching level (regular)", report.Condition.Regular},
	}
	if report.Condition.VisualGames > 0 {
		sections = append(sections, struct {
			title string
			h     stats.Histogram
		}{fmt.Sprintf("Games reaching level (visual, x%.3g)", report.Condition.Scale), report.Condition.Visual})
	}
	for _, s := range sections {
		if err := stats.RenderHistogram(&buf, s.title, s.h, bars); err != nil {
			return fmt.Sprintf("Failed to render levels: %v", err)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func buildScoreTable(scores []model.ModelScore, width, height int) table.Model {
	t := table.New(
		table.WithColumns(scoreColumns()),
		table.WithRows(scoreRows(scores)),
		table.WithHeight(maxInt(1, height)),
		table.WithFocused(true),
	)
	t.SetWidth(width)
	t.SetStyles(scoreTableStyles())
	return t
}

func scoreColumns() []table.Column {
	return []table.Column{
		{Title: "Model", Width: 10},
		{Title: "Mistakes", Width: 9},
		{Title: "All", Width: 7},
		{Title: "Score", Width: 12},
		{Title: "Status", Width: 18},
		{Title: "Curve", Width: 24},
	}
}

func scoreRows(scores []model.ModelScore) []table.Row {
	rows := make([]table.Row, 0, len(scores))
	for _, s := range stats.RankScores(scores) {
		score := "-"
		if s.Status == model.StatusOK {
			score = fmt.Sprintf("%.6g", s.Score)
		}
		rows = append(rows, table.Row{
			string(s.Model),
			strconv.Itoa(s.MistakesCount),
			strconv.Itoa(s.AllCount),
			score,
			string(s.Status),
			stats.Sparkline(s.Mistakes.Y),
		})
	}
	return rows
}

func scoreTableStyles() table.Styles {
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

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromSettings()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.updateLayout()
		return m, m.refreshReport()
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	metric := strings.ToLower(strings.TrimSpace(m.filterInputs[0].Value()))
	if _, err := pattern.New(metric, m.settings.Analysis); err != nil {
		return err
	}
	levelInput := strings.TrimSpace(m.filterInputs[1].Value())
	level := 0
	if levelInput != "" {
		parsed, err := strconv.Atoi(levelInput)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid min level (use 0 or positive integer)")
		}
		level = parsed
	}
	models := dataset.ParseModels(m.filterInputs[2].Value())
	m.settings.Metric = metric
	m.settings.Data.MistakeMinLevel = level
	m.settings.Data.Models = models
	return nil
}

func nextMetric(current string) string {
	for i, name := range pattern.Names {
		if name == current {
			return pattern.Names[(i+1)%len(pattern.Names)]
		}
	}
	return pattern.Names[0]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
