package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/jwiersma/telehand/pkg/pilot"
)

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	tableHeight  = 9 // finger angle table
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Headline channels shown on the stream chart.
var chartChannels = []struct {
	name  string
	color string
	value func(pilot.State) float64
}{
	{"wrist_roll", "51", func(s pilot.State) float64 { return s.WristRotation }},
	{"elbow_flex", "226", func(s pilot.State) float64 { return s.ElbowFlex }},
	{"shoulder_yaw", "208", func(s pilot.State) float64 { return s.ShoulderYaw }},
	{"shoulder_pitch", "196", func(s pilot.State) float64 { return s.ShoulderPitch }},
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	validStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	staleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type dashModel struct {
	ctrl     *pilot.Controller
	chart    *streamlinechart.Model
	width    int
	height   int
	logs     []string
	state    pilot.State
	quitting bool
}

func (m *dashModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the controller
type stateMsg pilot.State
type logMsg string

func waitForState(ctrl *pilot.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(ctrl *pilot.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

func (m *dashModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 12 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - tableHeight - footerHeight - borderSize
	if height < 8 {
		height = 8
	}
	return width, height
}

func (m *dashModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func initialDashModel(ctrl *pilot.Controller) dashModel {
	chart := streamlinechart.New(80, 12,
		streamlinechart.WithYRange(0, 360),
	)

	for _, ch := range chartChannels {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(ch.color))
		chart.SetDataSetStyles(ch.name, runes.ThinLineStyle, style)
	}

	return dashModel{
		ctrl:  ctrl,
		chart: &chart,
	}
}

func (m dashModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.ctrl),
	)
}

func (m dashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case stateMsg:
		m.state = pilot.State(msg)
		if m.state.Valid {
			for _, ch := range chartChannels {
				m.chart.PushDataSet(ch.name, ch.value(m.state))
			}
			m.chart.DrawAll()
		}
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)
	}

	return m, nil
}

func (m dashModel) View() string {
	if m.quitting {
		return "Pipeline stopped.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("Telehand"))
	sb.WriteString(statusStyle.Render(fmt.Sprintf("  %.1f fps", m.state.FPS)))
	if m.state.Valid {
		sb.WriteString(validStyle.Render("  tracking"))
	} else {
		sb.WriteString(staleStyle.Render("  no tracking"))
	}
	if m.ctrl.Transmitting() {
		if m.state.Sent {
			sb.WriteString(validStyle.Render("  tx"))
		} else {
			sb.WriteString(statusStyle.Render("  tx idle"))
		}
	} else {
		sb.WriteString(statusStyle.Render("  tx off"))
	}
	sb.WriteString("\n\n")

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	// Finger angles
	sb.WriteString(renderFingerTable(m.state))
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4).
		Foreground(lipgloss.Color("9"))

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Press 'q' to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func renderLegend() string {
	var items []string
	for _, ch := range chartChannels {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ch.color)).Bold(true)
		items = append(items, colorStyle.Render("━━")+" "+ch.name)
	}
	return strings.Join(items, "  ")
}

func renderFingerTable(st pilot.State) string {
	deg := func(i int) string { return fmt.Sprintf("%.0f", st.Angles[i]) }
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("finger", "curl", "splay", "pip").
		Row("index", deg(0), deg(1), deg(2)).
		Row("middle", deg(3), deg(4), deg(5)).
		Row("ring", deg(6), deg(7), deg(8)).
		Row("pinky", deg(9), deg(10), deg(11)).
		Row("thumb", deg(12), deg(13), deg(14)+"/"+deg(15))
	return t.Render()
}
