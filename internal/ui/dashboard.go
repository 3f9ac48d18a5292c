// Package ui renders the terminal moon dashboard.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/astroriga/skywatch/internal/lunar"
)

// Styles for the dashboard
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// tickMsg triggers a recalculation.
type tickMsg time.Time

// Model is the moon dashboard.
type Model struct {
	lunar   *lunar.Service
	refresh time.Duration

	width   int
	height  int
	report  lunar.VisibilityReport
	updated time.Time
}

// New creates the dashboard model.
func New(svc *lunar.Service, refresh time.Duration) Model {
	return Model{lunar: svc, refresh: refresh}
}

// Init implements the Bubble Tea model interface.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return tickMsg(time.Now()) }
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, func() tea.Msg { return tickMsg(time.Now()) }
		}

	case tickMsg:
		m.report = m.lunar.Report()
		m.updated = time.Time(msg)
		return m, tea.Tick(m.refresh, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Skywatch Moon Dashboard"))
	b.WriteString("\n\n")

	if m.updated.IsZero() {
		b.WriteString("Calculating...\n")
		return b.String()
	}

	rep := m.report

	b.WriteString(labelStyle.Render("Observer  "))
	b.WriteString(valueStyle.Render(rep.Location))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Phase     "))
	b.WriteString(valueStyle.Render(rep.Phase.PhaseName))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Illuminated "))
	b.WriteString(renderIlluminationBar(rep.Phase.Illumination, 20))
	b.WriteString(valueStyle.Render(fmt.Sprintf(" %.1f%%", rep.Phase.Illumination)))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Phase angle "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f°", rep.Phase.PhaseAngle)))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Moonrise  "))
	b.WriteString(renderInstant(rep.RiseSet.Moonrise))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Moonset   "))
	b.WriteString(renderInstant(rep.RiseSet.Moonset))
	b.WriteString("\n\n")

	b.WriteString(dimStyle.Render("Updated " + m.updated.UTC().Format("15:04:05") + " UTC"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("r: refresh  q: quit"))

	return b.String()
}

func renderIlluminationBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	// Color based on how bright the night sky is
	var style lipgloss.Style
	switch {
	case percent >= 75:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("226")) // yellow
	case percent >= 25:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("252")) // grey
	default:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("244")) // dim
	}

	return "[" + style.Render(bar) + "]"
}

func renderInstant(t *time.Time) string {
	if t == nil {
		return dimStyle.Render("not found")
	}
	return valueStyle.Render(t.UTC().Format("15:04") + " UTC")
}
