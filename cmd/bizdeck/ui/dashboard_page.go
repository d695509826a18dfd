package ui

import (
	"fmt"
	"strings"

	"bizdeck/internal/feature"

	tea "github.com/charmbracelet/bubbletea"
)

// AdvisorSeedPrompt is the fixed prompt the dashboard's quick action hands to
// the Business Advisor panel.
const AdvisorSeedPrompt = "I run a small online business. What is the single highest-impact process I should automate this week, and how do I start?"

// DashboardPageModel is the Command Deck: a static catalog view plus one
// quick action that jumps into the advisor with a seeded prompt.
type DashboardPageModel struct {
	styles Styles
	width  int
	height int
}

// NewDashboardPage creates the dashboard panel.
func NewDashboardPage(styles Styles) *DashboardPageModel {
	return &DashboardPageModel{styles: styles}
}

func (m *DashboardPageModel) Init() tea.Cmd {
	return nil
}

func (m *DashboardPageModel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if key.String() == "a" {
			// Advisor handoff: navigation plus seed travel together.
			return m, Navigate(feature.ChatAdvisor, AdvisorSeedPrompt)
		}
	}
	return m, nil
}

func (m *DashboardPageModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Command Deck"))
	sb.WriteString("\n")

	categories := []feature.Category{
		feature.CategoryStrategic,
		feature.CategoryCreative,
		feature.CategoryOperational,
		feature.CategoryControl,
	}
	for _, cat := range categories {
		entries := feature.ByCategory(cat)
		if len(entries) == 0 {
			continue
		}
		sb.WriteString(m.styles.Subtitle.Render(string(cat)))
		sb.WriteString("\n")
		for _, f := range entries {
			sb.WriteString(fmt.Sprintf("  %s %s  %s\n",
				Icon(f.Icon),
				m.styles.Bold.Render(f.Name),
				m.styles.Muted.Render(f.Description)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(m.styles.Footer.Render("a: ask the advisor for an automation plan"))
	return sb.String()
}

func (m *DashboardPageModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Cancel is a no-op: the dashboard never has requests in flight.
func (m *DashboardPageModel) Cancel() {}
