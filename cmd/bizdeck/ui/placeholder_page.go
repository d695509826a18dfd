package ui

import (
	"strings"

	"bizdeck/internal/feature"

	tea "github.com/charmbracelet/bubbletea"
)

// PlaceholderPageModel renders for catalog features that have no panel yet.
// Selecting one must never fail; it just shows this.
type PlaceholderPageModel struct {
	feature feature.Feature
	styles  Styles
}

// NewPlaceholderPage creates the placeholder for the given feature.
func NewPlaceholderPage(f feature.Feature, styles Styles) *PlaceholderPageModel {
	return &PlaceholderPageModel{feature: f, styles: styles}
}

func (m *PlaceholderPageModel) Init() tea.Cmd {
	return nil
}

func (m *PlaceholderPageModel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	return m, nil
}

func (m *PlaceholderPageModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render(Icon(m.feature.Icon) + " " + m.feature.Name))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Body.Render(m.feature.Description))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Muted.Render("This feature is not available yet."))
	return sb.String()
}

func (m *PlaceholderPageModel) SetSize(width, height int) {}

// Cancel is a no-op.
func (m *PlaceholderPageModel) Cancel() {}
