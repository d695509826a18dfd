package main

import (
	"fmt"

	"bizdeck/cmd/bizdeck/ui"
	"bizdeck/internal/feature"
	"bizdeck/internal/gemini"
	"bizdeck/internal/logging"
	"bizdeck/internal/vault"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	headerHeight = 3
	footerHeight = 2
)

// shellModel is the root model. It owns navigation state and mounts exactly
// one panel at a time; everything a panel needs is injected at mount.
type shellModel struct {
	styles ui.Styles

	newAdvisor func() gemini.Advisor
	generator  gemini.ListingGenerator
	store      *vault.Store

	active feature.ID
	seed   string
	panel  ui.Panel

	showPicker bool
	pickerIdx  int

	width  int
	height int
	ready  bool
}

func newShellModel(newAdvisor func() gemini.Advisor, generator gemini.ListingGenerator, store *vault.Store, styles ui.Styles) shellModel {
	m := shellModel{
		styles:     styles,
		newAdvisor: newAdvisor,
		generator:  generator,
		store:      store,
		active:     feature.Dashboard,
	}
	m.panel = m.mountPanel(feature.Dashboard, "")
	return m
}

// mountPanel builds the panel for a feature. Features without a panel fall
// back to a placeholder so navigation never dead-ends.
func (m *shellModel) mountPanel(id feature.ID, seed string) ui.Panel {
	switch id {
	case feature.Dashboard:
		return ui.NewDashboardPage(m.styles)
	case feature.ChatAdvisor:
		// A fresh session per activation: advisor history does not survive
		// navigating away.
		return ui.NewChatPage(m.newAdvisor(), m.styles, seed)
	case feature.ListingFactory:
		return ui.NewListingPage(m.generator, m.styles)
	case feature.Vault:
		return ui.NewVaultPage(m.store, m.styles)
	default:
		f, ok := feature.Lookup(id)
		if !ok {
			f, _ = feature.Lookup(feature.Dashboard)
		}
		return ui.NewPlaceholderPage(f, m.styles)
	}
}

// navigate tears down the current panel and mounts the target. In-flight
// requests on the outgoing panel are cancelled, never inherited.
func (m *shellModel) navigate(target feature.ID, seed string) tea.Cmd {
	if m.panel != nil {
		m.panel.Cancel()
	}
	logging.UI("Navigate: %s -> %s", m.active, target)
	m.active = target
	m.seed = seed
	m.panel = m.mountPanel(target, seed)
	if m.ready {
		m.panel.SetSize(m.width, m.height-headerHeight-footerHeight)
	}
	return m.panel.Init()
}

func (m shellModel) Init() tea.Cmd {
	return m.panel.Init()
}

func (m shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.panel.SetSize(msg.Width, msg.Height-headerHeight-footerHeight)
		return m, nil

	case ui.NavigateMsg:
		return m, m.navigate(msg.Target, msg.Seed)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			if m.panel != nil {
				m.panel.Cancel()
			}
			return m, tea.Quit

		case tea.KeyEsc:
			if m.showPicker {
				m.showPicker = false
				return m, nil
			}
			m.showPicker = true
			m.pickerIdx = m.pickerIndexOf(m.active)
			return m, nil
		}

		if m.showPicker {
			return m.updatePicker(msg)
		}
	}

	panel, cmd := m.panel.Update(msg)
	m.panel = panel
	return m, cmd
}

func (m shellModel) pickerIndexOf(id feature.ID) int {
	for i, f := range feature.Catalog {
		if f.ID == id {
			return i
		}
	}
	return 0
}

// updatePicker handles keys while the feature picker overlay is open.
func (m shellModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.pickerIdx > 0 {
			m.pickerIdx--
		}
	case tea.KeyDown:
		if m.pickerIdx < len(feature.Catalog)-1 {
			m.pickerIdx++
		}
	case tea.KeyEnter:
		m.showPicker = false
		// Picker navigation never carries a seed.
		return m, m.navigate(feature.Catalog[m.pickerIdx].ID, "")
	}
	return m, nil
}

func (m shellModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	body := m.panel.View()
	if m.showPicker {
		body = m.renderPicker()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		lipgloss.NewStyle().Height(m.height-headerHeight-footerHeight).Render(body),
		m.renderFooter(),
	)
}

func (m shellModel) renderHeader() string {
	title := m.styles.Header.Render(" ⚡ bizdeck ")
	version := m.styles.Badge.Render("v1.0")

	name := string(m.active)
	if f, ok := feature.Lookup(m.active); ok {
		name = fmt.Sprintf("%s %s", ui.Icon(f.Icon), f.Name)
	}
	location := m.styles.Bold.Render(name)

	line := lipgloss.JoinHorizontal(lipgloss.Center, title, " ", version, "  ", location)
	return lipgloss.JoinVertical(lipgloss.Left, line, m.styles.RenderDivider(m.width))
}

func (m shellModel) renderFooter() string {
	help := "Esc: features • Ctrl+C: exit"
	if m.showPicker {
		help = "↑/↓: move • Enter: open • Esc: close"
	}
	return m.styles.Footer.Render(help)
}

func (m shellModel) renderPicker() string {
	var rows []string
	rows = append(rows, m.styles.Title.Render("Features"))

	category := feature.Category("")
	for i, f := range feature.Catalog {
		if f.Category != category {
			category = f.Category
			rows = append(rows, m.styles.Subtitle.Render(string(category)))
		}

		label := fmt.Sprintf("%s %s", ui.Icon(f.Icon), f.Name)
		if !f.HasPanel {
			label += m.styles.Muted.Render("  (soon)")
		}
		if i == m.pickerIdx {
			label = m.styles.Selected.Render("▸ " + label)
		} else {
			label = "  " + label
		}
		rows = append(rows, label)
	}

	list := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return m.styles.Card.Render(list)
}
