package ui

import (
	"fmt"
	"strings"

	"bizdeck/internal/vault"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// vaultCategories is the closed set offered by the add form, in cycle order.
var vaultCategories = []vault.Category{
	vault.CategoryPayment,
	vault.CategorySocial,
	vault.CategoryEcommerce,
	vault.CategoryOther,
}

// Focus slots of the vault panel.
const (
	vaultFocusProvider = iota
	vaultFocusSecret
	vaultFocusCategory
	vaultFocusList
)

// VaultPageModel is the Credential Vault panel. It talks only to the vault
// store; nothing here touches the network.
type VaultPageModel struct {
	store  *vault.Store
	styles Styles

	provider    textinput.Model
	secret      textinput.Model
	categoryIdx int
	focus       int
	selected    int

	records []vault.Record

	width  int
	height int
}

// NewVaultPage creates the vault panel and loads the persisted records.
func NewVaultPage(store *vault.Store, styles Styles) *VaultPageModel {
	provider := textinput.New()
	provider.Placeholder = "Provider (e.g. Stripe)"
	provider.CharLimit = 128
	provider.Width = 40
	provider.Focus()

	secret := textinput.New()
	secret.Placeholder = "Secret value"
	secret.CharLimit = 512
	secret.Width = 40
	// Masking is cosmetic: the value is stored and listed in plain form.
	secret.EchoMode = textinput.EchoPassword
	secret.EchoCharacter = '•'

	return &VaultPageModel{
		store:    store,
		styles:   styles,
		provider: provider,
		secret:   secret,
		records:  store.List(),
	}
}

func (m *VaultPageModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *VaultPageModel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	var cmds []tea.Cmd

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyTab:
			m.setFocus((m.focus + 1) % 4)
			return m, nil

		case tea.KeyShiftTab:
			m.setFocus((m.focus + 3) % 4)
			return m, nil

		case tea.KeyEnter:
			if m.focus != vaultFocusList {
				m.handleAdd()
				return m, nil
			}

		case tea.KeyLeft, tea.KeyRight:
			if m.focus == vaultFocusCategory {
				if key.Type == tea.KeyRight {
					m.categoryIdx = (m.categoryIdx + 1) % len(vaultCategories)
				} else {
					m.categoryIdx = (m.categoryIdx + len(vaultCategories) - 1) % len(vaultCategories)
				}
				return m, nil
			}

		case tea.KeyUp:
			if m.focus == vaultFocusList && m.selected > 0 {
				m.selected--
				return m, nil
			}

		case tea.KeyDown:
			if m.focus == vaultFocusList && m.selected < len(m.records)-1 {
				m.selected++
				return m, nil
			}
		}

		if key.String() == "d" && m.focus == vaultFocusList {
			m.handleDelete()
			return m, nil
		}
	}

	switch m.focus {
	case vaultFocusProvider:
		var cmd tea.Cmd
		m.provider, cmd = m.provider.Update(msg)
		cmds = append(cmds, cmd)
	case vaultFocusSecret:
		var cmd tea.Cmd
		m.secret, cmd = m.secret.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleAdd appends the form's record. Invalid input (empty provider or
// secret) is rejected as a silent no-op; nothing changes.
func (m *VaultPageModel) handleAdd() {
	record := vault.Record{
		Provider: strings.TrimSpace(m.provider.Value()),
		Secret:   strings.TrimSpace(m.secret.Value()),
		Category: vaultCategories[m.categoryIdx],
	}
	if err := m.store.Add(record); err != nil {
		return
	}

	m.provider.Reset()
	m.secret.Reset()
	m.records = m.store.List()
}

func (m *VaultPageModel) handleDelete() {
	if len(m.records) == 0 {
		return
	}
	if err := m.store.Delete(m.selected); err != nil {
		return
	}
	m.records = m.store.List()
	if m.selected >= len(m.records) && m.selected > 0 {
		m.selected--
	}
}

func (m *VaultPageModel) setFocus(focus int) {
	m.focus = focus
	m.provider.Blur()
	m.secret.Blur()
	switch focus {
	case vaultFocusProvider:
		m.provider.Focus()
	case vaultFocusSecret:
		m.secret.Focus()
	}
}

func (m *VaultPageModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Credential Vault"))
	sb.WriteString("\n")

	sb.WriteString(m.provider.View())
	sb.WriteString("\n")
	sb.WriteString(m.secret.View())
	sb.WriteString("\n")

	categoryLabel := fmt.Sprintf("Category: ‹ %s ›", vaultCategories[m.categoryIdx])
	if m.focus == vaultFocusCategory {
		sb.WriteString(m.styles.Selected.Render(categoryLabel))
	} else {
		sb.WriteString(m.styles.Muted.Render(categoryLabel))
	}
	sb.WriteString("\n\n")

	if len(m.records) == 0 {
		sb.WriteString(m.styles.Muted.Render("No credentials stored."))
		sb.WriteString("\n")
	} else {
		sb.WriteString(fmt.Sprintf("%-20s %-12s %s\n", "Provider", "Category", "Secret"))
		sb.WriteString(strings.Repeat("─", 52))
		sb.WriteString("\n")
		for i, r := range m.records {
			line := fmt.Sprintf("%-20s %-12s %s", truncate(r.Provider, 20), r.Category, r.Secret)
			if m.focus == vaultFocusList && i == m.selected {
				sb.WriteString(m.styles.Selected.Render("→ " + line))
			} else {
				sb.WriteString("  " + line)
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Footer.Render("Tab: move focus · Enter: add · d: delete selected"))
	return sb.String()
}

func truncate(s string, l int) string {
	if len(s) > l {
		return s[:l-3] + "..."
	}
	return s
}

func (m *VaultPageModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	fieldWidth := width - 8
	if fieldWidth > 60 {
		fieldWidth = 60
	}
	if fieldWidth < 20 {
		fieldWidth = 20
	}
	m.provider.Width = fieldWidth
	m.secret.Width = fieldWidth
}

// Cancel is a no-op: the vault panel never has requests in flight.
func (m *VaultPageModel) Cancel() {}

// Records is a test hook exposing the panel's view of the store.
func (m *VaultPageModel) Records() []vault.Record {
	return m.records
}
