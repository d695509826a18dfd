package ui

import (
	"bizdeck/internal/feature"

	tea "github.com/charmbracelet/bubbletea"
)

// Panel is the contract between the shell and one feature panel. Panels own
// their interaction state exclusively; the shell never reaches inside.
type Panel interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Panel, tea.Cmd)
	View() string
	SetSize(width, height int)
	// Cancel aborts any in-flight request. The shell calls it when the
	// panel is navigated away from.
	Cancel()
}

// requestState is the per-panel request lifecycle. Submissions are only
// accepted in states other than statePending, which makes the single-flight
// rule structural rather than a convention.
type requestState int

const (
	stateIdle requestState = iota
	statePending
	stateSucceeded
	stateFailed
)

// NavigateMsg asks the shell to switch panels, optionally seeding the target
// panel with a pre-filled input. The dashboard uses it for the advisor
// handoff.
type NavigateMsg struct {
	Target feature.ID
	Seed   string
}

// Navigate builds a command that emits a NavigateMsg.
func Navigate(target feature.ID, seed string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Target: target, Seed: seed}
	}
}
