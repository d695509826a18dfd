package ui

import (
	"context"
	"fmt"
	"strings"

	"bizdeck/internal/gemini"
	"bizdeck/internal/logging"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// ListingResult is a completed generation: copy plus image, rendered only
// when both steps succeeded.
type ListingResult struct {
	Title       string
	Description string
	ImageURI    string // data URI, possibly empty when the model returned no image
}

// listingResultMsg carries a finished (or failed) generation into the panel.
type listingResultMsg struct {
	serial int
	result ListingResult
	err    error
}

// ListingPageModel is the Listing Factory panel: one prompt in, a combined
// title/description/image result out.
type ListingPageModel struct {
	textarea textarea.Model
	spinner  spinner.Model
	styles   Styles

	generator gemini.ListingGenerator
	result    *ListingResult
	state     requestState
	serial    int
	cancel    context.CancelFunc

	width  int
	height int
}

// NewListingPage creates the Listing Factory panel.
func NewListingPage(generator gemini.ListingGenerator, styles Styles) *ListingPageModel {
	ta := textarea.New()
	ta.Placeholder = "Describe your product... (Ctrl+S to generate)"
	ta.Focus()
	ta.SetHeight(3)
	ta.SetWidth(76)
	ta.CharLimit = 2048

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return &ListingPageModel{
		textarea:  ta,
		spinner:   sp,
		styles:    styles,
		generator: generator,
	}
}

func (m *ListingPageModel) Init() tea.Cmd {
	return textarea.Blink
}

// submit starts the two-step generation. Copy first, then image, strictly in
// that order; a copy failure short-circuits so no image call is made and no
// partial result is ever rendered.
func (m *ListingPageModel) submit(prompt string) tea.Cmd {
	m.state = statePending
	m.serial++

	serial := m.serial
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	generator := m.generator
	return func() tea.Msg {
		listing, err := generator.GenerateListingCopy(ctx, prompt)
		if err != nil {
			return listingResultMsg{serial: serial, err: err}
		}

		imageURI, err := generator.GenerateProductImage(ctx, prompt)
		if err != nil {
			return listingResultMsg{serial: serial, err: err}
		}

		return listingResultMsg{serial: serial, result: ListingResult{
			Title:       listing.Title,
			Description: listing.Description,
			ImageURI:    imageURI,
		}}
	}
}

func (m *ListingPageModel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	var (
		taCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlS {
			if m.state == statePending {
				// Single-flight: drop, don't queue.
				return m, nil
			}
			prompt := strings.TrimSpace(m.textarea.Value())
			if prompt == "" {
				return m, nil
			}
			cmd := m.submit(prompt)
			return m, tea.Batch(m.spinner.Tick, cmd)
		}
		if m.state != statePending {
			m.textarea, taCmd = m.textarea.Update(msg)
		}

	case spinner.TickMsg:
		if m.state == statePending {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}

	case listingResultMsg:
		if msg.serial != m.serial {
			return m, nil
		}
		m.cancel = nil
		if msg.err != nil {
			logging.UIError("Listing generation failed: %v", msg.err)
			// Prior successful result, if any, stays visible.
			m.state = stateFailed
			return m, nil
		}
		result := msg.result
		m.result = &result
		m.state = stateSucceeded
	}

	return m, tea.Batch(taCmd, spCmd)
}

func (m *ListingPageModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Listing Factory"))
	sb.WriteString("\n")
	sb.WriteString(m.textarea.View())
	sb.WriteString("\n\n")

	if m.state == statePending {
		sb.WriteString(m.spinner.View())
		sb.WriteString(m.styles.Muted.Render(" generating listing..."))
		sb.WriteString("\n")
	}

	if m.result != nil {
		sb.WriteString(m.styles.Card.Render(m.renderResult()))
		sb.WriteString("\n")
	} else if m.state != statePending {
		sb.WriteString(m.styles.Muted.Render("No listing yet. Describe a product and press Ctrl+S."))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (m *ListingPageModel) renderResult() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Bold.Render(m.result.Title))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Body.Render(m.result.Description))
	sb.WriteString("\n\n")
	if m.result.ImageURI != "" {
		sb.WriteString(m.styles.Success.Render(fmt.Sprintf("image attached (%s)", describeDataURI(m.result.ImageURI))))
	} else {
		sb.WriteString(m.styles.Muted.Render("no image returned"))
	}
	return sb.String()
}

// describeDataURI summarizes a data URI for terminal display.
func describeDataURI(uri string) string {
	mime := "unknown"
	if rest, ok := strings.CutPrefix(uri, "data:"); ok {
		if idx := strings.Index(rest, ";"); idx > 0 {
			mime = rest[:idx]
		}
	}
	return fmt.Sprintf("%s, %d KiB encoded", mime, len(uri)/1024)
}

func (m *ListingPageModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	taWidth := width - 4
	if taWidth < 20 {
		taWidth = 20
	}
	m.textarea.SetWidth(taWidth)
}

// Cancel aborts the in-flight generation, if any.
func (m *ListingPageModel) Cancel() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// Result is a test hook exposing the current combined result.
func (m *ListingPageModel) Result() *ListingResult {
	return m.result
}
