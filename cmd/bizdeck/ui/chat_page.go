package ui

import (
	"context"
	"strings"
	"time"

	"bizdeck/internal/gemini"
	"bizdeck/internal/logging"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// chatMessage is one transcript entry.
type chatMessage struct {
	role    string // "user" or "model"
	content string
	at      time.Time
}

// chatReplyMsg carries the advisor's reply (or failure) back into the panel.
// The serial ties it to the submission that started it; stale replies from a
// panel generation that was navigated away from are dropped on the floor.
type chatReplyMsg struct {
	serial int
	reply  string
	err    error
}

// ChatPageModel is the Business Advisor panel: an append-only transcript over
// a persistent chat session.
type ChatPageModel struct {
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    Styles
	renderer  *glamour.TermRenderer

	advisor    gemini.Advisor
	transcript []chatMessage
	state      requestState
	serial     int
	cancel     context.CancelFunc
	seedCmd    tea.Cmd

	width  int
	height int
	ready  bool
}

// NewChatPage creates the advisor panel. A non-empty seed behaves as if the
// user had typed and submitted it: the panel mounts already pending.
func NewChatPage(advisor gemini.Advisor, styles Styles, seed string) *ChatPageModel {
	ti := textinput.New()
	ti.Placeholder = "Ask the advisor... (Enter to send)"
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 4096
	ti.Width = 80
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.UserInput

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(80, 20)

	m := &ChatPageModel{
		textinput: ti,
		viewport:  vp,
		spinner:   sp,
		styles:    styles,
		renderer:  newChatRenderer(styles, 80),
		advisor:   advisor,
	}

	if seed != "" {
		m.seedCmd = m.submit(seed)
	}

	return m
}

// newChatRenderer builds the markdown renderer for the active theme. Resizes
// rebuild it, so the theme choice lives here rather than in the constructor.
func newChatRenderer(styles Styles, wrap int) *glamour.TermRenderer {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(wrap)}
	if styles.Theme.IsDark {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath("light"))
	}
	renderer, _ := glamour.NewTermRenderer(opts...)
	return renderer
}

func (m *ChatPageModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.seedCmd != nil {
		cmds = append(cmds, m.spinner.Tick, m.seedCmd)
		m.seedCmd = nil
	}
	return tea.Batch(cmds...)
}

// submit records the user turn, flips to pending and returns the command
// that runs the advisor call. Callers must have checked the state first.
func (m *ChatPageModel) submit(input string) tea.Cmd {
	m.transcript = append(m.transcript, chatMessage{role: "user", content: input, at: time.Now()})
	m.state = statePending
	m.serial++

	serial := m.serial
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	advisor := m.advisor
	return func() tea.Msg {
		reply, err := advisor.Send(ctx, input)
		return chatReplyMsg{serial: serial, reply: reply, err: err}
	}
}

func (m *ChatPageModel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			// Submissions while a request is outstanding are dropped, not
			// queued.
			if m.state == statePending {
				return m, nil
			}
			input := strings.TrimSpace(m.textinput.Value())
			if input == "" {
				return m, nil
			}
			m.textinput.Reset()
			cmd := m.submit(input)
			m.refreshTranscript()
			return m, tea.Batch(m.spinner.Tick, cmd)
		}
		if m.state != statePending {
			m.textinput, tiCmd = m.textinput.Update(msg)
		}

	case spinner.TickMsg:
		if m.state == statePending {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}

	case chatReplyMsg:
		if msg.serial != m.serial {
			// A resolution from a submission this panel no longer owns.
			return m, nil
		}
		m.cancel = nil
		if msg.err != nil {
			logging.UIError("Advisor turn failed: %v", msg.err)
			m.state = stateFailed
			// The dangling user turn was rolled back by the session; drop it
			// from the transcript too so both stay aligned.
			if n := len(m.transcript); n > 0 && m.transcript[n-1].role == "user" {
				m.transcript = m.transcript[:n-1]
			}
		} else {
			m.state = stateSucceeded
			m.transcript = append(m.transcript, chatMessage{role: "model", content: msg.reply, at: time.Now()})
		}
		m.refreshTranscript()
	}

	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

func (m *ChatPageModel) refreshTranscript() {
	var sb strings.Builder
	for _, entry := range m.transcript {
		switch entry.role {
		case "user":
			sb.WriteString(m.styles.Prompt.Render("You"))
			sb.WriteString("\n")
			sb.WriteString(m.styles.UserInput.Render(entry.content))
		default:
			sb.WriteString(m.styles.Bold.Render("Advisor"))
			sb.WriteString("\n")
			rendered := entry.content
			if m.renderer != nil {
				if out, err := m.renderer.Render(entry.content); err == nil {
					rendered = strings.TrimRight(out, "\n")
				}
			}
			sb.WriteString(m.styles.Reply.Render(rendered))
		}
		sb.WriteString("\n\n")
	}
	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

func (m *ChatPageModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	if m.state == statePending {
		sb.WriteString(m.spinner.View())
		sb.WriteString(m.styles.Muted.Render(" thinking..."))
	} else {
		sb.WriteString(m.textinput.View())
	}
	return sb.String()
}

func (m *ChatPageModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	vpHeight := height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
		m.refreshTranscript()
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.textinput.Width = width - 4

	if m.renderer != nil {
		wrap := width - 8
		if wrap < 20 {
			wrap = 20
		}
		m.renderer = newChatRenderer(m.styles, wrap)
	}
}

// Cancel aborts the in-flight advisor call, if any.
func (m *ChatPageModel) Cancel() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// TranscriptLen reports the number of transcript entries.
func (m *ChatPageModel) TranscriptLen() int {
	return len(m.transcript)
}

// lastMessage is a test hook for transcript inspection.
func (m *ChatPageModel) lastMessage() (chatMessage, bool) {
	if len(m.transcript) == 0 {
		return chatMessage{}, false
	}
	return m.transcript[len(m.transcript)-1], true
}
