package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"bizdeck/internal/feature"
	"bizdeck/internal/gemini"
	"bizdeck/internal/vault"

	tea "github.com/charmbracelet/bubbletea"
)

// drain executes a command tree and flattens the produced messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// findReply pulls the first chatReplyMsg out of a drained command tree.
func findReply(msgs []tea.Msg) (chatReplyMsg, bool) {
	for _, msg := range msgs {
		if reply, ok := msg.(chatReplyMsg); ok {
			return reply, true
		}
	}
	return chatReplyMsg{}, false
}

// fakeAdvisor counts calls and replies with a fixed string.
type fakeAdvisor struct {
	calls int
	reply string
	err   error
}

func (f *fakeAdvisor) Send(ctx context.Context, message string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// fakeGenerator counts both call shapes and can fail either step.
type fakeGenerator struct {
	copyCalls  int
	imageCalls int
	copyErr    error
	imageErr   error
	imageURI   string
}

func (f *fakeGenerator) GenerateListingCopy(ctx context.Context, prompt string) (gemini.ListingCopy, error) {
	f.copyCalls++
	if f.copyErr != nil {
		return gemini.ListingCopy{}, f.copyErr
	}
	return gemini.ListingCopy{Title: "Walnut Caddy", Description: "Tidy desk, tidy mind."}, nil
}

func (f *fakeGenerator) GenerateProductImage(ctx context.Context, prompt string) (string, error) {
	f.imageCalls++
	if f.imageErr != nil {
		return "", f.imageErr
	}
	return f.imageURI, nil
}

func TestChatPageSeedAutoSubmits(t *testing.T) {
	advisor := &fakeAdvisor{reply: "Start with invoicing."}
	m := NewChatPage(advisor, DefaultStyles(), "X")

	if m.TranscriptLen() != 1 {
		t.Fatalf("seed must appear as initial user message, transcript=%d", m.TranscriptLen())
	}
	last, _ := m.lastMessage()
	if last.role != "user" || last.content != "X" {
		t.Fatalf("unexpected seeded message: %+v", last)
	}

	reply, ok := findReply(drain(m.Init()))
	if !ok {
		t.Fatal("Init must start the seeded submission")
	}
	if advisor.calls != 1 {
		t.Fatalf("expected exactly one advisor call, got %d", advisor.calls)
	}

	panel, _ := m.Update(reply)
	m = panel.(*ChatPageModel)
	if m.TranscriptLen() != 2 {
		t.Fatalf("expected user+model transcript, got %d entries", m.TranscriptLen())
	}
	last, _ = m.lastMessage()
	if last.role != "model" || last.content != "Start with invoicing." {
		t.Fatalf("unexpected model entry: %+v", last)
	}
}

func TestChatPageSingleFlight(t *testing.T) {
	advisor := &fakeAdvisor{reply: "ok"}
	m := NewChatPage(advisor, DefaultStyles(), "seed")

	// Panel is pending; another submit must be dropped, not queued.
	m.textinput.SetValue("second question")
	panel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = panel.(*ChatPageModel)

	if cmd != nil {
		for _, msg := range drain(cmd) {
			if _, isReply := msg.(chatReplyMsg); isReply {
				t.Fatal("submit while pending must not start a request")
			}
		}
	}
	if m.TranscriptLen() != 1 {
		t.Fatalf("dropped submit must not grow the transcript, got %d", m.TranscriptLen())
	}
}

func TestChatPageFailureResetsToIdle(t *testing.T) {
	advisor := &fakeAdvisor{err: errors.New("service unavailable")}
	m := NewChatPage(advisor, DefaultStyles(), "seed")

	reply, ok := findReply(drain(m.Init()))
	if !ok {
		t.Fatal("expected reply message")
	}
	panel, _ := m.Update(reply)
	m = panel.(*ChatPageModel)

	if m.state != stateFailed {
		t.Fatalf("expected failed state, got %v", m.state)
	}
	if m.TranscriptLen() != 0 {
		t.Fatalf("failed turn must not leave a dangling user message, got %d", m.TranscriptLen())
	}

	// Next submit goes through again.
	m.textinput.SetValue("retry")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if _, ok := findReply(drain(cmd)); !ok {
		t.Fatal("panel must accept submissions after a failure")
	}
}

func TestChatPageIgnoresStaleReply(t *testing.T) {
	advisor := &fakeAdvisor{reply: "late"}
	m := NewChatPage(advisor, DefaultStyles(), "")

	panel, _ := m.Update(chatReplyMsg{serial: 41, reply: "from a past life"})
	m = panel.(*ChatPageModel)
	if m.TranscriptLen() != 0 {
		t.Fatal("stale reply must be ignored")
	}
	if m.state != stateIdle {
		t.Fatalf("stale reply must not change state, got %v", m.state)
	}
}

func TestChatRendererFollowsTheme(t *testing.T) {
	for _, styles := range []Styles{NewStyles(LightTheme()), NewStyles(DarkTheme())} {
		if newChatRenderer(styles, 60) == nil {
			t.Fatalf("renderer must build for IsDark=%v", styles.Theme.IsDark)
		}
	}

	// Resizing rebuilds the renderer; the light theme must survive that.
	m := NewChatPage(&fakeAdvisor{reply: "ok"}, NewStyles(LightTheme()), "")
	m.SetSize(120, 40)
	if m.renderer == nil {
		t.Fatal("resize must keep a renderer for light themes")
	}
}

func TestListingPageSequentialShortCircuit(t *testing.T) {
	gen := &fakeGenerator{copyErr: errors.New("schema rejected")}
	m := NewListingPage(gen, DefaultStyles())

	m.textarea.SetValue("desk organizer")
	panel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = panel.(*ListingPageModel)

	msgs := drain(cmd)
	if gen.copyCalls != 1 {
		t.Fatalf("expected one copy call, got %d", gen.copyCalls)
	}
	if gen.imageCalls != 0 {
		t.Fatal("copy failure must short-circuit: no image call")
	}

	for _, msg := range msgs {
		panel, _ = m.Update(msg)
		m = panel.(*ListingPageModel)
	}
	if m.Result() != nil {
		t.Fatal("failed generation must not render a partial result")
	}
	if m.state != stateFailed {
		t.Fatalf("expected failed state, got %v", m.state)
	}
}

func TestListingPageCombinedResult(t *testing.T) {
	gen := &fakeGenerator{imageURI: "data:image/png;base64,aGVsbG8="}
	m := NewListingPage(gen, DefaultStyles())

	m.textarea.SetValue("desk organizer")
	panel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = panel.(*ListingPageModel)

	for _, msg := range drain(cmd) {
		panel, _ = m.Update(msg)
		m = panel.(*ListingPageModel)
	}

	result := m.Result()
	if result == nil {
		t.Fatal("expected combined result")
	}
	if result.Title != "Walnut Caddy" || result.ImageURI == "" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if gen.copyCalls != 1 || gen.imageCalls != 1 {
		t.Fatalf("expected one call per step, got copy=%d image=%d", gen.copyCalls, gen.imageCalls)
	}
	if !strings.Contains(m.View(), "Walnut Caddy") {
		t.Fatal("result must be rendered")
	}
}

func TestListingPageSingleFlight(t *testing.T) {
	gen := &fakeGenerator{}
	m := NewListingPage(gen, DefaultStyles())

	m.textarea.SetValue("first")
	panel, first := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = panel.(*ListingPageModel)
	if first == nil {
		t.Fatal("first submit must start a request")
	}

	_, second := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if second != nil {
		for _, msg := range drain(second) {
			if _, isResult := msg.(listingResultMsg); isResult {
				t.Fatal("second submit while pending must not start a request")
			}
		}
	}
}

func TestListingPageKeepsPriorResultOnFailure(t *testing.T) {
	gen := &fakeGenerator{imageURI: "data:image/png;base64,aGVsbG8="}
	m := NewListingPage(gen, DefaultStyles())

	m.textarea.SetValue("first product")
	panel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = panel.(*ListingPageModel)
	for _, msg := range drain(cmd) {
		panel, _ = m.Update(msg)
		m = panel.(*ListingPageModel)
	}
	if m.Result() == nil {
		t.Fatal("expected first result")
	}

	gen.copyErr = errors.New("flaky service")
	m.textarea.SetValue("second product")
	panel, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = panel.(*ListingPageModel)
	for _, msg := range drain(cmd) {
		panel, _ = m.Update(msg)
		m = panel.(*ListingPageModel)
	}

	if m.Result() == nil || m.Result().Title != "Walnut Caddy" {
		t.Fatal("prior successful result must stay visible after a failure")
	}
}

func TestVaultPageAddAndDelete(t *testing.T) {
	store, err := vault.Open(filepath.Join(t.TempDir(), "vault.db"), "ui_test")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	m := NewVaultPage(store, DefaultStyles())
	m.provider.SetValue("Stripe")
	m.secret.SetValue("sk_123")

	panel, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = panel.(*VaultPageModel)

	if store.Len() != 1 {
		t.Fatalf("expected stored credential, got %d", store.Len())
	}
	if len(m.Records()) != 1 || m.Records()[0].Provider != "Stripe" {
		t.Fatalf("panel view out of sync with store: %+v", m.Records())
	}
	if m.provider.Value() != "" {
		t.Fatal("form must clear after a successful add")
	}

	// Empty form submit is a silent no-op.
	panel, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = panel.(*VaultPageModel)
	if store.Len() != 1 {
		t.Fatal("empty add must not change the store")
	}

	m.focus = vaultFocusList
	panel, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	m = panel.(*VaultPageModel)
	if store.Len() != 0 {
		t.Fatalf("expected empty store after delete, got %d", store.Len())
	}
	if !strings.Contains(m.View(), "No credentials stored") {
		t.Fatal("empty vault must render the empty notice")
	}
}

func TestDashboardAdvisorHandoff(t *testing.T) {
	m := NewDashboardPage(DefaultStyles())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if cmd == nil {
		t.Fatal("quick action must emit a navigation command")
	}

	msg := cmd()
	nav, ok := msg.(NavigateMsg)
	if !ok {
		t.Fatalf("expected NavigateMsg, got %T", msg)
	}
	if nav.Target != feature.ChatAdvisor {
		t.Errorf("expected chat advisor target, got %v", nav.Target)
	}
	if nav.Seed != AdvisorSeedPrompt {
		t.Errorf("expected fixed seed prompt, got %q", nav.Seed)
	}
}

func TestDashboardRendersCatalog(t *testing.T) {
	m := NewDashboardPage(DefaultStyles())
	view := m.View()
	for _, f := range feature.Catalog {
		if !strings.Contains(view, f.Name) {
			t.Errorf("dashboard missing catalog entry %q", f.Name)
		}
	}
}

func TestPlaceholderPage(t *testing.T) {
	f, _ := feature.Lookup(feature.TrendScout)
	m := NewPlaceholderPage(f, DefaultStyles())
	view := m.View()
	if !strings.Contains(view, "Trend Scout") || !strings.Contains(view, "not available") {
		t.Fatalf("unexpected placeholder view: %s", view)
	}
}

func TestIconRegistry(t *testing.T) {
	if Icon("lock") == fallbackIcon {
		t.Error("known icon must not fall back")
	}
	if Icon("definitely-not-an-icon") != fallbackIcon {
		t.Error("unknown icon must use the fallback glyph")
	}
}
