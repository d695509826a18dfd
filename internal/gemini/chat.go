package gemini

import (
	"context"
	"sync"

	"bizdeck/internal/logging"

	"github.com/google/uuid"
)

// Advisor is the call surface the chat panel depends on.
type Advisor interface {
	Send(ctx context.Context, message string) (string, error)
}

// AdvisorPersona is the fixed system instruction for chat sessions. It is set
// once when the session is created and never changes for its lifetime.
const AdvisorPersona = "You are a pragmatic business advisor for small online businesses. Give direct, actionable advice about strategy, marketing and operations. Keep answers short unless asked to elaborate."

// ChatSession holds one conversation with the model. History lives only in
// memory; it is gone when the owning panel goes away.
type ChatSession struct {
	id      string
	client  *Client
	system  string
	mu      sync.Mutex
	history []Content
}

// NewChatSession creates a session with the given persona instruction.
// An empty persona falls back to AdvisorPersona.
func NewChatSession(client *Client, persona string) *ChatSession {
	if persona == "" {
		persona = AdvisorPersona
	}
	s := &ChatSession{
		id:     uuid.NewString(),
		client: client,
		system: persona,
	}
	logging.Session("Chat session %s created", s.id)
	return s
}

// ID returns the session identifier.
func (s *ChatSession) ID() string {
	return s.id
}

// Send appends the user message to the session, asks the model for a reply
// with the full history, appends the reply and returns its text. On failure
// the user turn is rolled back so the history always alternates user/model.
func (s *ChatSession) Send(ctx context.Context, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, Content{
		Role:  "user",
		Parts: []Part{{Text: message}},
	})

	reqBody := Request{
		Contents: s.history,
		SystemInstruction: &Content{
			Parts: []Part{{Text: s.system}},
		},
		GenerationConfig: GenerationConfig{
			Temperature:     1.0,
			MaxOutputTokens: s.client.maxOutputTokens,
		},
	}

	resp, err := s.client.generate(ctx, s.client.model, reqBody)
	if err != nil {
		s.history = s.history[:len(s.history)-1]
		return "", err
	}

	reply, err := textOf(resp)
	if err != nil {
		s.history = s.history[:len(s.history)-1]
		return "", err
	}

	s.history = append(s.history, Content{
		Role:  "model",
		Parts: []Part{{Text: reply}},
	})

	logging.Session("Chat session %s turn complete, history=%d", s.id, len(s.history))
	return reply, nil
}

// History returns a copy of the conversation so far.
func (s *ChatSession) History() []Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Content, len(s.history))
	copy(out, s.history)
	return out
}
