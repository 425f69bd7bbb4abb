package assistant

import (
	"sync"

	"github.com/oguzhantopcu/tyasistan/internal/ai"
)

// maxHistory bounds the conversation sent to the provider. Older turns
// are dropped pairwise from the front; the system prompt always stays.
const maxHistory = 40

// Session holds one conversation's history. Safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	messages []ai.Message
}

// NewSession creates a session seeded with the system prompt.
func NewSession() *Session {
	return &Session{
		messages: []ai.Message{{Role: ai.RoleSystem, Content: SystemPrompt}},
	}
}

// Append adds a message to the history, trimming old turns when the
// window overflows.
func (s *Session) Append(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, ai.Message{Role: role, Content: content})
	if len(s.messages) > maxHistory {
		// keep system prompt, drop the oldest user/assistant pair
		trimmed := make([]ai.Message, 0, len(s.messages)-2)
		trimmed = append(trimmed, s.messages[0])
		trimmed = append(trimmed, s.messages[3:]...)
		s.messages = trimmed
	}
}

// Messages returns a copy of the history.
func (s *Session) Messages() []ai.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ai.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages including the system prompt.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}
