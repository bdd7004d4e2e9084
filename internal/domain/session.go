package domain

import (
	"fmt"
	"time"
)

// Message is one turn of a conversation.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// Session is one client conversation: an identifier, its accumulated
// message history, and an optional link to a quotation spawned from it.
// A fresh session never inherits a previous quotation link.
type Session struct {
	ID          string
	History     []Message
	QuotationID string // empty until a quotation is spawned
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Append adds a message to the session history. History is append-only;
// only user and assistant roles are accepted.
func (s *Session) Append(role MessageRole, content string, now time.Time) error {
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("%w: message role must be user or assistant", ErrValidation)
	}
	s.History = append(s.History, Message{Role: role, Content: content})
	s.UpdatedAt = now
	return nil
}

// LinkQuotation records the quotation spawned from this session. The
// link is set once and kept for the session's life.
func (s *Session) LinkQuotation(quotationID string, now time.Time) {
	s.QuotationID = quotationID
	s.UpdatedAt = now
}

// NormalizeHistory drops malformed entries from a client-supplied
// history, keeping only user and assistant messages in order.
func NormalizeHistory(history []Message) []Message {
	out := make([]Message, 0, len(history))
	for _, m := range history {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			continue
		}
		out = append(out, m)
	}
	return out
}
