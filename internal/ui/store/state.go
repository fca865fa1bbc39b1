// Package store holds the chat page state and the reducer that applies actions to it.
package store

import "time"

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one immutable entry of a session's message list.
type Message struct {
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Summary is the sidebar's cached view of a session.
type Summary struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
}

// Pending tags the request a reply is awaited for.
type Pending struct {
	RequestID string `json:"requestId"`
	SessionID string `json:"sessionId"`
}

// State is everything the chat page renders.
type State struct {
	SessionID        string    `json:"sessionId"`
	Messages         []Message `json:"messages"`
	Input            string    `json:"input"`
	Composing        bool      `json:"composing"`
	Pending          *Pending  `json:"pending,omitempty"`
	History          []Summary `json:"history"`
	SidebarCollapsed bool      `json:"sidebarCollapsed"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Messages = cloneMessages(s.Messages)
	if s.Pending != nil {
		p := *s.Pending
		out.Pending = &p
	}
	out.History = make([]Summary, len(s.History))
	for i, sum := range s.History {
		out.History[i] = Summary{ID: sum.ID, Messages: cloneMessages(sum.Messages)}
	}
	return out
}

// Summary returns the sidebar entry for id.
func (s State) Summary(id string) (Summary, bool) {
	for _, sum := range s.History {
		if sum.ID == id {
			return sum, true
		}
	}
	return Summary{}, false
}

func cloneMessages(in []Message) []Message {
	out := make([]Message, len(in))
	copy(out, in)
	return out
}
