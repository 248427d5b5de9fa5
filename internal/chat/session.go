// Package chat keeps the conversation with the career assistant. The log is
// append-only and lives only as long as the Session.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	Greeting = "Hello! I'm your CareerNavigator-AI assistant. I'm here to help you with your " +
		"learning journey, career guidance, and job search. What can I help you with today?"
	FallbackReply = "I apologize, but I encountered an error. Please try again later."
)

// QuickQuestions are suggested openers, offered before the first exchange.
var QuickQuestions = []string{
	"What learning path should I follow?",
	"How can I improve my programming skills?",
	"What jobs match my current skills?",
	"Tips for preparing for technical interviews",
}

var (
	ErrBusy         = errors.New("assistant is still replying")
	ErrEmptyMessage = errors.New("message is empty")
)

type Kind string

const (
	FromUser Kind = "user"
	FromBot  Kind = "bot"
)

type Message struct {
	ID        int
	Type      Kind
	Content   string
	Timestamp time.Time
}

// Sender delivers one user message and returns the assistant's reply.
type Sender interface {
	Chat(ctx context.Context, message string) (string, error)
}

// Session is a single conversation. At most one request is outstanding at a time.
type Session struct {
	sender Sender
	now    func() time.Time
	logger *slog.Logger

	mu       sync.Mutex
	messages []Message
	nextID   int
	typing   bool
}

// NewSession starts a conversation seeded with the greeting.
func NewSession(sender Sender) *Session {
	s := &Session{
		sender: sender,
		now:    time.Now,
		logger: slog.Default(),
		nextID: 1,
	}
	s.appendLocked(FromBot, Greeting)
	return s
}

func (s *Session) appendLocked(kind Kind, content string) Message {
	m := Message{
		ID:        s.nextID,
		Type:      kind,
		Content:   content,
		Timestamp: s.now(),
	}
	s.nextID++
	s.messages = append(s.messages, m)
	return m
}

// Send appends text as a user message, asks the assistant and appends exactly
// one bot message: the reply, or FallbackReply when the request fails. Request
// failures are logged, not returned. ErrBusy is returned while an earlier Send
// is still waiting.
func (s *Session) Send(ctx context.Context, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.typing {
		s.mu.Unlock()
		return Message{}, ErrBusy
	}
	s.appendLocked(FromUser, text)
	s.typing = true
	s.mu.Unlock()

	reply, err := s.sender.Chat(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.typing = false }()
	if err != nil {
		s.logger.Warn("chat request failed", "error", err)
		return s.appendLocked(FromBot, FallbackReply), nil
	}
	return s.appendLocked(FromBot, reply), nil
}

// Typing reports whether a reply is pending. Input should be disabled while it is.
func (s *Session) Typing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing
}

func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// ShowQuickQuestions is true until the first message is sent.
func (s *Session) ShowQuickQuestions() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages) == 1
}
