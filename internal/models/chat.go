package models

import (
	"time"

	"github.com/google/uuid"
)

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

type ChatState string

const (
	ChatIdle             ChatState = "idle"
	ChatAwaitingResponse ChatState = "awaiting-response"
)

// ChatMessage represents a single message in a conversation. ID is the
// message's position in the session, starting at 1.
type ChatMessage struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

type Language struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// ChatSessionView is a point-in-time copy of a chat session.
type ChatSessionView struct {
	ID       uuid.UUID     `json:"id"`
	State    ChatState     `json:"state"`
	Language Language      `json:"language"`
	Messages []ChatMessage `json:"messages"`
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse acknowledges a send. The assistant reply arrives later over
// the websocket or the message list.
type ChatResponse struct {
	Message *ChatMessage `json:"message,omitempty"`
	Ignored bool         `json:"ignored,omitempty"`
	State   ChatState    `json:"state"`
}

type LanguageRequest struct {
	Code string `json:"code"`
}
