// Package chat holds the conversation state and the retrieval-augmented
// answering pipeline.
package chat

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Role of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in the append-only conversation log.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Model     string    `json:"model,omitempty"`
	UsedRAG   bool      `json:"used_rag,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ResultKind tags an Answer so the presentation layer can distinguish
// model output from guidance and from surfaced failures.
type ResultKind string

const (
	KindAnswer   ResultKind = "answer"
	KindGuidance ResultKind = "guidance"
	KindFailure  ResultKind = "failure"
)

// Source is a retrieved chunk that conditioned a RAG answer.
type Source struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Answer is the tagged result of the answering pipeline. Failures are
// carried as content, never as a Go error to the caller.
type Answer struct {
	Kind    ResultKind `json:"kind"`
	Text    string     `json:"text"`
	Sources []Source   `json:"sources,omitempty"`
	Model   string     `json:"model,omitempty"`
	UsedRAG bool       `json:"used_rag"`
}

// LLMProvider defines the generation capability: embed a text and
// generate a completion. Implementations are interchangeable per session.
type LLMProvider interface {
	// Name returns a human-readable label for the provider.
	Name() string
	// GetEmbedding generates an embedding vector for the given text.
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
	// Generate produces a completion for the prompt under the given
	// system instruction. system may be empty.
	Generate(ctx context.Context, system, prompt string) (string, error)
}
