package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ProviderFactory builds a generation provider by name. It returns a
// config-derived error for unknown or misconfigured providers.
type ProviderFactory func(name string) (LLMProvider, error)

// Manager owns the session registry. Each session keeps its own isolated
// state; the registry lock only guards the map itself.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	answerer     *Answerer
	factory      ProviderFactory
	memoryWindow int
}

func NewManager(answerer *Answerer, factory ProviderFactory, memoryWindow int) *Manager {
	return &Manager{
		sessions:     make(map[string]*Session),
		answerer:     answerer,
		factory:      factory,
		memoryWindow: memoryWindow,
	}
}

// Create registers a new session with the default persona.
func (m *Manager) Create() *Session {
	sess := NewSession(m.memoryWindow)
	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return sess
}

// Get resolves a session by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// SetModel initializes (or switches) the session's generation provider.
func (m *Manager) SetModel(id, providerName string) error {
	sess, err := m.Get(id)
	if err != nil {
		return err
	}
	provider, err := m.factory(providerName)
	if err != nil {
		return err
	}
	sess.SetProvider(provider)
	return nil
}

// Ask answers one question within the session and appends both turns to
// the conversation log. Guidance and failure answers are logged like any
// other content; requests within one session are serialized.
func (m *Manager) Ask(ctx context.Context, id, question string, useRAG bool) (*Answer, error) {
	sess, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	sess.Acquire()
	defer sess.Release()

	answer := m.answerer.Answer(ctx, sess, question, useRAG)
	now := time.Now().UTC()
	sess.Append(
		Turn{
			ID:        uuid.NewString(),
			Role:      RoleUser,
			Content:   question,
			CreatedAt: now,
		},
		Turn{
			ID:        uuid.NewString(),
			Role:      RoleAssistant,
			Content:   answer.Text,
			Model:     answer.Model,
			UsedRAG:   answer.UsedRAG,
			CreatedAt: now,
		},
	)
	return answer, nil
}
