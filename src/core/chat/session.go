package chat

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultMemoryWindow = 10

// Session owns all mutable per-session state: the conversation log, the
// rolling memory window, the persona, the active index reference and the
// provider handle. Nothing here is shared across sessions.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu           sync.Mutex
	reqMu        sync.Mutex
	personaName  string
	persona      string
	provider     LLMProvider
	activeIndex  string
	turns        []Turn
	memoryWindow int
}

// Status is the session-visible system state.
type Status struct {
	SessionID    string `json:"session_id"`
	ModelReady   bool   `json:"model_ready"`
	Model        string `json:"model,omitempty"`
	RAGReady     bool   `json:"rag_ready"`
	ActiveIndex  string `json:"active_index,omitempty"`
	MessageCount int    `json:"message_count"`
	Persona      string `json:"persona"`
}

func NewSession(memoryWindow int) *Session {
	if memoryWindow <= 0 {
		memoryWindow = DefaultMemoryWindow
	}
	return &Session{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		personaName:  DefaultPersonaName,
		persona:      Personas[DefaultPersonaName],
		memoryWindow: memoryWindow,
	}
}

// Acquire serializes request handling for this session: one ingestion or
// question runs to completion before the next is accepted.
func (s *Session) Acquire() { s.reqMu.Lock() }

// Release ends the current request.
func (s *Session) Release() { s.reqMu.Unlock() }

// SetProvider installs (or replaces) the generation provider handle.
// Switching providers invalidates the previous handle.
func (s *Session) SetProvider(p LLMProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = p
}

func (s *Session) Provider() LLMProvider {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider
}

// SetPersona replaces the active persona. Changing it clears the
// conversation log and memory so contexts never mix across incompatible
// instructions. Setting the identical instruction is a no-op.
func (s *Session) SetPersona(name, instruction string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if instruction == s.persona {
		return
	}
	s.personaName = name
	s.persona = instruction
	s.turns = nil
}

func (s *Session) Persona() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persona
}

func (s *Session) PersonaName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.personaName
}

// SetActiveIndex records the index populated by ingestion for this
// session.
func (s *Session) SetActiveIndex(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeIndex = name
}

func (s *Session) ActiveIndex() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeIndex
}

// Append adds turns to the conversation log.
func (s *Session) Append(turns ...Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turns...)
}

// History returns a copy of the conversation log.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// MemoryPrompt renders the rolling memory buffer: the last memoryWindow
// turns as alternating User/Assistant lines.
func (s *Session) MemoryPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := 0
	if len(s.turns) > s.memoryWindow {
		start = len(s.turns) - s.memoryWindow
	}
	var b strings.Builder
	for _, turn := range s.turns[start:] {
		label := "User"
		if turn.Role == RoleAssistant {
			label = "Assistant"
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewChat clears the conversation log and memory but keeps the persona,
// the provider handle and the active index.
func (s *Session) NewChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}

// ClearAll additionally discards the active index reference and the
// provider handle, forcing full re-setup.
func (s *Session) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
	s.activeIndex = ""
	s.provider = nil
}

// Status reports the session-visible system state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		SessionID:    s.ID,
		ModelReady:   s.provider != nil,
		RAGReady:     s.activeIndex != "",
		ActiveIndex:  s.activeIndex,
		MessageCount: len(s.turns),
		Persona:      s.personaName,
	}
	if s.provider != nil {
		st.Model = s.provider.Name()
	}
	return st
}
