package memory

import (
	"sync"

	"github.com/Gon161/RAG-multi-documento/internal/domain"
)

// Registry maps session ids to their conversation history. Entries are
// created lazily on first use and never expire on their own.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string][]domain.Turn
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string][]domain.Turn)}
}

// GetOrCreate returns the history for sessionID, creating an empty
// entry if none exists.
func (r *Registry) GetOrCreate(sessionID string) []domain.Turn {
	r.mu.Lock()
	defer r.mu.Unlock()
	turns, ok := r.sessions[sessionID]
	if !ok {
		r.sessions[sessionID] = nil
	}
	return copyTurns(turns)
}

// History returns a copy of the session's history without creating an
// entry for unknown sessions.
func (r *Registry) History(sessionID string) []domain.Turn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyTurns(r.sessions[sessionID])
}

// AppendExchange records a question/answer pair in call order.
func (r *Registry) AppendExchange(sessionID, question, answer string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = append(r.sessions[sessionID],
		domain.Turn{Role: domain.RoleUser, Content: question},
		domain.Turn{Role: domain.RoleAssistant, Content: answer},
	)
}

// Clear removes the session's entry entirely. It does not pre-create
// an empty one.
func (r *Registry) Clear(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// Len returns the number of sessions holding memory.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func copyTurns(turns []domain.Turn) []domain.Turn {
	if turns == nil {
		return nil
	}
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out
}
