package domain

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message in a session's conversation memory.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message is a persisted transcript entry.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Sources   []Source  `json:"sources,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Source is a citation returned alongside an answer.
type Source struct {
	Document       string `json:"document"`
	Chunk          int    `json:"chunk"`
	ContentPreview string `json:"content_preview"`
}

// ScoredChunk is a chunk returned by the vector index, ranked by
// similarity to the query.
type ScoredChunk struct {
	Key    string // "{docId}_{index}"
	DocID  string
	Source string // original file name
	Index  int
	Text   string
	Score  float64
}

// AskRequest is the body of POST /api/ask.
type AskRequest struct {
	Question string   `json:"question"`
	Docs     []string `json:"docs"`
}

// AskResponse is the response of POST /api/ask.
type AskResponse struct {
	Success bool     `json:"success"`
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}
