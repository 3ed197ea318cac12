package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Gon161/RAG-multi-documento/internal/domain"
)

// TranscriptRepository persists per-session chat transcripts.
type TranscriptRepository struct {
	db *DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// EnsureSession inserts the session row if it is not there yet and
// bumps its updated_at.
func (r *TranscriptRepository) EnsureSession(sessionID string) error {
	now := time.Now()
	_, err := r.db.Exec(`
		INSERT INTO sessions (id, created_at, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at
	`, sessionID, now, now)
	return err
}

// AppendMessage appends one transcript entry.
func (r *TranscriptRepository) AppendMessage(message *domain.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	var sourcesJSON []byte
	if len(message.Sources) > 0 {
		sourcesJSON, _ = json.Marshal(message.Sources)
	}

	_, err := r.db.Exec(`
		INSERT INTO messages (id, session_id, role, content, sources, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, message.ID, message.SessionID, message.Role, message.Content,
		string(sourcesJSON), message.CreatedAt)

	return err
}

// Messages retrieves the full transcript of a session in order.
func (r *TranscriptRepository) Messages(sessionID string) ([]*domain.Message, error) {
	rows, err := r.db.Query(`
		SELECT id, session_id, role, content, sources, created_at
		FROM messages WHERE session_id = ?
		ORDER BY created_at ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		message := &domain.Message{}
		var sourcesJSON sql.NullString

		if err := rows.Scan(&message.ID, &message.SessionID, &message.Role,
			&message.Content, &sourcesJSON, &message.CreatedAt); err != nil {
			return nil, err
		}

		if sourcesJSON.Valid && sourcesJSON.String != "" {
			json.Unmarshal([]byte(sourcesJSON.String), &message.Sources)
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}
