package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Gon161/RAG-multi-documento/internal/domain"
	"github.com/Gon161/RAG-multi-documento/internal/llm"
	"github.com/Gon161/RAG-multi-documento/internal/memory"
	"github.com/Gon161/RAG-multi-documento/internal/repository"
)

// Retriever finds chunks relevant to a query.
type Retriever interface {
	Search(ctx context.Context, query string, k int, docIDs []string) ([]domain.ScoredChunk, error)
}

// ChatCompleter produces a chat completion for a message list.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []llm.ChatMessage, temperature float64) (string, error)
}

const (
	// retrievalTemperature is used on the document-grounded path.
	retrievalTemperature = 0.3
	// fallbackTemperature is used for the general-knowledge fallback.
	fallbackTemperature = 0.7
	// fallbackHistoryTurns bounds the conversation context passed to
	// the fallback prompt.
	fallbackHistoryTurns = 4
	// previewRunes is the length of each source's content preview.
	previewRunes = 200
)

// fallbackPrefix discloses that the answer did not come from the
// indexed documents.
const fallbackPrefix = "📚 No encontré información específica en los documentos proporcionados.\n\n" +
	"🤖 Sin embargo, puedo responder basándome en mi conocimiento general:\n\n"

const answerSystemPrompt = "Eres un asistente que responde preguntas sobre documentos. " +
	"Utiliza el siguiente contexto extraído de los documentos para responder. " +
	"Si el contexto no contiene la respuesta, di que no tienes información en los documentos.\n\nContexto:\n%s"

const condenseSystemPrompt = "Dada la conversación y una pregunta de seguimiento, " +
	"reformula la pregunta de seguimiento como una pregunta independiente, en su idioma original. " +
	"Responde únicamente con la pregunta reformulada."

// QAService answers questions against the indexed documents, falling
// back to general knowledge when retrieval comes up empty-handed.
type QAService struct {
	retriever   Retriever
	chat        ChatCompleter
	memories    *memory.Registry
	transcripts *repository.TranscriptRepository
	classifier  ConfidenceClassifier
	topK        int
	logger      *zap.Logger
}

// NewQAService creates a QA service. transcripts may be nil, in which
// case no transcript log is written.
func NewQAService(
	retriever Retriever,
	chat ChatCompleter,
	memories *memory.Registry,
	transcripts *repository.TranscriptRepository,
	topK int,
	logger *zap.Logger,
) *QAService {
	if topK <= 0 {
		topK = 6
	}
	return &QAService{
		retriever:   retriever,
		chat:        chat,
		memories:    memories,
		transcripts: transcripts,
		classifier:  NewPhraseClassifier(),
		topK:        topK,
		logger:      logger,
	}
}

// SetClassifier replaces the confidence policy.
func (s *QAService) SetClassifier(c ConfidenceClassifier) { s.classifier = c }

// Answer runs the retrieval-augmented answering flow for one question
// within a session. docIDs restricts the search to those documents;
// empty means search everything.
func (s *QAService) Answer(ctx context.Context, sessionID, question string, docIDs []string) (string, []domain.Source, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", nil, domain.ErrInvalidRequest
	}

	history := s.memories.GetOrCreate(sessionID)

	searchQuery := question
	if len(history) > 0 {
		condensed, err := s.condenseQuestion(ctx, history, question)
		if err != nil {
			return "", nil, err
		}
		searchQuery = condensed
	}

	chunks, err := s.retriever.Search(ctx, searchQuery, s.topK, docIDs)
	if err != nil {
		return "", nil, err
	}

	draft, err := s.draftAnswer(ctx, history, question, chunks)
	if err != nil {
		return "", nil, err
	}

	var answer string
	var sources []domain.Source
	if s.classifier.IsUncertain(draft) {
		// The retrieved candidates are discarded here: a hedged answer
		// means they were not useful, so citing them would mislead.
		direct, err := s.fallbackAnswer(ctx, history, question)
		if err != nil {
			return "", nil, err
		}
		answer = fallbackPrefix + direct
		sources = []domain.Source{}
	} else {
		answer = draft
		sources = buildSources(chunks)
	}

	s.memories.AppendExchange(sessionID, question, answer)
	s.logTranscript(sessionID, question, answer, sources)

	return answer, sources, nil
}

// condenseQuestion rewrites a follow-up question into a standalone one
// using the conversation so far.
func (s *QAService) condenseQuestion(ctx context.Context, history []domain.Turn, question string) (string, error) {
	messages := make([]llm.ChatMessage, 0, len(history)+2)
	messages = append(messages, llm.ChatMessage{Role: "system", Content: condenseSystemPrompt})
	for _, turn := range history {
		messages = append(messages, llm.ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, llm.ChatMessage{Role: domain.RoleUser, Content: question})

	condensed, err := s.chat.Complete(ctx, messages, 0)
	if err != nil {
		return "", err
	}
	condensed = strings.TrimSpace(condensed)
	if condensed == "" {
		return question, nil
	}
	return condensed, nil
}

// draftAnswer asks the model to answer from the retrieved context,
// with the full session history in the message list.
func (s *QAService) draftAnswer(ctx context.Context, history []domain.Turn, question string, chunks []domain.ScoredChunk) (string, error) {
	var contextBlock strings.Builder
	for _, chunk := range chunks {
		contextBlock.WriteString("\n---\n")
		contextBlock.WriteString(chunk.Text)
	}
	if len(chunks) > 0 {
		contextBlock.WriteString("\n---")
	}

	messages := make([]llm.ChatMessage, 0, len(history)+2)
	messages = append(messages, llm.ChatMessage{
		Role:    "system",
		Content: fmt.Sprintf(answerSystemPrompt, contextBlock.String()),
	})
	for _, turn := range history {
		messages = append(messages, llm.ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, llm.ChatMessage{Role: domain.RoleUser, Content: question})

	draft, err := s.chat.Complete(ctx, messages, retrievalTemperature)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(draft), nil
}

// fallbackAnswer asks the model directly, with only the last few turns
// of history, at a higher temperature than the retrieval path.
func (s *QAService) fallbackAnswer(ctx context.Context, history []domain.Turn, question string) (string, error) {
	recent := history
	if len(recent) > fallbackHistoryTurns {
		recent = recent[len(recent)-fallbackHistoryTurns:]
	}
	var contextLines []string
	for _, turn := range recent {
		contextLines = append(contextLines, fmt.Sprintf("%s: %s", turn.Role, turn.Content))
	}

	prompt := fmt.Sprintf(`Historial de conversación reciente:
%s

Pregunta actual: %s

Por favor, responde basándote en tu conocimiento general y el contexto de la conversación.`,
		strings.Join(contextLines, "\n"), question)

	direct, err := s.chat.Complete(ctx, []llm.ChatMessage{{Role: domain.RoleUser, Content: prompt}}, fallbackTemperature)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(direct), nil
}

func buildSources(chunks []domain.ScoredChunk) []domain.Source {
	sources := make([]domain.Source, len(chunks))
	for i, chunk := range chunks {
		preview := chunk.Text
		if runes := []rune(preview); len(runes) > previewRunes {
			preview = string(runes[:previewRunes])
		}
		sources[i] = domain.Source{
			Document:       chunk.Source,
			Chunk:          chunk.Index,
			ContentPreview: preview,
		}
	}
	return sources
}

// logTranscript appends the exchange to the sqlite audit log. Failures
// are logged and do not affect the answer.
func (s *QAService) logTranscript(sessionID, question, answer string, sources []domain.Source) {
	if s.transcripts == nil {
		return
	}
	if err := s.transcripts.EnsureSession(sessionID); err != nil {
		s.logger.Warn("failed to upsert transcript session", zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	userMsg := &domain.Message{SessionID: sessionID, Role: domain.RoleUser, Content: question}
	if err := s.transcripts.AppendMessage(userMsg); err != nil {
		s.logger.Warn("failed to log user message", zap.String("session_id", sessionID), zap.Error(err))
	}
	assistantMsg := &domain.Message{SessionID: sessionID, Role: domain.RoleAssistant, Content: answer, Sources: sources}
	if err := s.transcripts.AppendMessage(assistantMsg); err != nil {
		s.logger.Warn("failed to log assistant message", zap.String("session_id", sessionID), zap.Error(err))
	}
}
