package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Gon161/RAG-multi-documento/internal/api/middleware"
	"github.com/Gon161/RAG-multi-documento/internal/domain"
	"github.com/Gon161/RAG-multi-documento/internal/memory"
	"github.com/Gon161/RAG-multi-documento/internal/repository"
	"github.com/Gon161/RAG-multi-documento/internal/service"
	"github.com/Gon161/RAG-multi-documento/internal/store"
)

// Handler handles the document Q&A API.
type Handler struct {
	docs        *store.DocumentStore
	ingest      *service.IngestService
	qa          *service.QAService
	memories    *memory.Registry
	transcripts *repository.TranscriptRepository
	chatModel   string
	hasAPIKey   bool
	logger      *zap.Logger
}

// HandlerConfig carries the pieces the handler reports or depends on.
type HandlerConfig struct {
	ChatModel string
	HasAPIKey bool
}

// NewHandler creates the API handler. transcripts may be nil.
func NewHandler(
	docs *store.DocumentStore,
	ingest *service.IngestService,
	qa *service.QAService,
	memories *memory.Registry,
	transcripts *repository.TranscriptRepository,
	cfg HandlerConfig,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		docs:        docs,
		ingest:      ingest,
		qa:          qa,
		memories:    memories,
		transcripts: transcripts,
		chatModel:   cfg.ChatModel,
		hasAPIKey:   cfg.HasAPIKey,
		logger:      logger,
	}
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/health", h.Health)
	r.GET("/documents", h.ListDocuments)
	r.POST("/upload", h.Upload)
	r.POST("/ask", h.Ask)
	r.POST("/clear-memory", h.ClearMemory)
	r.DELETE("/delete-document", h.DeleteDocument)
	r.GET("/view-pdf/:doc_id", h.ViewPDF)
	r.GET("/session-history", h.SessionHistory)
}

// fail reports an error to the client. Per the API contract most
// failures keep HTTP 200 and signal through the success flag.
func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// Health reports document count and provider configuration.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"documents":  h.docs.Count(),
		"chat_model": h.chatModel,
		"config": gin.H{
			"hasApiKey": h.hasAPIKey,
		},
	})
}

// ListDocuments returns every stored document record.
func (h *Handler) ListDocuments(c *gin.Context) {
	docs := h.docs.List()
	c.JSON(http.StatusOK, domain.DocumentListResponse{
		Success:   true,
		Documents: docs,
		Total:     len(docs),
	})
}

// Upload receives a PDF and runs the ingest pipeline.
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusOK, "No se recibió archivo")
		return
	}

	src, err := file.Open()
	if err != nil {
		fail(c, http.StatusOK, err.Error())
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		fail(c, http.StatusOK, err.Error())
		return
	}

	docID, chunks, err := h.ingest.Ingest(c.Request.Context(), file.Filename, data)
	if err != nil {
		h.logger.Error("upload failed", zap.String("file_name", file.Filename), zap.Error(err))
		fail(c, http.StatusOK, err.Error())
		return
	}

	h.logger.Info("upload complete", zap.String("doc_id", docID), zap.Int("chunks", chunks))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Ask answers a question against the indexed documents.
func (h *Handler) Ask(c *gin.Context) {
	var req domain.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusOK, err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		fail(c, http.StatusOK, "Falta la pregunta")
		return
	}

	sessionID := middleware.SessionID(c)
	answer, sources, err := h.qa.Answer(c.Request.Context(), sessionID, req.Question, req.Docs)
	if err != nil {
		h.logger.Error("ask failed", zap.String("session_id", sessionID), zap.Error(err))
		fail(c, http.StatusOK, err.Error())
		return
	}

	c.JSON(http.StatusOK, domain.AskResponse{
		Success: true,
		Answer:  answer,
		Sources: sources,
	})
}

// ClearMemory drops the caller's conversation memory. The session id
// itself stays valid.
func (h *Handler) ClearMemory(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	h.memories.Clear(sessionID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Memoria limpiada correctamente"})
}

// DeleteDocument removes a document, its index entries, and its PDF.
func (h *Handler) DeleteDocument(c *gin.Context) {
	var req domain.DeleteDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DocID == "" {
		fail(c, http.StatusNotFound, "Documento no encontrado")
		return
	}

	if err := h.ingest.Delete(c.Request.Context(), req.DocID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			fail(c, http.StatusNotFound, "Documento no encontrado")
			return
		}
		h.logger.Error("delete failed", zap.String("doc_id", req.DocID), zap.Error(err))
		fail(c, http.StatusOK, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ViewPDF serves the original PDF bytes.
func (h *Handler) ViewPDF(c *gin.Context) {
	docID := c.Param("doc_id")
	path, err := h.ingest.PDFPath(docID)
	if err != nil {
		fail(c, http.StatusNotFound, "Documento no encontrado")
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.File(path)
}

// SessionHistory returns the caller's persisted transcript.
func (h *Handler) SessionHistory(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	if h.transcripts == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "messages": []*domain.Message{}})
		return
	}
	messages, err := h.transcripts.Messages(sessionID)
	if err != nil {
		fail(c, http.StatusOK, err.Error())
		return
	}
	if messages == nil {
		messages = []*domain.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": messages})
}
