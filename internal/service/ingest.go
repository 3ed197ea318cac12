package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Gon161/RAG-multi-documento/internal/chunker"
	"github.com/Gon161/RAG-multi-documento/internal/domain"
	"github.com/Gon161/RAG-multi-documento/internal/pdf"
	"github.com/Gon161/RAG-multi-documento/internal/store"
)

// Indexer writes and removes chunk entries in the vector index.
type Indexer interface {
	Add(ctx context.Context, docID, fileName string, chunks []string) error
	Delete(ctx context.Context, chunkKeys []string) error
}

// IngestService processes uploaded PDFs into the document store and
// the vector index, and tears them down again on delete.
type IngestService struct {
	docs     *store.DocumentStore
	index    Indexer
	splitter *chunker.Chunker
	pdfDir   string
	textDir  string
	logger   *zap.Logger
}

// NewIngestService creates an ingest service.
func NewIngestService(
	docs *store.DocumentStore,
	index Indexer,
	splitter *chunker.Chunker,
	pdfDir, textDir string,
	logger *zap.Logger,
) *IngestService {
	return &IngestService{
		docs:     docs,
		index:    index,
		splitter: splitter,
		pdfDir:   pdfDir,
		textDir:  textDir,
		logger:   logger,
	}
}

// newDocID builds an id that sorts by upload time but cannot collide
// under concurrent uploads within the same millisecond.
func newDocID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.New().String()[:8])
}

// Ingest extracts, stores, chunks, and indexes one uploaded PDF.
// Artifacts written before a failure are not cleaned up.
func (s *IngestService) Ingest(ctx context.Context, fileName string, data []byte) (string, int, error) {
	docID := newDocID()

	text, err := pdf.ExtractText(data)
	if err != nil {
		return "", 0, err
	}

	if err := os.MkdirAll(s.textDir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create text directory: %w", err)
	}
	textPath := filepath.Join(s.textDir, fileName+".txt")
	if err := os.WriteFile(textPath, []byte(text), 0644); err != nil {
		return "", 0, fmt.Errorf("failed to write extracted text: %w", err)
	}

	if err := os.MkdirAll(s.pdfDir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create pdf directory: %w", err)
	}
	pdfFileName := docID + "_" + fileName
	if err := os.WriteFile(filepath.Join(s.pdfDir, pdfFileName), data, 0644); err != nil {
		return "", 0, fmt.Errorf("failed to store pdf: %w", err)
	}

	chunks := s.splitter.Split(text)
	if err := s.index.Add(ctx, docID, fileName, chunks); err != nil {
		return "", 0, err
	}

	record := domain.DocumentRecord{
		FileName:   fileName,
		UploadDate: time.Now(),
		ChunkCount: len(chunks),
		PDFPath:    pdfFileName,
	}
	if err := s.docs.Put(docID, record); err != nil {
		return "", 0, err
	}

	s.logger.Info("document ingested",
		zap.String("doc_id", docID),
		zap.String("file_name", fileName),
		zap.Int("chunks", len(chunks)),
	)
	return docID, len(chunks), nil
}

// Delete removes a document's PDF, its index entries, and its record.
// There is no transactional guarantee between the three; a failure
// leaves the earlier steps done.
func (s *IngestService) Delete(ctx context.Context, docID string) error {
	rec, err := s.docs.Get(docID)
	if err != nil {
		return err
	}

	if rec.PDFPath != "" {
		if err := os.Remove(filepath.Join(s.pdfDir, rec.PDFPath)); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove stored pdf", zap.String("doc_id", docID), zap.Error(err))
		}
	}

	keys := make([]string, rec.ChunkCount)
	for i := 0; i < rec.ChunkCount; i++ {
		keys[i] = fmt.Sprintf("%s_%d", docID, i)
	}
	if err := s.index.Delete(ctx, keys); err != nil {
		return err
	}

	if err := s.docs.Delete(docID); err != nil {
		return err
	}

	s.logger.Info("document deleted", zap.String("doc_id", docID))
	return nil
}

// PDFPath resolves the on-disk path of a stored PDF.
func (s *IngestService) PDFPath(docID string) (string, error) {
	rec, err := s.docs.Get(docID)
	if err != nil {
		return "", err
	}
	if rec.PDFPath == "" {
		return "", domain.ErrNotFound
	}
	return filepath.Join(s.pdfDir, rec.PDFPath), nil
}
