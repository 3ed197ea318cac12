package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Gon161/RAG-multi-documento/internal/chunker"
	"github.com/Gon161/RAG-multi-documento/internal/pdf/pdftest"
	"github.com/Gon161/RAG-multi-documento/internal/store"
)

type fakeIndexer struct {
	docID   string
	chunks  []string
	deleted []string
}

func (f *fakeIndexer) Add(_ context.Context, docID, fileName string, chunks []string) error {
	f.docID = docID
	f.chunks = chunks
	return nil
}

func (f *fakeIndexer) Delete(_ context.Context, chunkKeys []string) error {
	f.deleted = append(f.deleted, chunkKeys...)
	return nil
}

func TestIngestWritesArtifactsAndIndexes(t *testing.T) {
	dir := t.TempDir()
	docs := store.New(filepath.Join(dir, "documents_metadata.json"))
	if err := docs.Load(); err != nil {
		t.Fatalf("load store: %v", err)
	}
	indexer := &fakeIndexer{}
	splitter := chunker.New(1000, 200)
	svc := NewIngestService(docs, indexer, splitter,
		filepath.Join(dir, "pdfs"), filepath.Join(dir, "texts"), zap.NewNop())

	data := pdftest.OnePage("La garantia dura dos anos")
	docID, chunks, err := svc.Ingest(context.Background(), "garantia.pdf", data)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if docID == "" || chunks < 1 {
		t.Fatalf("docID = %q, chunks = %d", docID, chunks)
	}

	dump, err := os.ReadFile(filepath.Join(dir, "texts", "garantia.pdf.txt"))
	if err != nil {
		t.Fatalf("read text dump: %v", err)
	}
	if !strings.Contains(string(dump), "[Página 1]") ||
		!strings.Contains(string(dump), "La garantia dura dos anos") {
		t.Errorf("text dump = %q", dump)
	}

	stored, err := os.ReadFile(filepath.Join(dir, "pdfs", docID+"_garantia.pdf"))
	if err != nil {
		t.Fatalf("read stored pdf: %v", err)
	}
	if len(stored) != len(data) {
		t.Errorf("stored pdf has %d bytes, uploaded %d", len(stored), len(data))
	}

	rec, err := docs.Get(docID)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if rec.FileName != "garantia.pdf" || rec.PDFPath != docID+"_garantia.pdf" {
		t.Errorf("record = %+v", rec)
	}
	if want := len(splitter.Split(string(dump))); rec.ChunkCount != want || chunks != want {
		t.Errorf("chunk count = %d (returned %d), want %d", rec.ChunkCount, chunks, want)
	}

	if indexer.docID != docID || len(indexer.chunks) != chunks {
		t.Errorf("indexed %d chunks under %q", len(indexer.chunks), indexer.docID)
	}

	path, err := svc.PDFPath(docID)
	if err != nil || path != filepath.Join(dir, "pdfs", docID+"_garantia.pdf") {
		t.Errorf("PDFPath = %q, %v", path, err)
	}
}

func TestDeleteRemovesArtifactsAndIndexEntries(t *testing.T) {
	dir := t.TempDir()
	docs := store.New(filepath.Join(dir, "documents_metadata.json"))
	if err := docs.Load(); err != nil {
		t.Fatalf("load store: %v", err)
	}
	indexer := &fakeIndexer{}
	svc := NewIngestService(docs, indexer, chunker.New(1000, 200),
		filepath.Join(dir, "pdfs"), filepath.Join(dir, "texts"), zap.NewNop())

	docID, chunks, err := svc.Ingest(context.Background(), "garantia.pdf", pdftest.OnePage("texto breve"))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if err := svc.Delete(context.Background(), docID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(indexer.deleted) != chunks {
		t.Errorf("deleted %d keys, want %d", len(indexer.deleted), chunks)
	}
	if _, err := os.Stat(filepath.Join(dir, "pdfs", docID+"_garantia.pdf")); !os.IsNotExist(err) {
		t.Errorf("stored pdf still present: %v", err)
	}
	if _, err := docs.Get(docID); err == nil {
		t.Error("record still present after delete")
	}
}
