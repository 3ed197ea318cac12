package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/Gon161/RAG-multi-documento/internal/domain"
)

// DocumentStore is a flat mapping from document id to metadata,
// persisted as a single JSON file. The whole file is rewritten on
// every mutation.
type DocumentStore struct {
	mu   sync.RWMutex
	path string
	docs map[string]domain.DocumentRecord
}

// New creates a store backed by the given JSON file. Call Load before use.
func New(path string) *DocumentStore {
	return &DocumentStore{
		path: path,
		docs: make(map[string]domain.DocumentRecord),
	}
}

// Load reads the JSON file into memory. A missing file leaves the
// store empty and is not an error.
func (s *DocumentStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read document store: %w", err)
	}

	docs := make(map[string]domain.DocumentRecord)
	if err := json.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("failed to parse document store: %w", err)
	}
	s.docs = docs
	return nil
}

// Put inserts or replaces a record and rewrites the backing file.
func (s *DocumentStore) Put(id string, rec domain.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[id] = rec
	return s.save()
}

// Delete removes a record and rewrites the backing file.
// Returns domain.ErrNotFound for an unknown id.
func (s *DocumentStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.docs, id)
	return s.save()
}

// Get returns the record for id.
func (s *DocumentStore) Get(id string) (domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.docs[id]
	if !ok {
		return domain.DocumentRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

// List returns all records with their ids, oldest upload first.
func (s *DocumentStore) List() []domain.DocumentInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.DocumentInfo, 0, len(s.docs))
	for id, rec := range s.docs {
		docs = append(docs, domain.DocumentInfo{ID: id, DocumentRecord: rec})
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].UploadDate.Equal(docs[j].UploadDate) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].UploadDate.Before(docs[j].UploadDate)
	})
	return docs
}

// Count returns the number of stored records.
func (s *DocumentStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// save serializes the mapping through a temp file and renames it over
// the old one, so a crash mid-write cannot truncate the store.
// Caller must hold the write lock.
func (s *DocumentStore) save() error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.docs); err != nil {
		return fmt.Errorf("failed to serialize document store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".documents-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write document store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp store file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace document store: %w", err)
	}
	return nil
}
