package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Gon161/RAG-multi-documento/internal/domain"
)

// Embedder produces embedding vectors for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// embeddingBatchSize bounds how many chunks go to the provider per call.
const embeddingBatchSize = 16

// Index wraps an embedding function and a Qdrant collection so callers
// never touch raw vectors. It assumes cosine distance and creates the
// collection on first insert.
type Index struct {
	url        string
	apiKey     string
	collection string
	embedder   Embedder
	client     *http.Client
}

// Config configures the Qdrant connection.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// New creates an index adapter over the given Qdrant collection.
func New(cfg Config, embedder Embedder) *Index {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Index{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		embedder:   embedder,
		client:     &http.Client{Timeout: timeout},
	}
}

// pointID maps a chunk key ("{docId}_{index}") to a stable Qdrant point
// id. Qdrant only accepts integers or UUIDs, so the key is hashed into
// a deterministic UUID; the key itself lives in the payload.
func pointID(chunkKey string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(chunkKey)).String()
}

// Add embeds each chunk and stores it under the key "{docID}_{i}" with
// metadata {source, doc_id, chunk}. Points are written with wait=true,
// so the index persists each batch immediately; there is no rollback
// if a later batch fails after earlier ones were committed.
func (x *Index) Add(ctx context.Context, docID, fileName string, chunks []string) error {
	for offset := 0; offset < len(chunks); offset += embeddingBatchSize {
		end := offset + embeddingBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[offset:end]

		vectors, err := x.embedder.EmbedBatch(ctx, batch)
		if err != nil {
			return err
		}
		if offset == 0 && len(vectors) > 0 {
			if err := x.ensureCollection(ctx, len(vectors[0])); err != nil {
				return err
			}
		}

		points := make([]map[string]any, len(batch))
		for i := range batch {
			idx := offset + i
			key := fmt.Sprintf("%s_%d", docID, idx)
			points[i] = map[string]any{
				"id":     pointID(key),
				"vector": vectors[i],
				"payload": map[string]any{
					"chunk_key": key,
					"source":    fileName,
					"doc_id":    docID,
					"chunk":     idx,
					"text":      batch[i],
				},
			}
		}

		body := map[string]any{"points": points}
		url := fmt.Sprintf("%s/collections/%s/points?wait=true", x.url, x.collection)
		if err := x.do(ctx, http.MethodPut, url, body, nil); err != nil {
			return &domain.UpstreamServiceError{Service: "vector index", Err: err}
		}
	}
	return nil
}

// Search returns the top-k chunks nearest to query, optionally
// restricted to the given document ids.
func (x *Index) Search(ctx context.Context, query string, k int, docIDs []string) ([]domain.ScoredChunk, error) {
	if k <= 0 {
		k = 6
	}

	vector, err := x.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	if len(docIDs) > 0 {
		req["filter"] = map[string]any{
			"must": []map[string]any{
				{"key": "doc_id", "match": map[string]any{"any": docIDs}},
			},
		}
	}

	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", x.url, x.collection)
	if err := x.do(ctx, http.MethodPost, url, req, &resp); err != nil {
		if isNotFound(err) {
			// Nothing indexed yet.
			return nil, nil
		}
		return nil, &domain.UpstreamServiceError{Service: "vector index", Err: err}
	}

	results := make([]domain.ScoredChunk, 0, len(resp.Result))
	for _, r := range resp.Result {
		chunk := domain.ScoredChunk{Score: r.Score}
		if v, ok := r.Payload["chunk_key"].(string); ok {
			chunk.Key = v
		}
		if v, ok := r.Payload["doc_id"].(string); ok {
			chunk.DocID = v
		}
		if v, ok := r.Payload["source"].(string); ok {
			chunk.Source = v
		}
		if v, ok := r.Payload["chunk"].(float64); ok {
			chunk.Index = int(v)
		}
		if v, ok := r.Payload["text"].(string); ok {
			chunk.Text = v
		}
		results = append(results, chunk)
	}
	return results, nil
}

// Delete removes chunk entries by key. Keys absent from the index are
// a no-op, not an error.
func (x *Index) Delete(ctx context.Context, chunkKeys []string) error {
	if len(chunkKeys) == 0 {
		return nil
	}
	ids := make([]string, len(chunkKeys))
	for i, key := range chunkKeys {
		ids[i] = pointID(key)
	}
	body := map[string]any{"points": ids}
	url := fmt.Sprintf("%s/collections/%s/points/delete?wait=true", x.url, x.collection)
	if err := x.do(ctx, http.MethodPost, url, body, nil); err != nil {
		if isNotFound(err) {
			return nil
		}
		return &domain.UpstreamServiceError{Service: "vector index", Err: err}
	}
	return nil
}

// ensureCollection creates the collection if it does not exist.
func (x *Index) ensureCollection(ctx context.Context, dimension int) error {
	url := fmt.Sprintf("%s/collections/%s", x.url, x.collection)
	if err := x.do(ctx, http.MethodGet, url, nil, nil); err == nil {
		return nil
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	if err := x.do(ctx, http.MethodPut, url, body, nil); err != nil {
		return &domain.UpstreamServiceError{Service: "vector index", Err: err}
	}
	return nil
}

type httpStatusError struct {
	status int
	url    string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("qdrant request to %s failed with status %d", e.url, e.status)
}

func isNotFound(err error) bool {
	statusErr, ok := err.(*httpStatusError)
	return ok && statusErr.status == http.StatusNotFound
}

func (x *Index) do(ctx context.Context, method, url string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal qdrant request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build qdrant request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if x.apiKey != "" {
		req.Header.Set("api-key", x.apiKey)
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &httpStatusError{status: resp.StatusCode, url: url}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
