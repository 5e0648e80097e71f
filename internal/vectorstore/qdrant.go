// Package vectorstore is a minimal REST client to Qdrant. Collections are
// created with cosine distance; upserts are idempotent by point id.
package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"textbook-rag-platform/internal/logger"
	"textbook-rag-platform/models"
)

const defaultTimeout = 15 * time.Second

// Payload is the metadata stored alongside each vector. It mirrors
// models.RetrievedChunk minus the score.
type Payload struct {
	ChapterID    string `json:"chapter_id"`
	SectionID    string `json:"section_id"`
	SectionTitle string `json:"section_title"`
	Language     string `json:"language"`
	ChunkIndex   int    `json:"chunk_index"`
	Content      string `json:"content"`
}

// Point is one embedded chunk ready for upsert.
type Point struct {
	ID      uint64    `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload Payload   `json:"payload"`
}

// Client talks to a Qdrant server. It is safe for concurrent use.
type Client struct {
	url    string
	apiKey string
	client *http.Client
}

// NewClient creates a Qdrant client for the given server URL. The API key
// may be empty for unauthenticated local instances.
func NewClient(url, apiKey string) *Client {
	return &Client{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// EnsureCollection creates the named collection with cosine distance if it
// does not already exist. Safe to call on every run.
func (c *Client) EnsureCollection(ctx context.Context, name string, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid vector dimension: %d", dimension)
	}

	existing, err := c.listCollections(ctx)
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	for _, collection := range existing {
		if collection == name {
			return nil
		}
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s", name), body, nil); err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}
	logger.Info("created collection", "collection", name, "dimension", dimension)
	return nil
}

// Upsert inserts or overwrites points by id. Overwriting is intentional:
// re-running an indexing pass replaces stale points in place.
func (c *Client) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	body := map[string]any{"points": points}
	path := fmt.Sprintf("/collections/%s/points?wait=true", collection)
	if err := c.do(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("upsert %d points into %s: %w", len(points), collection, err)
	}
	return nil
}

// Search returns up to limit points scoring at or above scoreThreshold,
// ordered by descending similarity. Any failure degrades to an empty
// result set: retrieval misbehaving must read as "no context found",
// never crash a question.
func (c *Client) Search(ctx context.Context, collection string, vector []float32, limit int, scoreThreshold float32) []models.RetrievedChunk {
	body := map[string]any{
		"vector":          vector,
		"limit":           limit,
		"score_threshold": scoreThreshold,
		"with_payload":    true,
	}

	var resp struct {
		Result []struct {
			Score   float32 `json:"score"`
			Payload Payload `json:"payload"`
		} `json:"result"`
	}
	path := fmt.Sprintf("/collections/%s/points/search", collection)
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		logger.Error("vector search failed", "collection", collection, "error", err)
		return nil
	}

	chunks := make([]models.RetrievedChunk, 0, len(resp.Result))
	for _, hit := range resp.Result {
		chunks = append(chunks, models.RetrievedChunk{
			Score:        hit.Score,
			ChapterID:    hit.Payload.ChapterID,
			SectionID:    hit.Payload.SectionID,
			SectionTitle: hit.Payload.SectionTitle,
			Content:      hit.Payload.Content,
			Language:     hit.Payload.Language,
		})
	}
	return chunks
}

// HealthCheck returns true only if the server answers a collection listing.
func (c *Client) HealthCheck(ctx context.Context) bool {
	if _, err := c.listCollections(ctx); err != nil {
		logger.Warn("qdrant health check failed", "error", err)
		return false
	}
	return true
}

func (c *Client) listCollections(ctx context.Context) ([]string, error) {
	var resp struct {
		Result struct {
			Collections []struct {
				Name string `json:"name"`
			} `json:"collections"`
		} `json:"result"`
	}
	if err := c.do(ctx, http.MethodGet, "/collections", nil, &resp); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Result.Collections))
	for _, collection := range resp.Result.Collections {
		names = append(names, collection.Name)
	}
	return names, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("qdrant %s %s: %s: %s", method, path, resp.Status, string(data))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
