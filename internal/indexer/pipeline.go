// Package indexer populates a language-specific vector collection from a
// tree of markdown chapters.
package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"textbook-rag-platform/internal/logger"
	"textbook-rag-platform/internal/markdown"
	"textbook-rag-platform/internal/vectorstore"
	"textbook-rag-platform/models"
)

// DocumentEmbedder is the slice of the embedding gateway the pipeline
// needs: bulk document embedding with the gateway's own rate discipline.
type DocumentEmbedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// PointStore is the slice of the vector index client the pipeline needs.
type PointStore interface {
	EnsureCollection(ctx context.Context, name string, dimension int) error
	Upsert(ctx context.Context, collection string, points []vectorstore.Point) error
}

// Options configures one indexing run.
type Options struct {
	Collection      string
	Language        models.Language
	Dimension       int
	MaxChunkSize    int
	MinChunkSize    int
	UploadBatchSize int
}

// Stats summarizes a completed run.
type Stats struct {
	Files  int
	Chunks int
	Points int
}

// Pipeline orchestrates segmenting, chunking, embedding, and upserting.
// Embedding happens for the whole corpus before any upload so a provider
// failure aborts the run without leaving a partially refreshed collection.
type Pipeline struct {
	embedder DocumentEmbedder
	store    PointStore
	opts     Options
}

func New(embedder DocumentEmbedder, store PointStore, opts Options) *Pipeline {
	if opts.MaxChunkSize <= 0 {
		opts.MaxChunkSize = 2000
	}
	if opts.MinChunkSize <= 0 {
		opts.MinChunkSize = 50
	}
	if opts.UploadBatchSize <= 0 {
		opts.UploadBatchSize = 100
	}
	return &Pipeline{embedder: embedder, store: store, opts: opts}
}

type pendingChunk struct {
	id      uint64
	text    string
	payload vectorstore.Payload
}

// Run indexes every markdown file under contentDir into the configured
// collection. Point identifiers are a monotonic counter over the run, so
// re-running against an unchanged corpus with the same traversal order
// overwrites points in place.
func (p *Pipeline) Run(ctx context.Context, contentDir string) (*Stats, error) {
	if err := p.store.EnsureCollection(ctx, p.opts.Collection, p.opts.Dimension); err != nil {
		return nil, err
	}

	files, err := findMarkdownFiles(contentDir)
	if err != nil {
		return nil, err
	}

	var pending []pendingChunk
	var pointID uint64

	for _, path := range files {
		logger.Info("processing file", "path", path)

		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		chapterID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

		for _, section := range markdown.Segment(string(raw)) {
			for chunkIdx, chunk := range markdown.ChunkText(section.Content, p.opts.MaxChunkSize) {
				// Fragments below the minimum carry no retrievable signal.
				if len(strings.TrimSpace(chunk)) < p.opts.MinChunkSize {
					continue
				}

				pending = append(pending, pendingChunk{
					id:   pointID,
					text: chunk,
					payload: vectorstore.Payload{
						ChapterID:    chapterID,
						SectionID:    section.ID,
						SectionTitle: section.Title,
						Language:     p.opts.Language.String(),
						ChunkIndex:   chunkIdx,
						Content:      chunk,
					},
				})
				pointID++
			}
		}
	}

	logger.Info("chunks collected", "count", len(pending), "files", len(files))

	texts := make([]string, len(pending))
	for i, chunk := range pending {
		texts[i] = chunk.text
	}

	vectors, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding failed, aborting before upload: %w", err)
	}
	if len(vectors) != len(pending) {
		return nil, fmt.Errorf("expected %d vectors, got %d", len(pending), len(vectors))
	}

	points := make([]vectorstore.Point, len(pending))
	for i, chunk := range pending {
		points[i] = vectorstore.Point{
			ID:      chunk.id,
			Vector:  vectors[i],
			Payload: chunk.payload,
		}
	}

	for start := 0; start < len(points); start += p.opts.UploadBatchSize {
		end := start + p.opts.UploadBatchSize
		if end > len(points) {
			end = len(points)
		}
		if err := p.store.Upsert(ctx, p.opts.Collection, points[start:end]); err != nil {
			return nil, err
		}
		logger.Info("uploaded points", "done", end, "total", len(points))
	}

	return &Stats{Files: len(files), Chunks: len(pending), Points: len(points)}, nil
}

// findMarkdownFiles enumerates *.md files recursively in sorted order.
// Sorting keeps point identifiers stable across runs on the same corpus.
func findMarkdownFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".md") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
