package main

import (
	"context"
	"flag"
	"log"

	"textbook-rag-platform/internal/ai"
	"textbook-rag-platform/internal/config"
	"textbook-rag-platform/internal/indexer"
	"textbook-rag-platform/internal/logger"
	"textbook-rag-platform/internal/vectorstore"
	"textbook-rag-platform/models"
)

// One-shot batch indexer: walks a markdown content tree, embeds every
// chunk, then uploads the points to Qdrant. Run once per language.
func main() {
	contentDir := flag.String("content-dir", "", "markdown content directory (defaults to the configured dir for --language)")
	collection := flag.String("collection", "", "Qdrant collection name (defaults to the configured collection for --language)")
	language := flag.String("language", "en", "content language: en or ur")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Init(cfg.LogLevel)

	lang, err := models.ParseLanguage(*language)
	if err != nil {
		log.Fatal("Invalid language:", err)
	}
	if *contentDir == "" {
		*contentDir = cfg.ContentDirFor(lang)
	}
	if *collection == "" {
		*collection = cfg.CollectionFor(lang)
	}

	ctx := context.Background()

	embedder, err := ai.NewEmbeddingService(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to create embedding service:", err)
	}
	defer embedder.Close()

	store := vectorstore.NewClient(cfg.QdrantURL, cfg.QdrantAPIKey)

	pipeline := indexer.New(embedder, store, indexer.Options{
		Collection:      *collection,
		Language:        lang,
		Dimension:       cfg.VectorDimensions,
		MaxChunkSize:    cfg.MaxChunkSize,
		MinChunkSize:    cfg.MinChunkSize,
		UploadBatchSize: cfg.UploadBatchSize,
	})

	stats, err := pipeline.Run(ctx, *contentDir)
	if err != nil {
		log.Fatal("Indexing failed:", err)
	}

	log.Printf("Indexing complete: %d files, %d chunks, %d points uploaded to %s",
		stats.Files, stats.Chunks, stats.Points, *collection)
}
