package main

import (
	"context"
	"log"
	"time"

	"textbook-rag-platform/internal/ai"
	"textbook-rag-platform/internal/config"
	"textbook-rag-platform/internal/logger"
	"textbook-rag-platform/internal/queue"
	"textbook-rag-platform/internal/vectorstore"
	"textbook-rag-platform/models"

	"github.com/go-co-op/gocron"
	"github.com/hibiken/asynq"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Init(cfg.LogLevel)

	ctx := context.Background()

	embedder, err := ai.NewEmbeddingService(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to create embedding service:", err)
	}
	defer embedder.Close()

	store := vectorstore.NewClient(cfg.QdrantURL, cfg.QdrantAPIKey)

	// Redis options for Asynq
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	// Indexing tasks share one embedding quota, so run them serially.
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("Task failed: %s, error: %v", task.Type(), err)
			}),
		},
	)

	// Create task processor
	processor := queue.NewTaskProcessor(cfg, embedder, store)

	// Create mux and register handlers
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskIndexContent, processor.HandleIndexContent)

	// Periodic reindex enqueues one task per language on the configured cron.
	if cfg.ReindexCron != "" {
		client := asynq.NewClient(redisOpt)
		defer client.Close()

		scheduler := gocron.NewScheduler(time.UTC)
		_, err := scheduler.Cron(cfg.ReindexCron).Do(func() {
			for _, lang := range models.Languages {
				task, err := queue.NewIndexContentTask(cfg.ContentDirFor(lang), cfg.CollectionFor(lang), string(lang))
				if err != nil {
					log.Printf("Failed to build reindex task for %s: %v", lang, err)
					continue
				}
				info, err := client.Enqueue(task)
				if err != nil {
					log.Printf("Failed to enqueue reindex for %s: %v", lang, err)
					continue
				}
				log.Printf("Enqueued reindex: id=%s language=%s", info.ID, lang)
			}
		})
		if err != nil {
			log.Fatal("Failed to schedule reindex:", err)
		}
		scheduler.StartAsync()
		log.Printf("Reindex scheduled: %s", cfg.ReindexCron)
	}

	log.Println("Starting Asynq worker...")
	log.Printf("   Redis: %s", redisOpt.Addr)

	// Start the server
	if err := server.Run(mux); err != nil {
		log.Fatal("Failed to start worker:", err)
	}
}
