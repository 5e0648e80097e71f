package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"textbook-rag-platform/models"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	GinMode     string
	CORSOrigins []string

	// Gemini provider (embeddings + generation)
	GeminiAPIKey          string
	GoogleEmbeddingsModel string
	GenerationModel       string
	GenerationRPM         int
	MaxAnswerTokens       int

	// Qdrant vector index
	QdrantURL        string
	QdrantAPIKey     string
	VectorDimensions int
	CollectionEN     string
	CollectionUR     string

	// Retrieval / chunking policy
	MaxContextChunks   int
	MinSimilarityScore float64
	MaxChunkSize       int
	MinChunkSize       int
	EmbedBatchSize     int
	EmbedBatchDelay    time.Duration
	UploadBatchSize    int

	// Redis (answer cache, request rate limiting, asynq)
	RedisURL      string
	RedisPassword string
	RedisDB       int
	CacheEnabled  bool
	CacheTTL      time.Duration

	// MongoDB (exchange history)
	MongoURI       string
	DBName         string
	HistoryEnabled bool

	// HTTP rate limiting
	RateLimitReqs   int
	RateLimitWindow int

	// Worker
	ReindexCron  string
	ContentDirEN string
	ContentDirUR string

	// Telemetry / logging
	OTLPEndpoint string
	LogLevel     string
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8002"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),

		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GoogleEmbeddingsModel: getEnv("GOOGLE_EMBEDDINGS_MODEL", "text-embedding-004"),
		GenerationModel:       getEnv("GENERATION_MODEL", "gemini-2.0-flash"),
		GenerationRPM:         getEnvInt("GENERATION_RPM", 10),
		MaxAnswerTokens:       getEnvInt("MAX_ANSWER_TOKENS", 2000),

		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantAPIKey:     getEnv("QDRANT_API_KEY", ""),
		VectorDimensions: getEnvInt("VECTOR_DIM", 768),
		CollectionEN:     getEnv("QDRANT_COLLECTION_EN", "textbook_en"),
		CollectionUR:     getEnv("QDRANT_COLLECTION_UR", "textbook_ur"),

		MaxContextChunks:   getEnvInt("MAX_CONTEXT_CHUNKS", 5),
		MinSimilarityScore: getEnvFloat64("MIN_SIMILARITY_SCORE", 0.5),
		MaxChunkSize:       getEnvInt("MAX_CHUNK_SIZE", 2000),
		MinChunkSize:       getEnvInt("MIN_CHUNK_SIZE", 50),
		EmbedBatchSize:     getEnvInt("EMBED_BATCH_SIZE", 20),
		EmbedBatchDelay:    time.Duration(getEnvInt("EMBED_BATCH_DELAY_MS", 700)) * time.Millisecond,
		UploadBatchSize:    getEnvInt("UPLOAD_BATCH_SIZE", 100),

		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheEnabled:  getEnvBool("ANSWER_CACHE_ENABLED", false),
		CacheTTL:      time.Duration(getEnvInt("ANSWER_CACHE_TTL_SECONDS", 3600)) * time.Second,

		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017/textbook_rag"),
		DBName:         getEnv("DB_NAME", "textbook_rag"),
		HistoryEnabled: getEnvBool("EXCHANGE_HISTORY_ENABLED", false),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		ReindexCron:  getEnv("REINDEX_CRON", ""),
		ContentDirEN: getEnv("CONTENT_DIR_EN", "./content/en"),
		ContentDirUR: getEnv("CONTENT_DIR_UR", "./content/ur"),

		OTLPEndpoint: getEnv("OTLP_ENDPOINT", "localhost:4317"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required - set it in .env file")
	}

	return cfg, nil
}

// CollectionFor maps a language to its Qdrant collection name.
func (c *Config) CollectionFor(language models.Language) string {
	if language == models.LanguageUrdu {
		return c.CollectionUR
	}
	return c.CollectionEN
}

// ContentDirFor maps a language to its markdown content directory.
func (c *Config) ContentDirFor(language models.Language) string {
	if language == models.LanguageUrdu {
		return c.ContentDirUR
	}
	return c.ContentDirEN
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
