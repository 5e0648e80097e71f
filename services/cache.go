package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"textbook-rag-platform/internal/logger"
	"textbook-rag-platform/models"

	"github.com/redis/go-redis/v9"
)

// AnswerCache memoizes completed answers in Redis keyed by language and a
// hash of the question. It fails open: any Redis error reads as a miss.
type AnswerCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAnswerCache(rdb *redis.Client, ttl time.Duration) *AnswerCache {
	return &AnswerCache{rdb: rdb, ttl: ttl}
}

func (c *AnswerCache) Get(ctx context.Context, language models.Language, question string) (*models.ChatResponse, bool) {
	data, err := c.rdb.Get(ctx, cacheKey(language, question)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("answer cache read failed", "error", err)
		}
		return nil, false
	}

	var resp models.ChatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		logger.Warn("answer cache entry corrupt", "error", err)
		return nil, false
	}
	return &resp, true
}

func (c *AnswerCache) Set(ctx context.Context, language models.Language, question string, resp *models.ChatResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(language, question), data, c.ttl).Err(); err != nil {
		logger.Warn("answer cache write failed", "error", err)
	}
}

func cacheKey(language models.Language, question string) string {
	sum := sha256.Sum256([]byte(question))
	return fmt.Sprintf("answer:%s:%s", language, hex.EncodeToString(sum[:]))
}
