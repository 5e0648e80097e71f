package services

import (
	"context"
	"testing"
	"time"

	"textbook-rag-platform/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*AnswerCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewAnswerCache(rdb, time.Hour), mr
}

func TestAnswerCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	resp := &models.ChatResponse{
		Answer:   "A node is a process.",
		Language: "en",
		Sources: []models.SourceReference{
			{ChapterID: "chapter-02-ros2", SectionID: "nodes", URL: "/en/docs/chapter-02-ros2#nodes"},
		},
	}

	_, ok := cache.Get(ctx, models.LanguageEnglish, "what is a node?")
	assert.False(t, ok)

	cache.Set(ctx, models.LanguageEnglish, "what is a node?", resp)

	got, ok := cache.Get(ctx, models.LanguageEnglish, "what is a node?")
	require.True(t, ok)
	assert.Equal(t, resp, got)
}

func TestAnswerCacheKeyedByLanguage(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, models.LanguageEnglish, "what is a node?", &models.ChatResponse{Answer: "english"})

	_, ok := cache.Get(ctx, models.LanguageUrdu, "what is a node?")
	assert.False(t, ok)
}

func TestAnswerCacheEntriesExpire(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, models.LanguageEnglish, "what is a node?", &models.ChatResponse{Answer: "cached"})
	mr.FastForward(2 * time.Hour)

	_, ok := cache.Get(ctx, models.LanguageEnglish, "what is a node?")
	assert.False(t, ok)
}

func TestAnswerCacheFailsOpenWhenRedisDown(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	mr.Close()

	_, ok := cache.Get(ctx, models.LanguageEnglish, "anything at all")
	assert.False(t, ok)
	// Set must not panic or surface an error either.
	cache.Set(ctx, models.LanguageEnglish, "anything at all", &models.ChatResponse{Answer: "x"})
}

func TestAnswerCacheIgnoresCorruptEntries(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(cacheKey(models.LanguageEnglish, "broken"), "not json"))

	_, ok := cache.Get(ctx, models.LanguageEnglish, "broken")
	assert.False(t, ok)
}
