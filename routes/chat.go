package routes

import (
	"context"
	"io"
	"net/http"
	"time"

	"textbook-rag-platform/internal/logger"
	"textbook-rag-platform/models"
	"textbook-rag-platform/utils"

	"github.com/gin-gonic/gin"
)

// ChatAnswerer is what the handlers need from the chat service.
type ChatAnswerer interface {
	Ask(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
	AskStream(ctx context.Context, req models.ChatRequest) (<-chan string, *models.ChatResponse, error)
}

// HealthProbes bundles the liveness checks exposed on /health.
type HealthProbes struct {
	Embeddings func(ctx context.Context) bool
	Index      func(ctx context.Context) bool
}

// SetupChatRoutes registers the question-answering endpoints.
func SetupChatRoutes(router *gin.Engine, chat ChatAnswerer) {
	group := router.Group("/chat")
	group.POST("/question", askQuestion(chat))
	group.POST("/question/stream", askQuestionStream(chat))
}

// SetupHealthRoutes registers the health endpoint.
func SetupHealthRoutes(router *gin.Engine, probes HealthProbes) {
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		indexUp := probes.Index == nil || probes.Index(ctx)
		embeddingsUp := probes.Embeddings == nil || probes.Embeddings(ctx)

		status := "ok"
		if !indexUp || !embeddingsUp {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     status,
			"qdrant":     statusWord(indexUp),
			"embeddings": statusWord(embeddingsUp),
			"timestamp":  time.Now(),
		})
	})
}

func askQuestion(chat ChatAnswerer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		resp, err := chat.Ask(c.Request.Context(), req)
		if err != nil {
			logger.Error("failed to answer question", "error", err)
			utils.RespondWithUnavailable(c, "Failed to process question")
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func askQuestionStream(chat ChatAnswerer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		stream, outOfScope, err := chat.AskStream(c.Request.Context(), req)
		if err != nil {
			logger.Error("failed to start answer stream", "error", err)
			utils.RespondWithUnavailable(c, "Failed to process question")
			return
		}

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")

		if outOfScope != nil {
			c.SSEvent("message", outOfScope.Answer)
			c.Writer.Flush()
			return
		}

		// Each increment is forwarded the moment it arrives; nothing is
		// buffered. A closed channel ends the response.
		c.Stream(func(w io.Writer) bool {
			fragment, ok := <-stream
			if !ok {
				return false
			}
			c.SSEvent("message", fragment)
			return true
		})
	}
}

func statusWord(up bool) string {
	if up {
		return "connected"
	}
	return "disconnected"
}
