package services

import (
	"context"

	"textbook-rag-platform/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// HistoryStore persists answered exchanges for audit and analytics.
type HistoryStore struct {
	exchanges *mongo.Collection
}

func NewHistoryStore(client *mongo.Client, dbName string) *HistoryStore {
	return &HistoryStore{
		exchanges: client.Database(dbName).Collection("exchanges"),
	}
}

// Record inserts one exchange document.
func (h *HistoryStore) Record(ctx context.Context, exchange models.Exchange) error {
	_, err := h.exchanges.InsertOne(ctx, exchange)
	return err
}
