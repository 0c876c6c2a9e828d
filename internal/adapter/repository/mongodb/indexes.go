package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const indexTimeout = 10 * time.Second

func ensureIndexes(collection *mongo.Collection, indexes []mongo.IndexModel, log *logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes", zap.String("collection", collection.Name()), zap.Error(err))
		return fmt.Errorf("create indexes for %s: %w", collection.Name(), err)
	}
	log.Info("Ensured indexes", zap.String("collection", collection.Name()), zap.Int("count", len(indexes)))
	return nil
}
