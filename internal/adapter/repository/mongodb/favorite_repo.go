package mongodb

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const favoriteCollectionName = "favorites"

type FavoriteRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewFavoriteRepository ensures the unique (user_id, listing_id) index that
// backs the duplicate check.
func NewFavoriteRepository(db *mongo.Database, log *logger.Logger) (*FavoriteRepository, error) {
	log = log.Named("FavoriteRepository")
	collection := db.Collection(favoriteCollectionName)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "listing_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("user_listing_unique"),
		},
	}
	if err := ensureIndexes(collection, indexes, log); err != nil {
		return nil, err
	}
	return &FavoriteRepository{collection: collection, logger: log}, nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, listingID string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID, "listing_id": listingID}, options.Count().SetLimit(1))
	if err != nil {
		r.logger.Error("Failed to check favorite", zap.String("user_id", userID), zap.String("listing_id", listingID), zap.Error(err))
		return false, domain.BackendError("count favorites", err)
	}
	return n > 0, nil
}

func (r *FavoriteRepository) Add(ctx context.Context, favorite *domain.Favorite) error {
	if _, err := r.collection.InsertOne(ctx, fromDomainFavorite(favorite)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate favorite rejected by index", zap.String("user_id", favorite.UserID), zap.String("listing_id", favorite.ListingID))
			return domain.ErrAlreadyFavorited
		}
		r.logger.Error("Failed to insert favorite", zap.String("user_id", favorite.UserID), zap.Error(err))
		return domain.BackendError("insert favorite", err)
	}
	return nil
}

func (r *FavoriteRepository) FindIDs(ctx context.Context, userID, listingID string) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID, "listing_id": listingID}, opts)
	if err != nil {
		return nil, domain.BackendError("find favorites", err)
	}
	defer cursor.Close(ctx)

	var docs []favoriteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, domain.BackendError("decode favorites", err)
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (r *FavoriteRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		r.logger.Error("Failed to delete favorite", zap.String("favorite_id", id), zap.Error(err))
		return domain.BackendError("delete favorite", err)
	}
	return nil
}

func (r *FavoriteRepository) ListingIDsByUser(ctx context.Context, userID string) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"listing_id": 1}).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		r.logger.Error("Failed to list favorites", zap.String("user_id", userID), zap.Error(err))
		return nil, domain.BackendError("find favorites", err)
	}
	defer cursor.Close(ctx)

	var docs []favoriteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, domain.BackendError("decode favorites", err)
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ListingID)
	}
	return ids, nil
}
