package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const profileCollectionName = "users"

type ProfileRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewProfileRepository(db *mongo.Database, log *logger.Logger) (*ProfileRepository, error) {
	log = log.Named("ProfileRepository")
	collection := db.Collection(profileCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	if err := ensureIndexes(collection, indexes, log); err != nil {
		return nil, err
	}
	return &ProfileRepository{collection: collection, logger: log}, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	if _, err := r.collection.InsertOne(ctx, fromDomainProfile(profile)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("profile %w", domain.ErrDuplicate)
		}
		r.logger.Error("Failed to insert profile", zap.String("user_id", profile.UserID), zap.Error(err))
		return domain.BackendError("insert profile", err)
	}
	return nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, userID string) (*domain.Profile, error) {
	var doc profileDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		r.logger.Error("Failed to find profile", zap.String("user_id", userID), zap.Error(err))
		return nil, domain.BackendError("find profile", err)
	}
	return doc.toDomain(), nil
}

func (r *ProfileRepository) FindAll(ctx context.Context) ([]*domain.Profile, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		r.logger.Error("Failed to list profiles", zap.Error(err))
		return nil, domain.BackendError("find profiles", err)
	}
	defer cursor.Close(ctx)

	var docs []profileDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, domain.BackendError("decode profiles", err)
	}
	profiles := make([]*domain.Profile, 0, len(docs))
	for i := range docs {
		profiles = append(profiles, docs[i].toDomain())
	}
	return profiles, nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	update := bson.M{"$set": bson.M{
		"first_name": profile.FirstName,
		"last_name":  profile.LastName,
		"phone":      profile.Phone,
		"updated_at": profile.UpdatedAt,
	}}
	return r.updateOne(ctx, profile.UserID, update, "update profile")
}

func (r *ProfileRepository) UpdateRole(ctx context.Context, userID string, role domain.Role, at time.Time) error {
	update := bson.M{"$set": bson.M{"role": string(role), "updated_at": at}}
	return r.updateOne(ctx, userID, update, "update role")
}

func (r *ProfileRepository) updateOne(ctx context.Context, userID string, update bson.M, op string) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		r.logger.Error("Failed to update profile", zap.String("user_id", userID), zap.String("op", op), zap.Error(err))
		return domain.BackendError(op, err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepository) Delete(ctx context.Context, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		r.logger.Error("Failed to delete profile", zap.String("user_id", userID), zap.Error(err))
		return domain.BackendError("delete profile", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}
