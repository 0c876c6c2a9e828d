package mongodb

import (
	"context"
	"errors"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/identity/local"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const credentialCollectionName = "credentials"

// CredentialRepository stores password hashes for the local identity provider.
type CredentialRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewCredentialRepository(db *mongo.Database, log *logger.Logger) (*CredentialRepository, error) {
	log = log.Named("CredentialRepository")
	collection := db.Collection(credentialCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
	}
	if err := ensureIndexes(collection, indexes, log); err != nil {
		return nil, err
	}
	return &CredentialRepository{collection: collection, logger: log}, nil
}

func (r *CredentialRepository) Create(ctx context.Context, cred *local.Credential) error {
	if _, err := r.collection.InsertOne(ctx, fromCredential(cred)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailInUse
		}
		r.logger.Error("Failed to insert credential", zap.String("user_id", cred.UserID), zap.Error(err))
		return domain.NewAuthError(domain.AuthUnknown, domain.BackendError("insert credential", err))
	}
	return nil
}

func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*local.Credential, error) {
	var doc credentialDocument
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to find credential", zap.Error(err))
		return nil, domain.BackendError("find credential", err)
	}
	return doc.toCredential(), nil
}

func (r *CredentialRepository) Delete(ctx context.Context, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		r.logger.Error("Failed to delete credential", zap.String("user_id", userID), zap.Error(err))
		return domain.BackendError("delete credential", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
