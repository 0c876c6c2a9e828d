package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const listingCollectionName = "listings"

type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewListingRepository(db *mongo.Database, log *logger.Logger) (*ListingRepository, error) {
	log = log.Named("ListingRepository")
	collection := db.Collection(listingCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
	}
	if err := ensureIndexes(collection, indexes, log); err != nil {
		return nil, err
	}
	return &ListingRepository{collection: collection, logger: log}, nil
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	r.logger.Debug("Inserting listing", zap.String("listing_id", listing.ID))
	if _, err := r.collection.InsertOne(ctx, fromDomainListing(listing)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		r.logger.Error("Failed to insert listing", zap.String("listing_id", listing.ID), zap.Error(err))
		return domain.BackendError("insert listing", err)
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	var doc listingDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		r.logger.Error("Failed to find listing", zap.String("listing_id", id), zap.Error(err))
		return nil, domain.BackendError("find listing", err)
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) FindByStatus(ctx context.Context, status domain.ListingStatus) ([]*domain.Listing, error) {
	return r.find(ctx, bson.M{"status": string(status)})
}

func (r *ListingRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID})
}

func (r *ListingRepository) find(ctx context.Context, filter bson.M) ([]*domain.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to query listings", zap.Any("filter", filter), zap.Error(err))
		return nil, domain.BackendError("find listings", err)
	}
	defer cursor.Close(ctx)

	var docs []listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode listings", zap.Any("filter", filter), zap.Error(err))
		return nil, domain.BackendError("decode listings", err)
	}
	listings := make([]*domain.Listing, 0, len(docs))
	for i := range docs {
		listings = append(listings, docs[i].toDomain())
	}
	return listings, nil
}

func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	doc := fromDomainListing(listing)
	update := bson.M{
		"$set": bson.M{
			"brand":        doc.Brand,
			"model":        doc.Model,
			"year":         doc.Year,
			"price":        doc.Price,
			"mileage":      doc.Mileage,
			"fuel_type":    doc.FuelType,
			"transmission": doc.Transmission,
			"description":  doc.Description,
			"images":       doc.Images,
			"updated_at":   doc.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": listing.ID}, update)
	if err != nil {
		r.logger.Error("Failed to update listing", zap.String("listing_id", listing.ID), zap.Error(err))
		return domain.BackendError("update listing", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// TransitionStatus only matches a document whose stored status is still from,
// so two admins moderating the same listing cannot both succeed.
func (r *ListingRepository) TransitionStatus(ctx context.Context, id string, from, to domain.ListingStatus, at time.Time) error {
	filter := bson.M{"_id": id, "status": string(from)}
	update := bson.M{"$set": bson.M{"status": string(to), "updated_at": at}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to transition listing", zap.String("listing_id", id), zap.Error(err))
		return domain.BackendError("transition listing", err)
	}
	if result.MatchedCount == 1 {
		return nil
	}

	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return domain.BackendError("count listing", err)
	}
	if n == 0 {
		return domain.ErrListingNotFound
	}
	r.logger.Warn("Listing status changed concurrently", zap.String("listing_id", id), zap.String("expected", string(from)))
	return domain.ErrInvalidTransition
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete listing", zap.String("listing_id", id), zap.Error(err))
		return domain.BackendError("delete listing", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}
