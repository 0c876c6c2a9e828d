package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"go.uber.org/zap"
)

type ListingUsecase struct {
	listings  domain.ListingRepository
	profiles  domain.ProfileRepository
	cache     domain.ListingCache
	publisher domain.EventPublisher
	logger    *logger.Logger
	now       Clock
	newID     IDGenerator
}

func NewListingUsecase(
	listings domain.ListingRepository,
	profiles domain.ProfileRepository,
	cache domain.ListingCache,
	publisher domain.EventPublisher,
	log *logger.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		listings:  listings,
		profiles:  profiles,
		cache:     cache,
		publisher: publisher,
		logger:    log.Named("ListingUsecase"),
		now:       systemClock,
		newID:     newUUID,
	}
}

// CreateListing submits a new listing for moderation. The status is always
// pending and the seller contact is copied from the owner's profile.
func (uc *ListingUsecase) CreateListing(ctx context.Context, actor domain.Actor, fields domain.ListingFields) (*domain.Listing, error) {
	uc.logger.Info("Creating listing", zap.String("owner_id", actor.UserID), zap.String("brand", fields.Brand), zap.String("model", fields.Model))

	fields.Normalize()
	now := uc.now()
	if err := fields.Validate(now); err != nil {
		uc.logger.Warn("Rejected invalid listing", zap.String("owner_id", actor.UserID), zap.Error(err))
		return nil, err
	}

	owner, err := uc.profiles.FindByID(ctx, actor.UserID)
	if err != nil {
		uc.logger.Error("Failed to load owner profile", zap.String("owner_id", actor.UserID), zap.Error(err))
		return nil, err
	}

	listing := domain.NewListing(uc.newID(), owner, fields, now)
	if err := uc.listings.Create(ctx, listing); err != nil {
		uc.logger.Error("Failed to create listing", zap.String("owner_id", actor.UserID), zap.Error(err))
		return nil, err
	}

	publishEvent(ctx, uc.publisher, uc.logger, domain.SubjectListingCreated, domain.ListingEvent{
		ListingID: listing.ID, OwnerID: listing.OwnerID, Status: listing.Status, At: now,
	})
	uc.logger.Info("Listing created", zap.String("listing_id", listing.ID))
	return listing, nil
}

// GetListing returns a listing. Listings outside the public browse set are
// reported as missing to anyone but their owner and administrators.
func (uc *ListingUsecase) GetListing(ctx context.Context, actor domain.Actor, id string) (*domain.Listing, error) {
	listing, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !listing.VisibleTo(actor) {
		uc.logger.Warn("Listing hidden from caller", zap.String("listing_id", id), zap.String("user_id", actor.UserID))
		return nil, domain.ErrListingNotFound
	}
	return listing, nil
}

// ListApproved returns the public browse set narrowed by filter.
func (uc *ListingUsecase) ListApproved(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error) {
	listings, err := uc.listings.FindByStatus(ctx, domain.StatusApproved)
	if err != nil {
		uc.logger.Error("Failed to fetch approved listings", zap.Error(err))
		return nil, err
	}
	if filter.IsZero() {
		return listings, nil
	}
	return filter.Apply(listings), nil
}

// ListPending returns the moderation queue.
func (uc *ListingUsecase) ListPending(ctx context.Context, actor domain.Actor) ([]*domain.Listing, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: moderation queue requires admin role", domain.ErrForbidden)
	}
	listings, err := uc.listings.FindByStatus(ctx, domain.StatusPending)
	if err != nil {
		uc.logger.Error("Failed to fetch pending listings", zap.Error(err))
		return nil, err
	}
	return listings, nil
}

func (uc *ListingUsecase) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	listings, err := uc.listings.FindByOwner(ctx, ownerID)
	if err != nil {
		uc.logger.Error("Failed to fetch owner listings", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	return listings, nil
}

// UpdateListing overwrites the editable fields of a pending or approved
// listing. Status and owner never change here.
func (uc *ListingUsecase) UpdateListing(ctx context.Context, actor domain.Actor, id string, fields domain.ListingFields) (*domain.Listing, error) {
	uc.logger.Info("Updating listing", zap.String("listing_id", id), zap.String("user_id", actor.UserID))

	listing, err := uc.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != actor.UserID {
		uc.logger.Warn("Forbidden listing update", zap.String("listing_id", id), zap.String("owner_id", listing.OwnerID), zap.String("user_id", actor.UserID))
		return nil, fmt.Errorf("%w: only the owner can edit a listing", domain.ErrForbidden)
	}
	if !listing.Status.Editable() {
		return nil, fmt.Errorf("%w: %s listings cannot be edited", domain.ErrInvalidTransition, listing.Status)
	}

	fields.Normalize()
	now := uc.now()
	if err := fields.Validate(now); err != nil {
		return nil, err
	}

	listing.Apply(fields, now)
	if err := uc.listings.Update(ctx, listing); err != nil {
		uc.logger.Error("Failed to update listing", zap.String("listing_id", id), zap.Error(err))
		return nil, err
	}
	uc.invalidate(ctx, id)

	publishEvent(ctx, uc.publisher, uc.logger, domain.SubjectListingUpdated, domain.ListingEvent{
		ListingID: listing.ID, OwnerID: listing.OwnerID, Status: listing.Status, At: now,
	})
	return listing, nil
}

func (uc *ListingUsecase) ApproveListing(ctx context.Context, actor domain.Actor, id string) (*domain.Listing, error) {
	return uc.moderate(ctx, actor, id, domain.StatusApproved)
}

func (uc *ListingUsecase) RejectListing(ctx context.Context, actor domain.Actor, id string) (*domain.Listing, error) {
	return uc.moderate(ctx, actor, id, domain.StatusRejected)
}

func (uc *ListingUsecase) moderate(ctx context.Context, actor domain.Actor, id string, to domain.ListingStatus) (*domain.Listing, error) {
	uc.logger.Info("Moderating listing", zap.String("listing_id", id), zap.String("status", string(to)), zap.String("admin_id", actor.UserID))

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: moderation requires admin role", domain.ErrForbidden)
	}

	listing, err := uc.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !listing.Status.CanTransitionTo(to) {
		uc.logger.Warn("Refused moderation of non-pending listing", zap.String("listing_id", id), zap.String("current", string(listing.Status)))
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, listing.Status, to)
	}

	now := uc.now()
	if err := uc.listings.TransitionStatus(ctx, id, listing.Status, to, now); err != nil {
		if !errors.Is(err, domain.ErrInvalidTransition) && !errors.Is(err, domain.ErrNotFound) {
			uc.logger.Error("Failed to moderate listing", zap.String("listing_id", id), zap.Error(err))
		}
		return nil, err
	}
	listing.Status = to
	listing.UpdatedAt = now
	uc.invalidate(ctx, id)

	subject := domain.SubjectListingApproved
	if to == domain.StatusRejected {
		subject = domain.SubjectListingRejected
	}
	publishEvent(ctx, uc.publisher, uc.logger, subject, domain.ListingModeratedEvent{
		ListingID:   listing.ID,
		OwnerID:     listing.OwnerID,
		Title:       listing.Title(),
		SellerName:  listing.Seller.Name,
		SellerEmail: listing.Seller.Email,
		Status:      to,
		ModeratedBy: actor.UserID,
		At:          now,
	})
	return listing, nil
}

// DeleteListing removes a listing in any status. Owners and administrators
// may delete. Favorites pointing at the listing are left in place.
func (uc *ListingUsecase) DeleteListing(ctx context.Context, actor domain.Actor, id string) error {
	uc.logger.Info("Deleting listing", zap.String("listing_id", id), zap.String("user_id", actor.UserID))

	listing, err := uc.listings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.OwnerID != actor.UserID && !actor.IsAdmin() {
		uc.logger.Warn("Forbidden listing delete", zap.String("listing_id", id), zap.String("user_id", actor.UserID))
		return fmt.Errorf("%w: only the owner or an admin can delete a listing", domain.ErrForbidden)
	}

	if err := uc.listings.Delete(ctx, id); err != nil {
		uc.logger.Error("Failed to delete listing", zap.String("listing_id", id), zap.Error(err))
		return err
	}
	uc.invalidate(ctx, id)

	publishEvent(ctx, uc.publisher, uc.logger, domain.SubjectListingDeleted, domain.ListingEvent{
		ListingID: listing.ID, OwnerID: listing.OwnerID, Status: listing.Status, At: uc.now(),
	})
	return nil
}

func (uc *ListingUsecase) load(ctx context.Context, id string) (*domain.Listing, error) {
	cached, err := uc.cache.Get(ctx, id)
	if err != nil {
		uc.logger.Warn("Listing cache read failed", zap.String("listing_id", id), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	listing, err := uc.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Set(ctx, listing); err != nil {
		uc.logger.Warn("Listing cache write failed", zap.String("listing_id", id), zap.Error(err))
	}
	return listing, nil
}

func (uc *ListingUsecase) invalidate(ctx context.Context, id string) {
	if err := uc.cache.Delete(ctx, id); err != nil {
		uc.logger.Warn("Listing cache invalidation failed", zap.String("listing_id", id), zap.Error(err))
	}
}
