package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AccountUsecase removes a user together with everything they own.
type AccountUsecase struct {
	listings    domain.ListingRepository
	profiles    domain.ProfileRepository
	identities  domain.IdentityProvider
	auth        *AuthUsecase
	cache       domain.ListingCache
	publisher   domain.EventPublisher
	adminDelete bool
	logger      *logger.Logger
	now         Clock
}

// NewAccountUsecase wires the cascade. With adminDelete off, deleting another
// user leaves their identity in the provider.
func NewAccountUsecase(
	listings domain.ListingRepository,
	profiles domain.ProfileRepository,
	identities domain.IdentityProvider,
	auth *AuthUsecase,
	cache domain.ListingCache,
	publisher domain.EventPublisher,
	adminDelete bool,
	log *logger.Logger,
) *AccountUsecase {
	return &AccountUsecase{
		listings:    listings,
		profiles:    profiles,
		identities:  identities,
		auth:        auth,
		cache:       cache,
		publisher:   publisher,
		adminDelete: adminDelete,
		logger:      log.Named("AccountUsecase"),
		now:         systemClock,
	}
}

// DeleteUserCascade deletes the user's listings in parallel and waits for
// all of them, then the profile, then the identity. A failure after earlier
// steps were applied is reported as *domain.PartialFailureError.
func (uc *AccountUsecase) DeleteUserCascade(ctx context.Context, actor domain.Actor, userID string) error {
	log := uc.logger.With(zap.String("user_id", userID), zap.String("actor_id", actor.UserID))
	log.Info("Deleting user")

	self := actor.IsSelf(userID)
	if !self && !actor.IsAdmin() {
		return fmt.Errorf("%w: only the user or an admin can delete an account", domain.ErrForbidden)
	}

	owned, err := uc.listings.FindByOwner(ctx, userID)
	if err != nil {
		log.Error("Failed to fetch listings for cascade", zap.Error(err))
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, l := range owned {
		id := l.ID
		g.Go(func() error {
			// a listing removed concurrently is already gone
			if err := uc.listings.Delete(gctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("Listing batch delete failed", zap.Int("listings", len(owned)), zap.Error(err))
		if len(owned) > 1 {
			return &domain.PartialFailureError{Step: "delete listings", Cause: err}
		}
		return err
	}
	for _, l := range owned {
		if err := uc.cache.Delete(ctx, l.ID); err != nil {
			log.Warn("Listing cache invalidation failed", zap.String("listing_id", l.ID), zap.Error(err))
		}
	}

	if err := uc.profiles.Delete(ctx, userID); err != nil {
		log.Error("Profile delete failed", zap.Error(err))
		if len(owned) > 0 {
			return &domain.PartialFailureError{Step: "delete profile", Cause: err}
		}
		return err
	}

	identityDeleted, err := uc.deleteIdentity(ctx, actor, userID, self)
	if err != nil {
		log.Error("Identity delete failed after profile removal", zap.Error(err))
		return &domain.PartialFailureError{Step: "delete identity", Cause: err}
	}
	if !identityDeleted {
		log.Warn("Identity left in provider after admin deletion")
	}

	publishEvent(ctx, uc.publisher, log, domain.SubjectUserDeleted, domain.UserDeletedEvent{
		UserID:          userID,
		DeletedBy:       actor.UserID,
		ListingsDeleted: len(owned),
		IdentityDeleted: identityDeleted,
		At:              uc.now(),
	})
	log.Info("User deleted", zap.Int("listings_deleted", len(owned)), zap.Bool("identity_deleted", identityDeleted))
	return nil
}

func (uc *AccountUsecase) deleteIdentity(ctx context.Context, actor domain.Actor, userID string, self bool) (bool, error) {
	if self {
		return true, uc.auth.DeleteCurrentAccount(ctx, actor.Session)
	}
	if !uc.adminDelete {
		return false, nil
	}
	return true, uc.identities.AdminDeleteIdentity(ctx, userID)
}
