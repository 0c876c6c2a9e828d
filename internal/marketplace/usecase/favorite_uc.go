package usecase

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type FavoriteUsecase struct {
	repo   domain.FavoriteRepository
	logger *logger.Logger
	now    Clock
	newID  IDGenerator
}

func NewFavoriteUsecase(repo domain.FavoriteRepository, log *logger.Logger) *FavoriteUsecase {
	return &FavoriteUsecase{
		repo:   repo,
		logger: log.Named("FavoriteUsecase"),
		now:    systemClock,
		newID:  newUUID,
	}
}

// AddFavorite bookmarks a listing. It fails with ErrAlreadyFavorited when the
// pair exists; the store's unique index turns a racing insert into the same error.
func (uc *FavoriteUsecase) AddFavorite(ctx context.Context, userID, listingID string) error {
	uc.logger.Info("Adding favorite", zap.String("user_id", userID), zap.String("listing_id", listingID))
	if userID == "" || listingID == "" {
		return fmt.Errorf("%w: user and listing are required", domain.ErrInvalidInput)
	}

	exists, err := uc.repo.Exists(ctx, userID, listingID)
	if err != nil {
		uc.logger.Error("Failed to check favorite", zap.String("user_id", userID), zap.String("listing_id", listingID), zap.Error(err))
		return err
	}
	if exists {
		return domain.ErrAlreadyFavorited
	}

	fav := &domain.Favorite{
		ID:        uc.newID(),
		UserID:    userID,
		ListingID: listingID,
		CreatedAt: uc.now(),
	}
	if err := uc.repo.Add(ctx, fav); err != nil {
		uc.logger.Warn("Failed to add favorite", zap.String("user_id", userID), zap.String("listing_id", listingID), zap.Error(err))
		return err
	}
	return nil
}

// RemoveFavorite deletes every row for the pair concurrently and waits for
// all of them; the first failure is returned.
func (uc *FavoriteUsecase) RemoveFavorite(ctx context.Context, userID, listingID string) error {
	uc.logger.Info("Removing favorite", zap.String("user_id", userID), zap.String("listing_id", listingID))

	ids, err := uc.repo.FindIDs(ctx, userID, listingID)
	if err != nil {
		uc.logger.Error("Failed to look up favorite", zap.String("user_id", userID), zap.String("listing_id", listingID), zap.Error(err))
		return err
	}
	if len(ids) == 0 {
		return domain.ErrNotFavorited
	}
	if len(ids) > 1 {
		uc.logger.Warn("Duplicate favorite rows found", zap.String("user_id", userID), zap.String("listing_id", listingID), zap.Int("count", len(ids)))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			return uc.repo.DeleteByID(gctx, id)
		})
	}
	if err := g.Wait(); err != nil {
		uc.logger.Error("Failed to remove favorite", zap.String("user_id", userID), zap.String("listing_id", listingID), zap.Error(err))
		return err
	}
	return nil
}

// ListFavoriteListingIDs returns the listings a user has bookmarked, in no
// particular order.
func (uc *FavoriteUsecase) ListFavoriteListingIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := uc.repo.ListingIDsByUser(ctx, userID)
	if err != nil {
		uc.logger.Error("Failed to list favorites", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return ids, nil
}
