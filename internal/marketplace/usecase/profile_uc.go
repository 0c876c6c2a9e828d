package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"go.uber.org/zap"
)

type ProfileUsecase struct {
	repo   domain.ProfileRepository
	logger *logger.Logger
	now    Clock
}

func NewProfileUsecase(repo domain.ProfileRepository, log *logger.Logger) *ProfileUsecase {
	return &ProfileUsecase{
		repo:   repo,
		logger: log.Named("ProfileUsecase"),
		now:    systemClock,
	}
}

func (uc *ProfileUsecase) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := uc.repo.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			uc.logger.Error("Failed to load profile", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, err
	}
	return profile, nil
}

// UpdateProfile applies a partial update to the caller's own profile.
func (uc *ProfileUsecase) UpdateProfile(ctx context.Context, actor domain.Actor, userID string, update domain.ProfileUpdate) (*domain.Profile, error) {
	uc.logger.Info("Updating profile", zap.String("user_id", userID))
	if actor.UserID != userID {
		return nil, fmt.Errorf("%w: profiles can only be edited by their owner", domain.ErrForbidden)
	}
	if update.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}

	profile, err := uc.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := update.ApplyTo(profile, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, profile); err != nil {
		uc.logger.Error("Failed to update profile", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return profile, nil
}

// SetRole changes a user's role. Only administrators may call it.
func (uc *ProfileUsecase) SetRole(ctx context.Context, actor domain.Actor, userID string, role domain.Role) error {
	uc.logger.Info("Setting role", zap.String("user_id", userID), zap.String("role", string(role)), zap.String("admin_id", actor.UserID))
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: changing roles requires admin role", domain.ErrForbidden)
	}
	if !role.IsValid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	if err := uc.repo.UpdateRole(ctx, userID, role, uc.now()); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			uc.logger.Error("Failed to set role", zap.String("user_id", userID), zap.Error(err))
		}
		return err
	}
	return nil
}

// CheckRole returns the user's role, treating an unset role as user.
func (uc *ProfileUsecase) CheckRole(ctx context.Context, userID string) (domain.Role, error) {
	profile, err := uc.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	return profile.EffectiveRole(), nil
}

// ListProfiles returns every profile. A store failure is returned, never
// reported as an empty list.
func (uc *ProfileUsecase) ListProfiles(ctx context.Context, actor domain.Actor) ([]*domain.Profile, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: listing users requires admin role", domain.ErrForbidden)
	}
	profiles, err := uc.repo.FindAll(ctx)
	if err != nil {
		uc.logger.Error("Failed to list profiles", zap.Error(err))
		return nil, err
	}
	return profiles, nil
}
