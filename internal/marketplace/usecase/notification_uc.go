package usecase

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"go.uber.org/zap"
)

// NotificationUsecase tells sellers about moderation decisions.
type NotificationUsecase struct {
	mailer domain.Mailer
	logger *logger.Logger
}

// NewNotificationUsecase accepts a nil mailer, which turns notifications off.
func NewNotificationUsecase(mailer domain.Mailer, log *logger.Logger) *NotificationUsecase {
	return &NotificationUsecase{
		mailer: mailer,
		logger: log.Named("NotificationUsecase"),
	}
}

func (uc *NotificationUsecase) HandleListingModerated(_ context.Context, event domain.ListingModeratedEvent) error {
	if uc.mailer == nil {
		uc.logger.Debug("Mailer disabled, skipping notification", zap.String("listing_id", event.ListingID))
		return nil
	}
	if event.Status != domain.StatusApproved && event.Status != domain.StatusRejected {
		return fmt.Errorf("%w: unexpected moderation status %q", domain.ErrInvalidInput, event.Status)
	}
	if event.SellerEmail == "" {
		uc.logger.Warn("Listing has no seller email", zap.String("listing_id", event.ListingID))
		return nil
	}

	if err := uc.mailer.SendListingModeratedEmail(event.SellerEmail, event.SellerName, event.Title, event.Status); err != nil {
		uc.logger.Error("Failed to send moderation email",
			zap.String("listing_id", event.ListingID),
			zap.String("to", event.SellerEmail),
			zap.Error(err),
		)
		return err
	}
	uc.logger.Info("Moderation email sent", zap.String("listing_id", event.ListingID), zap.String("status", string(event.Status)))
	return nil
}
