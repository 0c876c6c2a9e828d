package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNotificationUsecase_HandleListingModerated(t *testing.T) {
	ctx := context.Background()
	event := domain.ListingModeratedEvent{
		ListingID:   "c1",
		Title:       "Toyota Corolla",
		SellerName:  "Aigerim Sadykova",
		SellerEmail: "aigerim@example.com",
		Status:      domain.StatusApproved,
	}

	t.Run("EmailsSeller", func(t *testing.T) {
		mailer := new(MockMailer)
		mailer.On("SendListingModeratedEmail", "aigerim@example.com", "Aigerim Sadykova", "Toyota Corolla", domain.StatusApproved).Return(nil).Once()
		uc := NewNotificationUsecase(mailer, logger.NewNop())

		assert.NoError(t, uc.HandleListingModerated(ctx, event))
		mailer.AssertExpectations(t)
	})

	t.Run("SMTPFailure", func(t *testing.T) {
		mailer := new(MockMailer)
		mailer.On("SendListingModeratedEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("421")).Once()
		uc := NewNotificationUsecase(mailer, logger.NewNop())

		assert.Error(t, uc.HandleListingModerated(ctx, event))
	})

	t.Run("NoSellerEmail", func(t *testing.T) {
		mailer := new(MockMailer)
		uc := NewNotificationUsecase(mailer, logger.NewNop())
		e := event
		e.SellerEmail = ""

		assert.NoError(t, uc.HandleListingModerated(ctx, e))
		mailer.AssertNotCalled(t, "SendListingModeratedEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PendingIsNotADecision", func(t *testing.T) {
		uc := NewNotificationUsecase(new(MockMailer), logger.NewNop())
		e := event
		e.Status = domain.StatusPending

		assert.ErrorIs(t, uc.HandleListingModerated(ctx, e), domain.ErrInvalidInput)
	})

	t.Run("Disabled", func(t *testing.T) {
		uc := NewNotificationUsecase(nil, logger.NewNop())

		assert.NoError(t, uc.HandleListingModerated(ctx, event))
	})
}
