package usecase

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Clock and IDGenerator are swapped in tests.
type (
	Clock       func() time.Time
	IDGenerator func() string
)

func systemClock() time.Time { return time.Now().UTC() }

// newUUID returns a random (version 4) UUID string.
func newUUID() string { return uuid.NewString() }

// publishEvent emits a domain event. Delivery is best effort: a broker
// failure is logged and never fails the operation that produced the event.
func publishEvent(ctx context.Context, pub domain.EventPublisher, log *logger.Logger, subject string, data interface{}) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, subject, data); err != nil {
		log.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
