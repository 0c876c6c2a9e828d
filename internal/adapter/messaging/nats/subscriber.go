package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	notifierQueue  = "carmarket-notifier"
	handlerTimeout = 30 * time.Second
)

type ModerationHandler interface {
	HandleListingModerated(ctx context.Context, event domain.ListingModeratedEvent) error
}

// Subscriber feeds moderation decisions to a handler. Subscriptions join a
// queue group so each event is handled by one replica only.
type Subscriber struct {
	conn    *nats.Conn
	handler ModerationHandler
	subs    []*nats.Subscription
	logger  *logger.Logger
}

func NewSubscriber(conn *nats.Conn, handler ModerationHandler, log *logger.Logger) *Subscriber {
	return &Subscriber{conn: conn, handler: handler, logger: log.Named("NATSSubscriber")}
}

func (s *Subscriber) Start() error {
	for _, subject := range []string{domain.SubjectListingApproved, domain.SubjectListingRejected} {
		sub, err := s.conn.QueueSubscribe(subject, notifierQueue, s.handle)
		if err != nil {
			s.Stop()
			return fmt.Errorf("subscribe %s: %w", subject, err)
		}
		s.subs = append(s.subs, sub)
		s.logger.Info("Subscribed", zap.String("subject", subject), zap.String("queue", notifierQueue))
	}
	return nil
}

func (s *Subscriber) Stop() {
	for _, sub := range s.subs {
		if err := sub.Unsubscribe(); err != nil {
			s.logger.Warn("Failed to unsubscribe", zap.String("subject", sub.Subject), zap.Error(err))
		}
	}
	s.subs = nil
}

func (s *Subscriber) handle(msg *nats.Msg) {
	ctx := context.Background()
	if msg.Header != nil {
		ctx = otel.GetTextMapPropagator().Extract(ctx, HeaderCarrier(msg.Header))
	}
	ctx, cancel := context.WithTimeout(ctx, handlerTimeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "nats.process "+msg.Subject, trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	var event domain.ListingModeratedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		s.logger.Error("Dropping malformed event", zap.String("subject", msg.Subject), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed event")
		return
	}
	if err := s.handler.HandleListingModerated(ctx, event); err != nil {
		s.logger.Error("Moderation event handler failed", zap.String("listing_id", event.ListingID), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "handler failed")
	}
}
