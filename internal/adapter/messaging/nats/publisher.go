package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("carmarket-service/nats")

// msgPublisher is satisfied by *nats.Conn.
type msgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

type Publisher struct {
	conn   msgPublisher
	logger *logger.Logger
}

func NewPublisher(conn *nats.Conn, log *logger.Logger) *Publisher {
	return newPublisher(conn, log)
}

func newPublisher(conn msgPublisher, log *logger.Logger) *Publisher {
	return &Publisher{conn: conn, logger: log.Named("NATSPublisher")}
}

// Publish sends data as JSON with the caller's trace context in the headers.
func (p *Publisher) Publish(ctx context.Context, subject string, data interface{}) error {
	ctx, span := tracer.Start(ctx, "nats.publish "+subject,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(attribute.String("messaging.destination.name", subject)),
	)
	defer span.End()

	payload, err := json.Marshal(data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "marshal failed")
		return fmt.Errorf("failed to marshal data for subject %s: %w", subject, err)
	}

	msg := nats.NewMsg(subject)
	msg.Data = payload
	otel.GetTextMapPropagator().Inject(ctx, HeaderCarrier(msg.Header))

	if err := p.conn.PublishMsg(msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish failed")
		return fmt.Errorf("failed to publish message to subject %s: %w", subject, err)
	}
	p.logger.Debug("Event published", zap.String("subject", subject), zap.Int("bytes", len(payload)))
	return nil
}
