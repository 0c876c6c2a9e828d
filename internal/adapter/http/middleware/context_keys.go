package middleware

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
)

// ContextKey keeps request-scoped values apart from other packages' keys.
type ContextKey string

const ActorCtxKey = ContextKey("actor")

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, ActorCtxKey, actor)
}

// ActorFromContext returns the caller resolved by Auth.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(ActorCtxKey).(domain.Actor)
	return actor, ok && actor.UserID != ""
}
