package permissions

import "context"

type actorContextKey struct{}

// WithActor stores the authenticated actor on the request context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext returns the actor placed by the auth middleware. A zero
// actor holds no roles, so every capability check downstream denies it.
func ActorFromContext(ctx context.Context) Actor {
	actor, _ := ctx.Value(actorContextKey{}).(Actor)

	return actor
}
