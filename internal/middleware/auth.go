package middleware

import (
	"context"
	"errors"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/freightledger/internal/auth"
	"github.com/mmynk/freightledger/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ActorKey is the context key for storing the authenticated caller.
	ActorKey contextKey = "actor"
)

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

// GetActor extracts the caller from the context.
// The second result is false if the request was not authenticated.
func GetActor(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(ActorKey).(models.Actor)
	return actor, ok
}

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	actor, _ := GetActor(ctx)
	return actor.UserID
}

// RequireAuth returns a middleware that validates JWT tokens and requires authentication.
// It extracts the token from the Authorization header, validates it, and adds
// the caller's user ID and role to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			// Extract Authorization header
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			// Parse Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithActor(ctx, claims.Actor()), req)
		}
	}
}

// RequireLedgerRole rejects the given procedures unless the caller has one of
// models.LedgerRoles. Other procedures pass through. It must run after RequireAuth.
func RequireLedgerRole(procedures ...string) connect.UnaryInterceptorFunc {
	gated := make(map[string]bool, len(procedures))
	for _, p := range procedures {
		gated[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if !gated[req.Spec().Procedure] {
				return next(ctx, req)
			}
			actor, ok := GetActor(ctx)
			if !ok {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}
			if !actor.Role.CanManageLedger() {
				return nil, connect.NewError(connect.CodePermissionDenied,
					errors.New("only ADMIN, CEO or ACCOUNTING may call "+req.Spec().Procedure))
			}
			return next(ctx, req)
		}
	}
}
