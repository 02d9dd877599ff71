package auth

import (
	"context"

	"github.com/yourname/northstar/internal"
)

// Provider resolves a bearer token into an authenticated user. A nil
// user with a non-nil error means no session; every route treats that as
// an authorization failure, never as "not found".
type Provider interface {
	ResolveSession(ctx context.Context, token string) (*internal.User, error)
}
