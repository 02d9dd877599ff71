package auth

import (
	"context"

	"github.com/yourname/northstar/internal"
)

// UserLookup is the slice of the storage layer the provider needs.
type UserLookup interface {
	GetUserByToken(ctx context.Context, token string) (*internal.User, error)
}

// StoreProvider validates tokens against the users table.
type StoreProvider struct {
	users  UserLookup
	logger internal.Logger
}

func NewStoreProvider(users UserLookup, logger internal.Logger) *StoreProvider {
	return &StoreProvider{users: users, logger: logger}
}

func (a *StoreProvider) ResolveSession(ctx context.Context, token string) (*internal.User, error) {
	user, err := a.users.GetUserByToken(ctx, token)
	if err != nil {
		a.logger.Warnf("token lookup failed: %v", err)
		return nil, err
	}
	return user, nil
}
