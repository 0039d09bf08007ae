package ctxtr

import (
	"context"
	"errors"
)

type ctxKey string

const UserIDKey ctxKey = "user_id"

var ErrUserNotFound = errors.New("user not found in context")

type tokenResolver interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// Authenticator adapts a token resolver to grpcx.TokenVerifier.
type Authenticator struct {
	resolver tokenResolver
}

func NewAuthenticator(resolver tokenResolver) *Authenticator {
	return &Authenticator{resolver: resolver}
}

func (a *Authenticator) VerifyToken(ctx context.Context, token string) (context.Context, error) {
	userID, err := a.resolver.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return WithUserID(ctx, userID), nil
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func UserID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok || userID == "" {
		return "", ErrUserNotFound
	}

	return userID, nil
}
