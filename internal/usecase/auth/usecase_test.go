package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/internal/repository/memory"
)

func newUsecase(t *testing.T) *Usecase {
	t.Helper()

	uc, err := New(NewOptions(memory.New(), WithBcryptCost(bcrypt.MinCost)))
	require.NoError(t, err)
	return uc
}

func TestSignupLoginVerify(t *testing.T) {
	ctx := context.Background()
	uc := newUsecase(t)

	token, user, err := uc.Signup(ctx, "Alice", " Alice@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, token)

	userID, err := uc.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	token2, logged, err := uc.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user, logged)
	assert.NotEqual(t, token, token2)
}

func TestSignup_Validation(t *testing.T) {
	ctx := context.Background()
	uc := newUsecase(t)

	_, _, err := uc.Signup(ctx, "", "a@example.com", "secret1")
	assert.ErrorIs(t, err, entity.ErrInvalidArgument)

	_, _, err = uc.Signup(ctx, "A", "not-an-email", "secret1")
	assert.ErrorIs(t, err, entity.ErrInvalidArgument)

	_, _, err = uc.Signup(ctx, "A", "a@example.com", "123")
	assert.ErrorIs(t, err, entity.ErrInvalidArgument)

	_, _, err = uc.Signup(ctx, "A", "a@example.com", "secret1")
	require.NoError(t, err)

	_, _, err = uc.Signup(ctx, "B", "a@example.com", "secret2")
	assert.ErrorIs(t, err, entity.ErrConflict)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	uc := newUsecase(t)

	_, _, err := uc.Signup(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, _, err = uc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)

	_, _, err = uc.Login(ctx, "bob@example.com", "secret1")
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)

	_, err = uc.VerifyToken(ctx, "nope")
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}
