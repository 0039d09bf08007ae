package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/pkg/logger/slogx"
)

const minPasswordLen = 6

type usersRepository interface {
	CreateUser(ctx context.Context, user entity.User, passwordHash string) (entity.User, error)
	GetPasswordHash(ctx context.Context, email string) (entity.User, string, error)
	CreateToken(ctx context.Context, token, userID string) error
	GetUserIDByToken(ctx context.Context, token string) (string, error)
}

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.2 -out-filename=usecase_options.gen.go -from-struct=Options
type Options struct {
	repo       usersRepository `option:"mandatory" validate:"required"`
	bcryptCost int             `default:"10" validate:"min=4,max=31"`
}

type Usecase struct {
	Options
}

func New(opts Options) (*Usecase, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate auth usecase options: %v", err)
	}

	return &Usecase{Options: opts}, nil
}

// Signup registers the user and issues a fresh bearer token.
func (u *Usecase) Signup(ctx context.Context, name, email, password string) (string, entity.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return "", entity.User{}, fmt.Errorf("usecase signup: name is required: %w", entity.ErrInvalidArgument)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", entity.User{}, fmt.Errorf("usecase signup: email %q: %w", email, entity.ErrInvalidArgument)
	}
	if len(password) < minPasswordLen {
		return "", entity.User{}, fmt.Errorf("usecase signup: password is too short: %w", entity.ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.bcryptCost)
	if err != nil {
		return "", entity.User{}, fmt.Errorf("usecase signup: hash password: %v", err)
	}

	user, err := u.repo.CreateUser(ctx, entity.User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
	}, string(hash))
	if err != nil {
		return "", entity.User{}, fmt.Errorf("usecase signup: %w", err)
	}

	token, err := u.issueToken(ctx, user.ID)
	if err != nil {
		return "", entity.User{}, fmt.Errorf("usecase signup: %w", err)
	}

	slogx.Info(ctx, "user signed up", slogx.UserID(user.ID))
	return token, user, nil
}

func (u *Usecase) Login(ctx context.Context, email, password string) (string, entity.User, error) {
	user, hash, err := u.repo.GetPasswordHash(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return "", entity.User{}, fmt.Errorf("usecase login: %w", entity.ErrInvalidCredentials)
		}
		return "", entity.User{}, fmt.Errorf("usecase login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", entity.User{}, fmt.Errorf("usecase login: %w", entity.ErrInvalidCredentials)
	}

	token, err := u.issueToken(ctx, user.ID)
	if err != nil {
		return "", entity.User{}, fmt.Errorf("usecase login: %w", err)
	}

	slogx.Info(ctx, "user logged in", slogx.UserID(user.ID))
	return token, user, nil
}

// VerifyToken returns the id of the user the token was issued to.
func (u *Usecase) VerifyToken(ctx context.Context, token string) (string, error) {
	userID, err := u.repo.GetUserIDByToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("usecase verify token: %w", err)
	}

	return userID, nil
}

func (u *Usecase) issueToken(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := u.repo.CreateToken(ctx, token, userID); err != nil {
		return "", err
	}

	return token, nil
}
