package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/pkg/database"
)

func (r *Repo) CreateUser(ctx context.Context, user entity.User, passwordHash string) (entity.User, error) {
	if _, err := r.db.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Name, user.Email, passwordHash,
	); err != nil {
		if database.IsUniqueViolation(err) {
			return entity.User{}, entity.ErrEmailTaken
		}
		return entity.User{}, fmt.Errorf("create user: %v", err)
	}

	return user, nil
}

func (r *Repo) GetUser(ctx context.Context, id string) (entity.User, error) {
	return r.getUser(ctx, `SELECT id, name, email FROM users WHERE id = $1`, id)
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (entity.User, error) {
	return r.getUser(ctx, `SELECT id, name, email FROM users WHERE email = $1`, email)
}

func (r *Repo) getUser(ctx context.Context, query string, arg string) (entity.User, error) {
	var u entity.User
	if err := r.db.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.User{}, entity.ErrUserNotFound
		}
		return entity.User{}, fmt.Errorf("get user: %v", err)
	}

	return u, nil
}

func (r *Repo) GetPasswordHash(ctx context.Context, email string) (entity.User, string, error) {
	var (
		u    entity.User
		hash string
	)
	if err := r.db.QueryRow(ctx,
		`SELECT id, name, email, password_hash FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.User{}, "", entity.ErrUserNotFound
		}
		return entity.User{}, "", fmt.Errorf("get password hash: %v", err)
	}

	return u, hash, nil
}

func (r *Repo) CreateToken(ctx context.Context, token, userID string) error {
	if _, err := r.db.Exec(ctx,
		`INSERT INTO tokens (token, user_id) VALUES ($1, $2)`, token, userID,
	); err != nil {
		return fmt.Errorf("create token: %v", err)
	}

	return nil
}

func (r *Repo) GetUserIDByToken(ctx context.Context, token string) (string, error) {
	var userID string
	if err := r.db.QueryRow(ctx,
		`SELECT user_id FROM tokens WHERE token = $1`, token,
	).Scan(&userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", entity.ErrSessionExpired
		}
		return "", fmt.Errorf("get token: %v", err)
	}

	return userID, nil
}
