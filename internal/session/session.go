// Package session owns the credential and current user for one CLI process.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/pkg/logger/slogx"
)

const (
	KeyToken = "token"
	KeyUser  = "user"
)

type storedUser struct {
	ID    string `msgpack:"id"`
	Name  string `msgpack:"name"`
	Email string `msgpack:"email"`
}

// Session implements credentials.PerRPCCredentials. The token is read on every call,
// so Logout takes effect for requests issued after it.
type Session struct {
	store Store

	mu    sync.RWMutex
	token string
	user  entity.User
}

// Restore loads the session from store. Missing or corrupted data yields a logged-out session.
func Restore(ctx context.Context, store Store) (*Session, error) {
	s := &Session{store: store}

	token, err := store.Get(KeyToken)
	if errors.Is(err, ErrKeyNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("restore session: %v", err)
	}

	user, err := s.loadUser()
	if err != nil {
		slogx.Warn(ctx, "discard stored session", slogx.Err(err))
		if err := store.Delete(KeyToken, KeyUser); err != nil {
			return nil, fmt.Errorf("restore session: clear store: %v", err)
		}
		return s, nil
	}

	s.token = string(token)
	s.user = user

	return s, nil
}

func (s *Session) loadUser() (entity.User, error) {
	raw, err := s.store.Get(KeyUser)
	if err != nil {
		return entity.User{}, fmt.Errorf("load user: %w", err)
	}

	var u storedUser
	if err := msgpack.Unmarshal(raw, &u); err != nil {
		return entity.User{}, fmt.Errorf("decode user: %w", err)
	}
	if u.ID == "" {
		return entity.User{}, errors.New("decode user: empty id")
	}

	return entity.User{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}

func (s *Session) Login(token string, user entity.User) error {
	raw, err := msgpack.Marshal(storedUser{ID: user.ID, Name: user.Name, Email: user.Email})
	if err != nil {
		return fmt.Errorf("encode user: %v", err)
	}

	if err := s.store.Set(KeyToken, []byte(token)); err != nil {
		return fmt.Errorf("store token: %v", err)
	}
	if err := s.store.Set(KeyUser, raw); err != nil {
		return fmt.Errorf("store user: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user

	return nil
}

// Logout clears memory before the store so in-flight callers observe it immediately.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.user = entity.User{}
	s.mu.Unlock()

	if err := s.store.Delete(KeyToken, KeyUser); err != nil {
		return fmt.Errorf("clear session: %v", err)
	}
	return nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	token := s.Token()
	if token == "" {
		return map[string]string{}, nil
	}
	return map[string]string{"authorization": "Bearer " + token}, nil
}

func (s *Session) RequireTransportSecurity() bool {
	return false
}
