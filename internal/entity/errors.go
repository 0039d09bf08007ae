package entity

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrConflict        = errors.New("conflict")
	ErrNetwork         = errors.New("network error")
	ErrInvalidArgument = errors.New("invalid argument")
)

var (
	ErrNoteNotFound         = fmt.Errorf("note %w", ErrNotFound)
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrCollaboratorNotFound = fmt.Errorf("collaborator %w", ErrNotFound)

	// ErrSessionExpired means the credential is missing or no longer accepted.
	ErrSessionExpired = fmt.Errorf("session expired: %w", ErrUnauthorized)
	// ErrForbidden means the credential is valid but lacks permission.
	ErrForbidden          = fmt.Errorf("insufficient permission: %w", ErrUnauthorized)
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", ErrUnauthorized)

	ErrAlreadyCollaborator = fmt.Errorf("user is already a collaborator: %w", ErrConflict)
	ErrOwnerCollaborator   = fmt.Errorf("owner cannot be a collaborator: %w", ErrConflict)
	ErrEmailTaken          = fmt.Errorf("email already registered: %w", ErrConflict)

	ErrChannelUnavailable = fmt.Errorf("realtime channel unavailable: %w", ErrNetwork)
)
