package entity

import (
	"fmt"
	"time"
)

type Permission string

const (
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
)

func (p Permission) Valid() bool {
	return p == PermissionRead || p == PermissionWrite
}

// ParsePermission maps an empty value to PermissionRead.
func ParsePermission(s string) (Permission, error) {
	if s == "" {
		return PermissionRead, nil
	}

	p := Permission(s)
	if !p.Valid() {
		return "", fmt.Errorf("permission %q: %w", s, ErrInvalidArgument)
	}

	return p, nil
}

type Collaboration struct {
	User       User
	Permission Permission
}

// NoteFields is the editable part of a note. Title and content always travel together.
type NoteFields struct {
	Title   string
	Content string
}

type Note struct {
	ID            string
	Title         string
	Content       string
	Owner         User
	Collaborators []Collaboration
	CreatedAt     time.Time
	LastUpdated   time.Time
}

func (n Note) Fields() NoteFields {
	return NoteFields{Title: n.Title, Content: n.Content}
}

// WithFields returns a copy of n carrying f.
func (n Note) WithFields(f NoteFields) Note {
	c := n.Clone()
	c.Title = f.Title
	c.Content = f.Content
	return c
}

func (n Note) Clone() Note {
	c := n
	if n.Collaborators != nil {
		c.Collaborators = make([]Collaboration, len(n.Collaborators))
		copy(c.Collaborators, n.Collaborators)
	}
	return c
}

func (n Note) IsOwner(userID string) bool {
	return userID != "" && n.Owner.ID == userID
}

func (n Note) Collaborator(userID string) (Collaboration, bool) {
	for _, c := range n.Collaborators {
		if c.User.ID == userID {
			return c, true
		}
	}
	return Collaboration{}, false
}

func (n Note) CanRead(userID string) bool {
	if n.IsOwner(userID) {
		return true
	}
	_, ok := n.Collaborator(userID)
	return ok
}

func (n Note) CanWrite(userID string) bool {
	if n.IsOwner(userID) {
		return true
	}
	c, ok := n.Collaborator(userID)
	return ok && c.Permission == PermissionWrite
}

// Tab selects which notes a listing returns.
type Tab string

const (
	TabOwn    Tab = "own"
	TabShared Tab = "shared"
)

// ParseTab also accepts the "myNotes" and "sharedWithMe" names used by the web client.
func ParseTab(s string) (Tab, error) {
	switch s {
	case "", string(TabOwn), "myNotes":
		return TabOwn, nil
	case string(TabShared), "sharedWithMe":
		return TabShared, nil
	default:
		return "", fmt.Errorf("tab %q: %w", s, ErrInvalidArgument)
	}
}

type NotesPage struct {
	Notes      []Note
	Page       int
	TotalPages int
}

// TotalPages never returns less than one page.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}
