package repository

import (
	"context"
	"fmt"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/pkg/database"
)

func (r *Repo) AddCollaborator(ctx context.Context, noteID, userID string, perm entity.Permission) error {
	if _, err := r.db.Exec(ctx,
		`INSERT INTO collaborators (note_id, user_id, permission) VALUES ($1, $2, $3)`,
		noteID, userID, string(perm),
	); err != nil {
		if database.IsUniqueViolation(err) {
			return entity.ErrAlreadyCollaborator
		}
		return fmt.Errorf("add collaborator: %v", err)
	}

	return nil
}

func (r *Repo) UpdateCollaborator(ctx context.Context, noteID, userID string, perm entity.Permission) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE collaborators SET permission = $3 WHERE note_id = $1 AND user_id = $2`,
		noteID, userID, string(perm),
	)
	if err != nil {
		return fmt.Errorf("update collaborator: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrCollaboratorNotFound
	}

	return nil
}

func (r *Repo) RemoveCollaborator(ctx context.Context, noteID, userID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM collaborators WHERE note_id = $1 AND user_id = $2`,
		noteID, userID,
	)
	if err != nil {
		return fmt.Errorf("remove collaborator: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrCollaboratorNotFound
	}

	return nil
}
