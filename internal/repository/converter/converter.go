package converter

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
)

// NoteRow is one row of notes joined with its owner.
type NoteRow struct {
	ID         string
	Title      string
	Content    string
	CreatedAt  pgtype.Timestamptz
	UpdatedAt  pgtype.Timestamptz
	OwnerID    string
	OwnerName  string
	OwnerEmail string
}

// CollaboratorRow is one row of collaborators joined with the user.
type CollaboratorRow struct {
	NoteID     string
	UserID     string
	Name       string
	Email      string
	Permission string
}

func ConvertNoteToEntity(row NoteRow, collaborators []CollaboratorRow) entity.Note {
	note := entity.Note{
		ID:      row.ID,
		Title:   row.Title,
		Content: row.Content,
		Owner: entity.User{
			ID:    row.OwnerID,
			Name:  row.OwnerName,
			Email: row.OwnerEmail,
		},
		CreatedAt:   ConvertTimestampzToTime(row.CreatedAt),
		LastUpdated: ConvertTimestampzToTime(row.UpdatedAt),
	}

	for _, c := range collaborators {
		note.Collaborators = append(note.Collaborators, ConvertCollaboratorToEntity(c))
	}

	return note
}

func ConvertCollaboratorToEntity(row CollaboratorRow) entity.Collaboration {
	return entity.Collaboration{
		User: entity.User{
			ID:    row.UserID,
			Name:  row.Name,
			Email: row.Email,
		},
		Permission: entity.Permission(row.Permission),
	}
}

func ConvertTimestampzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}

func ConvertTimeToTimestampz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}
