package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/internal/repository/converter"
	"github.com/evgeniy-krivenko/notes-collab/pkg/logger/slogx"
)

const selectNote = `
SELECT n.id, n.title, n.content, n.created_at, n.updated_at, u.id, u.name, u.email
FROM notes n
JOIN users u ON u.id = n.owner_id`

func scanNote(row pgx.Row) (converter.NoteRow, error) {
	var r converter.NoteRow
	err := row.Scan(
		&r.ID, &r.Title, &r.Content, &r.CreatedAt, &r.UpdatedAt,
		&r.OwnerID, &r.OwnerName, &r.OwnerEmail,
	)
	return r, err
}

func (r *Repo) CreateNote(ctx context.Context, id, ownerID, title, content string) (entity.Note, error) {
	if _, err := r.db.Exec(ctx,
		`INSERT INTO notes (id, owner_id, title, content) VALUES ($1, $2, $3, $4)`,
		id, ownerID, title, content,
	); err != nil {
		return entity.Note{}, fmt.Errorf("create note: %v", err)
	}

	slogx.Debug(ctx, "success to create note", slogx.UserID(ownerID), slogx.NoteID(id))

	return r.GetNote(ctx, id)
}

func (r *Repo) GetNote(ctx context.Context, id string) (entity.Note, error) {
	row, err := scanNote(r.db.QueryRow(ctx, selectNote+` WHERE n.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Note{}, entity.ErrNoteNotFound
		}
		return entity.Note{}, fmt.Errorf("get note: %v", err)
	}

	notes, err := r.withCollaborators(ctx, []converter.NoteRow{row})
	if err != nil {
		return entity.Note{}, err
	}

	return notes[0], nil
}

func (r *Repo) UpdateNote(ctx context.Context, id string, fields entity.NoteFields) (entity.Note, error) {
	var note entity.Note

	err := r.db.RunInTx(ctx, func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx,
			`UPDATE notes SET title = $2, content = $3, updated_at = now() WHERE id = $1`,
			id, fields.Title, fields.Content,
		)
		if err != nil {
			return fmt.Errorf("update note: %v", err)
		}
		if tag.RowsAffected() == 0 {
			return entity.ErrNoteNotFound
		}

		note, err = r.GetNote(ctx, id)
		return err
	})
	if err != nil {
		return entity.Note{}, err
	}

	return note, nil
}

func (r *Repo) DeleteNote(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrNoteNotFound
	}

	return nil
}

func (r *Repo) ListNotes(ctx context.Context, userID string, tab entity.Tab, limit, offset int) ([]entity.Note, int, error) {
	filter := `n.owner_id = $1`
	if tab == entity.TabShared {
		filter = `EXISTS (SELECT 1 FROM collaborators c WHERE c.note_id = n.id AND c.user_id = $1)`
	}

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM notes n WHERE `+filter, userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notes: %v", err)
	}

	rows, err := r.db.Query(ctx,
		selectNote+` WHERE `+filter+` ORDER BY n.updated_at DESC, n.id LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list notes: %v", err)
	}

	noteRows, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (converter.NoteRow, error) {
		return scanNote(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan notes: %v", err)
	}

	notes, err := r.withCollaborators(ctx, noteRows)
	if err != nil {
		return nil, 0, err
	}

	return notes, total, nil
}

func (r *Repo) withCollaborators(ctx context.Context, noteRows []converter.NoteRow) ([]entity.Note, error) {
	if len(noteRows) == 0 {
		return []entity.Note{}, nil
	}

	ids := make([]string, 0, len(noteRows))
	for _, n := range noteRows {
		ids = append(ids, n.ID)
	}

	rows, err := r.db.Query(ctx, `
SELECT c.note_id, u.id, u.name, u.email, c.permission
FROM collaborators c
JOIN users u ON u.id = c.user_id
WHERE c.note_id = ANY($1)
ORDER BY c.created_at, u.email`, ids)
	if err != nil {
		return nil, fmt.Errorf("get collaborators: %v", err)
	}

	collabRows, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (converter.CollaboratorRow, error) {
		var c converter.CollaboratorRow
		err := row.Scan(&c.NoteID, &c.UserID, &c.Name, &c.Email, &c.Permission)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan collaborators: %v", err)
	}

	byNote := make(map[string][]converter.CollaboratorRow, len(noteRows))
	for _, c := range collabRows {
		byNote[c.NoteID] = append(byNote[c.NoteID], c)
	}

	notes := make([]entity.Note, 0, len(noteRows))
	for _, n := range noteRows {
		notes = append(notes, converter.ConvertNoteToEntity(n, byNote[n.ID]))
	}

	return notes, nil
}
