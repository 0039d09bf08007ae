package repository

import (
	"context"
	"embed"

	"github.com/evgeniy-krivenko/notes-collab/pkg/database"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Repo struct {
	db *database.Database
}

func New(db *database.Database) *Repo {
	return &Repo{db: db}
}

// Migrate brings the schema up to date.
func (r *Repo) Migrate(ctx context.Context) error {
	return database.Migrate(ctx, r.db.Pool(), migrations, "migrations")
}
