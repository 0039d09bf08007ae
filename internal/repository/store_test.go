package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/internal/repository"
	"github.com/evgeniy-krivenko/notes-collab/internal/repository/memory"
	"github.com/evgeniy-krivenko/notes-collab/pkg/database"
)

var pgRepo *repository.Repo

func TestMain(m *testing.M) {
	os.Exit(runWithPostgres(m))
}

// runWithPostgres starts postgres in docker when it is available. Without docker
// only the in-memory store is tested.
func runWithPostgres(m *testing.M) int {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		fmt.Printf("docker unavailable, skipping postgres store: %s\n", err)
		return m.Run()
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=notes",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=notes",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		fmt.Printf("could not start postgres: %s\n", err)
		return 1
	}
	defer func() {
		if err := pool.Purge(resource); err != nil {
			fmt.Printf("could not purge postgres: %s\n", err)
		}
	}()

	pool.MaxWait = 120 * time.Second

	ctx := context.Background()
	var db *database.Database
	if err := pool.Retry(func() error {
		var err error
		db, err = database.Open(ctx, database.NewOptions(
			"localhost:"+resource.GetPort("5432/tcp"),
			"notes",
			"secret",
			"notes",
			database.WithRetry(false),
		))
		return err
	}); err != nil {
		fmt.Printf("could not connect to postgres: %s\n", err)
		return 1
	}
	defer db.Close()

	pgRepo = repository.New(db)
	if err := pgRepo.Migrate(ctx); err != nil {
		fmt.Printf("could not migrate: %s\n", err)
		return 1
	}

	return m.Run()
}

func TestStore_Memory(t *testing.T) {
	testStore(t, memory.New())
}

func TestStore_Postgres(t *testing.T) {
	if pgRepo == nil {
		t.Skip("docker unavailable")
	}
	testStore(t, pgRepo)
}

func testStore(t *testing.T, store repository.Store) {
	ctx := context.Background()
	suffix := uuid.NewString()[:8]

	alice, err := store.CreateUser(ctx, entity.User{
		ID: uuid.NewString(), Name: "Alice", Email: "alice-" + suffix + "@example.com",
	}, "hash-a")
	require.NoError(t, err)
	bob, err := store.CreateUser(ctx, entity.User{
		ID: uuid.NewString(), Name: "Bob", Email: "bob-" + suffix + "@example.com",
	}, "hash-b")
	require.NoError(t, err)

	t.Run("users", func(t *testing.T) {
		_, err := store.CreateUser(ctx, entity.User{ID: uuid.NewString(), Name: "Dup", Email: alice.Email}, "x")
		require.ErrorIs(t, err, entity.ErrConflict)

		got, err := store.GetUserByEmail(ctx, bob.Email)
		require.NoError(t, err)
		assert.Equal(t, bob, got)

		got, hash, err := store.GetPasswordHash(ctx, alice.Email)
		require.NoError(t, err)
		assert.Equal(t, alice, got)
		assert.Equal(t, "hash-a", hash)

		_, err = store.GetUser(ctx, uuid.NewString())
		require.ErrorIs(t, err, entity.ErrUserNotFound)
	})

	t.Run("tokens", func(t *testing.T) {
		token := uuid.NewString()
		require.NoError(t, store.CreateToken(ctx, token, alice.ID))

		id, err := store.GetUserIDByToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, id)

		_, err = store.GetUserIDByToken(ctx, uuid.NewString())
		require.ErrorIs(t, err, entity.ErrUnauthorized)
	})

	t.Run("notes and collaborators", func(t *testing.T) {
		note, err := store.CreateNote(ctx, uuid.NewString(), alice.ID, "T", "C")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, note.Owner.ID)
		assert.Empty(t, note.Collaborators)

		updated, err := store.UpdateNote(ctx, note.ID, entity.NoteFields{Title: "T2", Content: "C2"})
		require.NoError(t, err)
		assert.Equal(t, entity.NoteFields{Title: "T2", Content: "C2"}, updated.Fields())
		assert.False(t, updated.LastUpdated.Before(note.LastUpdated))

		require.NoError(t, store.AddCollaborator(ctx, note.ID, bob.ID, entity.PermissionRead))
		require.ErrorIs(t, store.AddCollaborator(ctx, note.ID, bob.ID, entity.PermissionWrite), entity.ErrConflict)

		got, err := store.GetNote(ctx, note.ID)
		require.NoError(t, err)
		require.Len(t, got.Collaborators, 1)
		assert.Equal(t, bob, got.Collaborators[0].User)
		assert.Equal(t, entity.PermissionRead, got.Collaborators[0].Permission)

		shared, total, err := store.ListNotes(ctx, bob.ID, entity.TabShared, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, shared, 1)
		assert.Equal(t, note.ID, shared[0].ID)

		own, total, err := store.ListNotes(ctx, bob.ID, entity.TabOwn, 10, 0)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, own)

		require.NoError(t, store.UpdateCollaborator(ctx, note.ID, bob.ID, entity.PermissionWrite))
		got, err = store.GetNote(ctx, note.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.PermissionWrite, got.Collaborators[0].Permission)

		require.NoError(t, store.RemoveCollaborator(ctx, note.ID, bob.ID))
		require.ErrorIs(t, store.RemoveCollaborator(ctx, note.ID, bob.ID), entity.ErrCollaboratorNotFound)
		require.ErrorIs(t, store.UpdateCollaborator(ctx, note.ID, bob.ID, entity.PermissionRead), entity.ErrCollaboratorNotFound)

		require.NoError(t, store.DeleteNote(ctx, note.ID))
		_, err = store.GetNote(ctx, note.ID)
		require.ErrorIs(t, err, entity.ErrNoteNotFound)
		require.ErrorIs(t, store.DeleteNote(ctx, note.ID), entity.ErrNoteNotFound)

		_, err = store.UpdateNote(ctx, note.ID, entity.NoteFields{Title: "x", Content: "y"})
		require.ErrorIs(t, err, entity.ErrNoteNotFound)
	})

	t.Run("pagination", func(t *testing.T) {
		for i := range 3 {
			_, err := store.CreateNote(ctx, uuid.NewString(), bob.ID, fmt.Sprintf("n%d", i), "c")
			require.NoError(t, err)
		}

		page, total, err := store.ListNotes(ctx, bob.ID, entity.TabOwn, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, page, 2)

		page, _, err = store.ListNotes(ctx, bob.ID, entity.TabOwn, 2, 2)
		require.NoError(t, err)
		assert.Len(t, page, 1)
	})
}
