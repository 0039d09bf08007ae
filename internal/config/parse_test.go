package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("NOTES_PAGE_SIZE", "7")
	t.Setenv("GRPC_ADDR", "127.0.0.1:6000")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 7, cfg.Notes.PageSize)
	assert.Equal(t, "127.0.0.1:6000", cfg.GRPC.Addr)
	assert.Equal(t, ":8081", cfg.HTTP.Addr)
	assert.Equal(t, 60*time.Second, cfg.GRPC.KeepaliveTime)
}

func TestParse_UnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")

	_, err := Parse()
	require.Error(t, err)
}

func TestParseClient(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NOTESYNC_DATA_DIR", dir)
	t.Setenv("NOTESYNC_AUTOSAVE_WINDOW", "250ms")

	cfg, err := ParseClient()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, 250*time.Millisecond, cfg.AutosaveWindow)
	assert.Equal(t, uint(5), cfg.ReconnectAttempts)
	assert.Equal(t, time.Second, cfg.ReconnectDelay)
	assert.Equal(t, "ws://localhost:8081/ws", cfg.RealtimeURL)
}
