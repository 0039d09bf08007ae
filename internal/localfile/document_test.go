package localfile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
)

func TestEncodeDecode(t *testing.T) {
	note := entity.Note{
		ID:          "n1",
		Title:       "Plan: v2",
		Content:     "\nfirst line\n---\nnot frontmatter\n",
		Owner:       entity.User{Email: "alice@example.com"},
		LastUpdated: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	data, err := Encode(note)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id: n1\n")

	fields, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, note.Fields(), fields)
}

func TestDecode(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want entity.NoteFields
		err  error
	}{
		{name: "plain body", in: "just text", want: entity.NoteFields{Content: "just text"}},
		{name: "crlf", in: "---\r\ntitle: T\r\n---\r\nbody", want: entity.NoteFields{Title: "T", Content: "body"}},
		{name: "empty frontmatter", in: "---\n---\nbody", want: entity.NoteFields{Content: "body"}},
		{name: "unterminated", in: "---\ntitle: T\nbody", err: ErrNoClosingDelimiter},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode([]byte(tc.in))
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := Decode([]byte("---\ntitle: [\n---\n"))
	require.Error(t, err)
}
