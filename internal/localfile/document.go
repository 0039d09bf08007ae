// Package localfile projects an open note onto a markdown file with YAML frontmatter
// so any text editor can edit it.
package localfile

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
)

var ErrNoClosingDelimiter = errors.New("frontmatter started but no closing delimiter found")

type frontmatter struct {
	ID      string    `yaml:"id,omitempty"`
	Title   string    `yaml:"title"`
	Owner   string    `yaml:"owner,omitempty"`
	Updated time.Time `yaml:"updated,omitempty"`
}

// Encode renders the note as frontmatter followed by the content as the body.
func Encode(note entity.Note) ([]byte, error) {
	meta, err := yaml.Marshal(frontmatter{
		ID:      note.ID,
		Title:   note.Title,
		Owner:   note.Owner.Email,
		Updated: note.LastUpdated.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(meta)
	buf.WriteString("---\n")
	buf.WriteString(note.Content)

	return buf.Bytes(), nil
}

// Decode reads the editable fields back. A file without frontmatter is all content.
func Decode(data []byte) (entity.NoteFields, error) {
	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		return entity.NoteFields{Content: string(data)}, nil
	}

	rest := data[3:]
	parts := bytes.SplitN(rest, []byte("\n---"), 2)
	if len(parts) == 1 {
		return entity.NoteFields{}, ErrNoClosingDelimiter
	}

	var meta frontmatter
	if err := yaml.Unmarshal(parts[0], &meta); err != nil {
		return entity.NoteFields{}, fmt.Errorf("parse frontmatter: %w", err)
	}

	body := strings.TrimPrefix(string(parts[1]), "\r")
	body = strings.TrimPrefix(body, "\n")

	return entity.NoteFields{Title: meta.Title, Content: body}, nil
}
