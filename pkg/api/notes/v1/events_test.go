package v1

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/type/datetime"
)

func TestEnvelope_WireShape(t *testing.T) {
	env, err := NewEnvelope(EventNoteShared, NoteShared{NoteId: "n1", Title: "Plan"})
	require.NoError(t, err)

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"note:shared","data":{"noteId":"n1","title":"Plan"}}`, string(raw))

	var back Envelope
	require.NoError(t, json.Unmarshal(raw, &back))

	var shared NoteShared
	require.NoError(t, back.Decode(&shared))
	assert.Equal(t, "Plan", shared.Title)
}

func TestEnvelope_DecodeEmpty(t *testing.T) {
	assert.Error(t, Envelope{Event: EventUpdateNote}.Decode(&Note{}))
}

func TestCodec_NoteWithDateTime(t *testing.T) {
	c := jsonCodec{}
	in := &Note{
		Id:          "n1",
		Title:       "T",
		Content:     "C",
		LastUpdated: &datetime.DateTime{Year: 2026, Month: 10, Day: 17, Hours: 9},
	}

	raw, err := c.Marshal(in)
	require.NoError(t, err)

	out := new(Note)
	require.NoError(t, c.Unmarshal(raw, out))
	assert.Equal(t, in.Title, out.Title)
	require.NotNil(t, out.LastUpdated)
	assert.Equal(t, int32(2026), out.LastUpdated.Year)
	assert.Equal(t, int32(9), out.LastUpdated.Hours)
}
