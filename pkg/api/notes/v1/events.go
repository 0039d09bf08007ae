package v1

import (
	"encoding/json"
	"fmt"
)

// Realtime event names. Client to server: join rooms and announce saved notes.
// Server to client: note shared and note updated.
const (
	EventJoinUserRoom = "joinUserRoom"
	EventJoinNoteRoom = "joinNoteRoom"
	EventUpdateNote   = "updateNote"
	EventNoteShared   = "note:shared"
	EventNoteUpdated  = "noteUpdated"
)

// Envelope is one websocket text frame.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type JoinUserRoom struct {
	UserId string `json:"userId"`
}

type JoinNoteRoom struct {
	NoteId string `json:"noteId"`
}

type NoteShared struct {
	NoteId string `json:"noteId"`
	Title  string `json:"title"`
}

func NewEnvelope(event string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", event, err)
	}

	return Envelope{Event: event, Data: raw}, nil
}

func (e Envelope) Decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("decode %s: empty payload", e.Event)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", e.Event, err)
	}
	return nil
}
