package entity

// NoteSharedEvent is pushed to a user when a note is newly shared with them.
type NoteSharedEvent struct {
	NoteID string
	Title  string
}
