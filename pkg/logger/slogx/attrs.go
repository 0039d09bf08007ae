package slogx

import "log/slog"

func Err(err error) slog.Attr {
	return slog.Any("err", err)
}

func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}

func NoteID(id string) slog.Attr {
	return slog.String("note_id", id)
}

func Room(name string) slog.Attr {
	return slog.String("room", name)
}

func Event(name string) slog.Attr {
	return slog.String("event", name)
}
