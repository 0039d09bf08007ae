package converter

import (
	"time"

	"google.golang.org/genproto/googleapis/type/datetime"

	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	v1 "github.com/evgeniy-krivenko/notes-collab/pkg/api/notes/v1"
)

func ConvertUserToProto(u entity.User) *v1.User {
	return &v1.User{Id: u.ID, Name: u.Name, Email: u.Email}
}

func ConvertUserToEntity(u *v1.User) entity.User {
	if u == nil {
		return entity.User{}
	}

	return entity.User{ID: u.Id, Name: u.Name, Email: u.Email}
}

func ConvertPermissionToProto(p entity.Permission) v1.Permission {
	if p == entity.PermissionWrite {
		return v1.Permission_WRITE
	}
	return v1.Permission_READ
}

func ConvertPermissionToEntity(p v1.Permission) entity.Permission {
	return entity.Permission(p)
}

func ConvertNoteToProto(note entity.Note) *v1.Note {
	out := &v1.Note{
		Id:          note.ID,
		Title:       note.Title,
		Content:     note.Content,
		CreatedAt:   ConvertTimeToDateTime(note.CreatedAt),
		LastUpdated: ConvertTimeToDateTime(note.LastUpdated),
	}

	if !note.Owner.IsZero() {
		out.Owner = ConvertUserToProto(note.Owner)
	}

	for _, c := range note.Collaborators {
		out.Collaborators = append(out.Collaborators, &v1.Collaborator{
			User:       ConvertUserToProto(c.User),
			Permission: ConvertPermissionToProto(c.Permission),
		})
	}

	return out
}

func ConvertNotesToProto(notes []entity.Note) []*v1.Note {
	out := make([]*v1.Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, ConvertNoteToProto(n))
	}
	return out
}

func ConvertNoteToEntity(note *v1.Note) entity.Note {
	if note == nil {
		return entity.Note{}
	}

	out := entity.Note{
		ID:          note.Id,
		Title:       note.Title,
		Content:     note.Content,
		Owner:       ConvertUserToEntity(note.Owner),
		CreatedAt:   ConvertDateTimeToTime(note.CreatedAt),
		LastUpdated: ConvertDateTimeToTime(note.LastUpdated),
	}

	for _, c := range note.Collaborators {
		if c == nil {
			continue
		}
		out.Collaborators = append(out.Collaborators, entity.Collaboration{
			User:       ConvertUserToEntity(c.User),
			Permission: ConvertPermissionToEntity(c.Permission),
		})
	}

	return out
}

func ConvertNotesToEntity(notes []*v1.Note) []entity.Note {
	out := make([]entity.Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, ConvertNoteToEntity(n))
	}
	return out
}

// ConvertTimeToDateTime always encodes in UTC.
func ConvertTimeToDateTime(t time.Time) *datetime.DateTime {
	if t.IsZero() {
		return nil
	}

	t = t.UTC()
	return &datetime.DateTime{
		Year:    int32(t.Year()),
		Month:   int32(t.Month()),
		Day:     int32(t.Day()),
		Hours:   int32(t.Hour()),
		Minutes: int32(t.Minute()),
		Seconds: int32(t.Second()),
		Nanos:   int32(t.Nanosecond()),
	}
}

func ConvertDateTimeToTime(dt *datetime.DateTime) time.Time {
	if dt == nil {
		return time.Time{}
	}

	return time.Date(
		int(dt.Year),
		time.Month(dt.Month),
		int(dt.Day),
		int(dt.Hours),
		int(dt.Minutes),
		int(dt.Seconds),
		int(dt.Nanos),
		time.UTC,
	)
}
