package v1

import "google.golang.org/genproto/googleapis/type/datetime"

type Permission string

const (
	Permission_READ  Permission = "read"
	Permission_WRITE Permission = "write"
)

type User struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Collaborator struct {
	User       *User      `json:"user"`
	Permission Permission `json:"permission"`
}

type Note struct {
	Id            string             `json:"id"`
	Title         string             `json:"title"`
	Content       string             `json:"content"`
	Owner         *User              `json:"owner,omitempty"`
	Collaborators []*Collaborator    `json:"collaborators,omitempty"`
	CreatedAt     *datetime.DateTime `json:"createdAt,omitempty"`
	LastUpdated   *datetime.DateTime `json:"lastUpdated,omitempty"`
}

type Empty struct{}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type GetNoteRequest struct {
	NoteId string `json:"noteId"`
}

type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type UpdateNoteRequest struct {
	NoteId  string `json:"noteId"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type DeleteNoteRequest struct {
	NoteId string `json:"noteId"`
}

type ListNotesRequest struct {
	Page int32  `json:"page"`
	Tab  string `json:"tab"`
}

type ListNotesResponse struct {
	Notes      []*Note `json:"notes"`
	Page       int32   `json:"page"`
	TotalPages int32   `json:"totalPages"`
}

type GetUserByEmailRequest struct {
	Email string `json:"email"`
}

type ShareNoteRequest struct {
	NoteId     string     `json:"noteId"`
	UserId     string     `json:"userId"`
	Permission Permission `json:"permission"`
}

type ChangePermissionRequest struct {
	NoteId     string     `json:"noteId"`
	UserId     string     `json:"userId"`
	Permission Permission `json:"permission"`
}

type RemoveCollaboratorRequest struct {
	NoteId string `json:"noteId"`
	UserId string `json:"userId"`
}
