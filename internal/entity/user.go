package entity

type User struct {
	ID    string
	Name  string
	Email string
}

func (u User) IsZero() bool {
	return u.ID == ""
}
