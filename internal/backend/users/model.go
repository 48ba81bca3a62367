package users

import "time"

// User is a registered account.
type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Response is the outward-facing representation of a user.
type Response struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

func toResponse(u User) Response {
	return Response{ID: u.ID, Email: u.Email, FullName: u.FullName}
}
