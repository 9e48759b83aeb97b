package model

import "strings"

// Role of an account
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is an entry of the account directory. Password is kept in plaintext: demo accounts only.
type User struct {
	Email    string `json:"email" yaml:"email"`
	Password string `json:"password" yaml:"password"`
	Name     string `json:"name" yaml:"name"`
	Role     Role   `json:"role" yaml:"role"`
}

// Session is a snapshot of the user taken at login. It is not kept in sync with the directory.
type Session struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
}

// IsAdmin reports whether the session carries the admin role
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// NewSession snapshots the user
func NewSession(u User) Session {
	return Session{Email: u.Email, DisplayName: u.Name, Role: u.Role}
}

// FindUserByEmail returns the index of the user whose email matches case-insensitively, or -1
func FindUserByEmail(users []User, email string) int {
	email = strings.TrimSpace(email)
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return i
		}
	}
	return -1
}
