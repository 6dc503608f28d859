package user

import "errors"

var (
	ErrNotFound           = errors.New("user: not found")
	ErrAlreadyExists      = errors.New("user: email already registered")
	ErrInvalidCredentials = errors.New("user: invalid email or password")
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Address      string
	Phone        string
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}
