package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUserNotFound is returned when no user matches the requested id or email.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when signing up with an email that already
	// has an account.
	ErrEmailTaken = errors.New("email already registered")
)

// User is an account that can sign in and author posts. PasswordHash holds a
// bcrypt digest, never the plaintext.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Avatar       string
	Bio          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity derives the acting identity for this user.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email}
}

// AuthorRef derives the immutable author record attached to new posts.
func (u *User) AuthorRef() Author {
	return Author{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
		Bio:    u.Bio,
	}
}

type UserRepository interface {
	Insert(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
