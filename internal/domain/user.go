// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// User represents a registered blog author. Email is the login name and is
// unique across all users.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"nome"`
	Email        string    `json:"usuario"`
	PasswordHash string    `json:"-"`
	Photo        string    `json:"foto"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserInput carries the client-supplied fields for registering or updating a
// user. Password is plain text and is hashed by the application layer.
type UserInput struct {
	ID       int64  `json:"id"`
	Name     string `json:"nome" validate:"notblank,max=255"`
	Email    string `json:"usuario" validate:"required,email,max=255"`
	Password string `json:"senha" validate:"required,min=8,bcryptmax"`
	Photo    string `json:"foto" validate:"max=5000"`
}

// UserRepository defines the port for user persistence operations.
// Lookups return (nil, nil) when no user matches.
type UserRepository interface {
	Create(ctx context.Context, u *User) (*User, error)
	Update(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Count(ctx context.Context) (int, error)
}
