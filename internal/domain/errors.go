package domain

import "errors"

var (
	// ErrNotFound indicates that the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken indicates that another user already registered the email.
	ErrEmailTaken = errors.New("usuário já existe")
)
