package domain

import (
	"context"
	"time"
)

// Post is a single blog entry. UpdatedAt is stamped by the server on every
// write.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"titulo" validate:"notblank,min=5,max=100"`
	Body      string    `json:"texto" validate:"notblank,min=10,max=1000"`
	UpdatedAt time.Time `json:"data"`
}

// PostRepository is the port for post persistence.
type PostRepository interface {
	Create(ctx context.Context, p *Post) (*Post, error)
	Update(ctx context.Context, p *Post) (*Post, error)
	GetByID(ctx context.Context, id int64) (*Post, error)
	List(ctx context.Context) ([]Post, error)
	// SearchByTitle returns posts whose title contains fragment, ignoring case.
	SearchByTitle(ctx context.Context, fragment string) ([]Post, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
