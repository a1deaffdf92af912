package app

import (
	"context"
	"errors"
	"time"

	"blogpessoal/internal/domain"
)

// ErrMissingID is returned when an update does not name the entity to change.
var ErrMissingID = errors.New("id is required")

// PostService encapsulates blog post use cases.
type PostService struct {
	repo domain.PostRepository
	now  func() time.Time
}

// NewPostService creates a PostService backed by the given repository.
func NewPostService(repo domain.PostRepository) *PostService {
	return &PostService{repo: repo, now: time.Now}
}

// Create validates and stores a new post, stamping its update time.
func (s *PostService) Create(ctx context.Context, p domain.Post) (*domain.Post, error) {
	if err := domain.Validate(p); err != nil {
		return nil, err
	}
	p.ID = 0
	p.UpdatedAt = s.now().UTC()
	return s.repo.Create(ctx, &p)
}

// Update replaces title and body of an existing post and restamps it.
func (s *PostService) Update(ctx context.Context, p domain.Post) (*domain.Post, error) {
	if p.ID <= 0 {
		return nil, ErrMissingID
	}
	if err := domain.Validate(p); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	p.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, &p)
}

// List returns all posts.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	return s.repo.List(ctx)
}

// Get returns the post with the given id.
func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// SearchByTitle returns the posts whose title contains fragment, ignoring case.
func (s *PostService) SearchByTitle(ctx context.Context, fragment string) ([]domain.Post, error) {
	return s.repo.SearchByTitle(ctx, fragment)
}

// Delete removes a post.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}
