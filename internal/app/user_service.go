package app

import (
	"context"
	"errors"

	"blogpessoal/internal/auth"
	"blogpessoal/internal/domain"
)

// UserService encapsulates user registration and maintenance use cases.
type UserService struct {
	repo domain.UserRepository
}

// NewUserService creates a UserService backed by the given repository.
func NewUserService(repo domain.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register validates and stores a new user. The email must not belong to
// another user.
func (s *UserService) Register(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Photo:        in.Photo,
	})
}

// Update replaces the stored fields of the user identified by in.ID.
func (s *UserService) Update(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}

	owner, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if owner != nil && owner.ID != in.ID {
		return nil, domain.ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	current.Name = in.Name
	current.Email = in.Email
	current.PasswordHash = hash
	current.Photo = in.Photo
	return s.repo.Update(ctx, current)
}

// List returns every registered user.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

// Get returns the user with the given id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

// ErrUsersExist is returned by CreateInitialUser once any account exists.
var ErrUsersExist = errors.New("users already exist")

// CreateInitialUser creates the first user if no users exist.
func (s *UserService) CreateInitialUser(ctx context.Context, name, email, password string) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}

	if count > 0 {
		return ErrUsersExist
	}

	_, err = s.Register(ctx, domain.UserInput{Name: name, Email: email, Password: password})
	return err
}
