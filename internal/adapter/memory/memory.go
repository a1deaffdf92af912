// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"blogpessoal/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu      sync.Mutex
	users   []*domain.User
	posts   []*domain.Post
	revoked map[string]time.Time

	userIDCounter int64
	postIDCounter int64

	now func() time.Time
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*UserRepo)(nil)
var _ domain.PostRepository = (*PostRepo)(nil)
var _ domain.TokenDenylist = (*Denylist)(nil)

// --- UserRepository ---

// UserRepo implements user persistence.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new user repository.
func (db *DB) NewUserRepo() *UserRepo {
	return &UserRepo{db: db}
}

// Create creates a new user.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.findByEmail(u.Email) != nil {
		return nil, domain.ErrEmailTaken
	}

	r.db.userIDCounter++
	stored := *u
	stored.ID = r.db.userIDCounter
	stored.CreatedAt = r.db.now().UTC()
	r.db.users = append(r.db.users, &stored)

	out := stored
	return &out, nil
}

// Update replaces the stored user with the same ID.
func (r *UserRepo) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if other := r.findByEmail(u.Email); other != nil && other.ID != u.ID {
		return nil, domain.ErrEmailTaken
	}

	for _, existing := range r.db.users {
		if existing.ID == u.ID {
			createdAt := existing.CreatedAt
			*existing = *u
			existing.CreatedAt = createdAt
			out := *existing
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if u := r.findByEmail(email); u != nil {
		out := *u
		return &out, nil
	}
	// Return nil if not found
	return nil, nil
}

// List returns all users ordered by ID.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	result := make([]domain.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		result = append(result, *u)
	}
	return result, nil
}

// Count returns the total number of users.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.users), nil
}

// findByEmail expects the lock to be held.
func (r *UserRepo) findByEmail(email string) *domain.User {
	for _, u := range r.db.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

// --- PostRepository ---

// PostRepo implements post persistence.
type PostRepo struct {
	db *DB
}

// NewPostRepo creates a new post repository.
func (db *DB) NewPostRepo() *PostRepo {
	return &PostRepo{db: db}
}

// Create stores a new post and assigns its ID.
func (r *PostRepo) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.postIDCounter++
	stored := *p
	stored.ID = r.db.postIDCounter
	stored.UpdatedAt = stored.UpdatedAt.UTC()
	r.db.posts = append(r.db.posts, &stored)

	out := stored
	return &out, nil
}

// Update replaces the stored post with the same ID.
func (r *PostRepo) Update(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.posts {
		if existing.ID == p.ID {
			*existing = *p
			existing.UpdatedAt = existing.UpdatedAt.UTC()
			out := *existing
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetByID retrieves a post by ID.
func (r *PostRepo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, p := range r.db.posts {
		if p.ID == id {
			out := *p
			return &out, nil
		}
	}
	return nil, nil
}

// List returns all posts ordered by ID.
func (r *PostRepo) List(ctx context.Context) ([]domain.Post, error) {
	return r.filter(func(domain.Post) bool { return true }), nil
}

// SearchByTitle returns the posts whose title contains fragment, ignoring case.
func (r *PostRepo) SearchByTitle(ctx context.Context, fragment string) ([]domain.Post, error) {
	needle := strings.ToLower(fragment)
	return r.filter(func(p domain.Post) bool {
		return strings.Contains(strings.ToLower(p.Title), needle)
	}), nil
}

// Delete removes a post by ID. It reports whether a post was removed.
func (r *PostRepo) Delete(ctx context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, p := range r.db.posts {
		if p.ID == id {
			r.db.posts = append(r.db.posts[:i], r.db.posts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *PostRepo) filter(keep func(domain.Post) bool) []domain.Post {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	result := make([]domain.Post, 0, len(r.db.posts))
	for _, p := range r.db.posts {
		if keep(*p) {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// --- TokenDenylist ---

// Denylist records revoked token IDs until they expire.
type Denylist struct {
	db *DB
}

// NewDenylist creates a new token denylist.
func (db *DB) NewDenylist() *Denylist {
	return &Denylist{db: db}
}

// Revoke marks jti as revoked until the given time.
func (d *Denylist) Revoke(ctx context.Context, jti string, until time.Time) error {
	d.db.mu.Lock()
	defer d.db.mu.Unlock()
	d.db.revoked[jti] = until
	return nil
}

// IsRevoked reports whether jti has been revoked and has not yet expired.
func (d *Denylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	d.db.mu.Lock()
	defer d.db.mu.Unlock()

	until, ok := d.db.revoked[jti]
	if !ok {
		return false, nil
	}
	if d.db.now().After(until) {
		delete(d.db.revoked, jti)
		return false, nil
	}
	return true, nil
}

// DeleteExpired drops revocations whose tokens have already expired.
func (d *Denylist) DeleteExpired(ctx context.Context) error {
	d.db.mu.Lock()
	defer d.db.mu.Unlock()
	now := d.db.now()
	for k, until := range d.db.revoked {
		if now.After(until) {
			delete(d.db.revoked, k)
		}
	}
	return nil
}
