package postgres

import (
	"context"
	"database/sql"
	"errors"

	"blogpessoal/internal/domain"
)

const userColumns = "id, nome, usuario, senha, foto, created_at"

// UserRepo implements domain.UserRepository on tb_usuarios.
type UserRepo struct {
	db *DB
}

// NewUserRepo wraps a DB as a UserRepository.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

var _ domain.UserRepository = (*UserRepo)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Photo, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. A duplicate email yields domain.ErrEmailTaken.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	created, err := scanUser(r.db.sql.QueryRowContext(ctx,
		"INSERT INTO tb_usuarios (nome, usuario, senha, foto) VALUES ($1, $2, $3, $4) RETURNING "+userColumns,
		u.Name, u.Email, u.PasswordHash, u.Photo,
	))
	if isUniqueViolation(err) {
		return nil, domain.ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update overwrites the user with the same ID.
func (r *UserRepo) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	updated, err := scanUser(r.db.sql.QueryRowContext(ctx,
		"UPDATE tb_usuarios SET nome = $2, usuario = $3, senha = $4, foto = $5 WHERE id = $1 RETURNING "+userColumns,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Photo,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if isUniqueViolation(err) {
		return nil, domain.ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(r.db.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM tb_usuarios WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// GetByEmail retrieves a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(r.db.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM tb_usuarios WHERE usuario = $1", email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// List returns all users ordered by ID.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.sql.QueryContext(ctx, "SELECT "+userColumns+" FROM tb_usuarios ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// Count returns the total number of users.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM tb_usuarios").Scan(&count)
	return count, err
}
