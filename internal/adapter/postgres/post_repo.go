package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"blogpessoal/internal/domain"
)

const postColumns = "id, titulo, texto, data"

// PostRepo implements domain.PostRepository on tb_postagens.
type PostRepo struct {
	db *DB
}

// NewPostRepo wraps a DB as a PostRepository.
func NewPostRepo(db *DB) *PostRepo {
	return &PostRepo{db: db}
}

var _ domain.PostRepository = (*PostRepo)(nil)

func scanPost(row rowScanner) (*domain.Post, error) {
	var p domain.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Body, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

// Create inserts a new post.
func (r *PostRepo) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	return scanPost(r.db.sql.QueryRowContext(ctx,
		"INSERT INTO tb_postagens (titulo, texto, data) VALUES ($1, $2, $3) RETURNING "+postColumns,
		p.Title, p.Body, p.UpdatedAt.UTC(),
	))
}

// Update overwrites the post with the same ID.
func (r *PostRepo) Update(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	updated, err := scanPost(r.db.sql.QueryRowContext(ctx,
		"UPDATE tb_postagens SET titulo = $2, texto = $3, data = $4 WHERE id = $1 RETURNING "+postColumns,
		p.ID, p.Title, p.Body, p.UpdatedAt.UTC(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return updated, err
}

// GetByID retrieves a post by ID.
func (r *PostRepo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	p, err := scanPost(r.db.sql.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM tb_postagens WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// List returns all posts ordered by ID.
func (r *PostRepo) List(ctx context.Context) ([]domain.Post, error) {
	return r.query(ctx, "SELECT "+postColumns+" FROM tb_postagens ORDER BY id")
}

// SearchByTitle returns the posts whose title contains fragment, ignoring case.
// LIKE wildcards in fragment match literally.
func (r *PostRepo) SearchByTitle(ctx context.Context, fragment string) ([]domain.Post, error) {
	return r.query(ctx,
		`SELECT `+postColumns+` FROM tb_postagens WHERE titulo ILIKE $1 ESCAPE '\' ORDER BY id`,
		"%"+escapeLike(fragment)+"%",
	)
}

// Delete removes a post by ID. It reports whether a row was removed.
func (r *PostRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.sql.ExecContext(ctx, "DELETE FROM tb_postagens WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostRepo) query(ctx context.Context, query string, args ...any) ([]domain.Post, error) {
	rows, err := r.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
