package app

import (
	"context"
	"time"

	"blogpessoal/internal/domain"
)

type mockUserRepo struct {
	createFn     func(ctx context.Context, u *domain.User) (*domain.User, error)
	updateFn     func(ctx context.Context, u *domain.User) (*domain.User, error)
	getByIDFn    func(ctx context.Context, id int64) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	listFn       func(ctx context.Context) ([]domain.User, error)
	countFn      func(ctx context.Context) (int, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	out := *u
	out.ID = 1
	return &out, nil
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, u)
	}
	out := *u
	return &out, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockPostRepo struct {
	createFn  func(ctx context.Context, p *domain.Post) (*domain.Post, error)
	updateFn  func(ctx context.Context, p *domain.Post) (*domain.Post, error)
	getByIDFn func(ctx context.Context, id int64) (*domain.Post, error)
	listFn    func(ctx context.Context) ([]domain.Post, error)
	searchFn  func(ctx context.Context, fragment string) ([]domain.Post, error)
	deleteFn  func(ctx context.Context, id int64) (bool, error)
}

func (m *mockPostRepo) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	out := *p
	out.ID = 1
	return &out, nil
}

func (m *mockPostRepo) Update(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, p)
	}
	out := *p
	return &out, nil
}

func (m *mockPostRepo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockPostRepo) List(ctx context.Context) ([]domain.Post, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockPostRepo) SearchByTitle(ctx context.Context, fragment string) ([]domain.Post, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, fragment)
	}
	return nil, nil
}

func (m *mockPostRepo) Delete(ctx context.Context, id int64) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return false, nil
}

type mockDenylist struct {
	revokeFn    func(ctx context.Context, jti string, until time.Time) error
	isRevokedFn func(ctx context.Context, jti string) (bool, error)
}

func (m *mockDenylist) Revoke(ctx context.Context, jti string, until time.Time) error {
	if m.revokeFn != nil {
		return m.revokeFn(ctx, jti, until)
	}
	return nil
}

func (m *mockDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if m.isRevokedFn != nil {
		return m.isRevokedFn(ctx, jti)
	}
	return false, nil
}
