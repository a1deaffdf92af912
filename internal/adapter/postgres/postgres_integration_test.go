//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"blogpessoal/internal/adapter/postgres"
	"blogpessoal/internal/domain"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("blogpessoal"),
		tcpostgres.WithUsername("blog"),
		tcpostgres.WithPassword("blog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return connStr
}

func TestMigrator_FullCycle(t *testing.T) {
	connStr := startPostgres(t)

	m, err := postgres.NewMigrator(connStr)
	require.NoError(t, err)
	defer m.Close()

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	assert.False(t, dirty)

	require.NoError(t, m.Up())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	require.NoError(t, m.Down())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
}

func TestRepositories(t *testing.T) {
	connStr := startPostgres(t)
	ctx := context.Background()

	db, err := postgres.Open(connStr, postgres.DefaultOptions())
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Ping(ctx))

	users := postgres.NewUserRepo(db)
	posts := postgres.NewPostRepo(db)

	t.Run("users", func(t *testing.T) {
		u, err := users.Create(ctx, &domain.User{Name: "Root", Email: "root@root.com", PasswordHash: "hash"})
		require.NoError(t, err)
		assert.NotZero(t, u.ID)
		assert.False(t, u.CreatedAt.IsZero())

		_, err = users.Create(ctx, &domain.User{Name: "Dup", Email: "root@root.com", PasswordHash: "hash"})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)

		got, err := users.GetByEmail(ctx, "root@root.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, u.ID, got.ID)

		missing, err := users.GetByID(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, missing)

		got.Name = "Root Atualizado"
		updated, err := users.Update(ctx, got)
		require.NoError(t, err)
		assert.Equal(t, "Root Atualizado", updated.Name)

		_, err = users.Update(ctx, &domain.User{ID: 9999, Email: "x@x.com"})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		count, err := users.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("posts", func(t *testing.T) {
		stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		for _, title := range []string{"Aprendendo Go", "GOLANG avançado", "Receita de bolo", "Desconto de 100%"} {
			_, err := posts.Create(ctx, &domain.Post{Title: title, Body: "Conteúdo da postagem", UpdatedAt: stamp})
			require.NoError(t, err)
		}

		found, err := posts.SearchByTitle(ctx, "go")
		require.NoError(t, err)
		assert.Len(t, found, 2)

		found, err = posts.SearchByTitle(ctx, "%")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Desconto de 100%", found[0].Title)

		all, err := posts.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.True(t, all[0].UpdatedAt.Equal(stamp))

		ok, err := posts.Delete(ctx, all[0].ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = posts.Delete(ctx, all[0].ID)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = posts.Update(ctx, &domain.Post{ID: all[0].ID, Title: "Sumiu", Body: "Não existe mais"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
