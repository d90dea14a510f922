//go:build integration

package repo

import (
	"context"
	"testing"
	"time"

	"github.com/abdusco/shortener/internal"
	"github.com/abdusco/shortener/internal/db"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	testpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T) *db.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := testpostgres.Run(ctx,
		"postgres:16-alpine",
		testpostgres.WithDatabase("shortener"),
		testpostgres.WithUsername("shortener"),
		testpostgres.WithPassword("shortener"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { pgContainer.Terminate(ctx) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	database, err := db.Open(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	return database
}

func TestPostgres_LinksAndVisits(t *testing.T) {
	ctx := context.Background()
	database := setupPostgres(t)
	assert.Equal(t, "postgres", database.Dialect())

	links := NewLinksRepo(database.Database)
	visits := NewVisitsRepo(database.Database)

	link, err := links.Create(ctx, NewLink{URL: "https://example.com", Slug: "pg", Title: lo.ToPtr("Postgres")})
	require.NoError(t, err)

	_, err = links.Create(ctx, NewLink{URL: "https://other.example.com", Slug: "pg"})
	assert.ErrorIs(t, err, internal.ErrSlugExists)

	got, err := links.GetBySlug(ctx, "pg")
	require.NoError(t, err)
	assert.Equal(t, link.ID, got.ID)
	assert.True(t, link.CreatedAt.Equal(got.CreatedAt))

	updated, err := links.Update(ctx, link.ID, LinkChanges{URL: lo.ToPtr("https://example.org")})
	require.NoError(t, err)
	assert.Equal(t, "https://example.org", updated.URL)
	assert.Equal(t, "pg", updated.Slug)

	_, err = visits.Create(ctx, link.ID)
	require.NoError(t, err)

	require.NoError(t, links.Delete(ctx, link.ID))
	_, err = links.GetByID(ctx, link.ID)
	assert.ErrorIs(t, err, internal.ErrLinkNotFound)

	list, err := visits.ListByLink(ctx, link.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
