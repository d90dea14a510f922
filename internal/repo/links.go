package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/abdusco/shortener/internal"
	"github.com/abdusco/shortener/internal/db"
	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

var linkColumns = []any{"id", "created_at", "updated_at", "url", "slug", "title", "expires_at"}

type linkRow struct {
	ID        string  `db:"id"`
	CreatedAt Date    `db:"created_at"`
	UpdatedAt Date    `db:"updated_at"`
	URL       string  `db:"url"`
	Slug      string  `db:"slug"`
	Title     *string `db:"title"`
	ExpiresAt *Date   `db:"expires_at"`
}

type NewLink struct {
	URL       string
	Slug      string
	Title     *string
	ExpiresAt *time.Time
}

// LinkChanges holds the fields of a partial update. Nil or unset fields are left untouched,
// Title and ExpiresAt set to null are cleared.
type LinkChanges struct {
	URL       *string
	Slug      *string
	Title     internal.Optional[string]
	ExpiresAt internal.Optional[time.Time]
}

type LinksRepo struct {
	db *goqu.Database
}

func NewLinksRepo(db *goqu.Database) *LinksRepo {
	return &LinksRepo{db: db}
}

// Create inserts a link under a fresh id. A slug already in use yields internal.ErrSlugExists.
func (r *LinksRepo) Create(ctx context.Context, in NewLink) (*internal.Link, error) {
	log.Debug().Str("slug", in.Slug).Str("url", in.URL).Msg("creating link")

	now := NewDate(time.Now())
	row := linkRow{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		URL:       in.URL,
		Slug:      in.Slug,
		Title:     in.Title,
		ExpiresAt: toDatePtr(in.ExpiresAt),
	}

	query := r.db.Insert("links").Rows(goqu.Record{
		"id":         row.ID,
		"created_at": row.CreatedAt,
		"updated_at": row.UpdatedAt,
		"url":        row.URL,
		"slug":       row.Slug,
		"title":      nullable(row.Title),
		"expires_at": nullable(row.ExpiresAt),
	})

	if _, err := query.Executor().ExecContext(ctx); err != nil {
		if db.IsUniqueViolation(err) {
			log.Debug().Str("slug", in.Slug).Msg("slug already taken")
			return nil, internal.ErrSlugExists
		}
		log.Error().Err(err).Str("slug", in.Slug).Msg("failed to create link")
		return nil, fmt.Errorf("insert link: %w", err)
	}

	link := row.toDomain()
	log.Info().Str("id", link.ID).Str("slug", link.Slug).Msg("link created successfully")

	return link, nil
}

func (r *LinksRepo) GetByID(ctx context.Context, id string) (*internal.Link, error) {
	return r.getOne(ctx, goqu.Ex{"id": id})
}

func (r *LinksRepo) GetBySlug(ctx context.Context, slug string) (*internal.Link, error) {
	log.Debug().Str("slug", slug).Msg("fetching link by slug")
	return r.getOne(ctx, goqu.Ex{"slug": slug})
}

// FindByURL returns the oldest link pointing at url.
func (r *LinksRepo) FindByURL(ctx context.Context, url string) (*internal.Link, error) {
	return r.getOne(ctx, goqu.Ex{"url": url})
}

func (r *LinksRepo) getOne(ctx context.Context, where goqu.Ex) (*internal.Link, error) {
	query := r.db.From("links").
		Select(linkColumns...).
		Where(where).
		Order(goqu.C("created_at").Asc(), goqu.C("id").Asc())

	var row linkRow
	found, err := query.ScanStructContext(ctx, &row)
	if err != nil {
		log.Error().Err(err).Interface("where", where).Msg("failed to fetch link")
		return nil, fmt.Errorf("fetch link: %w", err)
	}

	if !found {
		return nil, internal.ErrLinkNotFound
	}

	return row.toDomain(), nil
}

func (r *LinksRepo) ListAll(ctx context.Context) ([]*internal.Link, error) {
	return r.list(ctx, nil)
}

// ListBySlug returns every link carrying slug. The unique constraint keeps this at most one.
func (r *LinksRepo) ListBySlug(ctx context.Context, slug string) ([]*internal.Link, error) {
	return r.list(ctx, goqu.Ex{"slug": slug})
}

func (r *LinksRepo) list(ctx context.Context, where goqu.Ex) ([]*internal.Link, error) {
	query := r.db.From("links").
		Select(linkColumns...).
		Order(goqu.C("created_at").Asc(), goqu.C("id").Asc())
	if where != nil {
		query = query.Where(where)
	}

	var rows []linkRow
	if err := query.ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}

	return lo.Map(rows, func(row linkRow, _ int) *internal.Link {
		return row.toDomain()
	}), nil
}

// Update applies changes to the link and refreshes updated_at.
func (r *LinksRepo) Update(ctx context.Context, id string, changes LinkChanges) (*internal.Link, error) {
	record := goqu.Record{
		"updated_at": NewDate(time.Now()),
	}
	if changes.URL != nil {
		record["url"] = *changes.URL
	}
	if changes.Slug != nil {
		record["slug"] = *changes.Slug
	}
	if changes.Title.Set {
		record["title"] = nullable(changes.Title.Value)
	}
	if changes.ExpiresAt.Set {
		record["expires_at"] = nullable(toDatePtr(changes.ExpiresAt.Value))
	}

	query := r.db.Update("links").Set(record).Where(goqu.Ex{"id": id})

	res, err := query.Executor().ExecContext(ctx)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, internal.ErrSlugExists
		}
		log.Error().Err(err).Str("id", id).Msg("failed to update link")
		return nil, fmt.Errorf("update link: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, internal.ErrLinkNotFound
	}

	log.Info().Str("id", id).Msg("link updated")

	return r.GetByID(ctx, id)
}

func (r *LinksRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.Delete("links").Where(goqu.Ex{"id": id}).Executor().ExecContext(ctx)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to delete link")
		return fmt.Errorf("delete link: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	if n == 0 {
		return internal.ErrLinkNotFound
	}

	log.Info().Str("id", id).Msg("link deleted")
	return nil
}

func (r *linkRow) toDomain() *internal.Link {
	return &internal.Link{
		ID:        r.ID,
		CreatedAt: r.CreatedAt.Time(),
		UpdatedAt: r.UpdatedAt.Time(),
		URL:       r.URL,
		Slug:      r.Slug,
		Title:     r.Title,
		ExpiresAt: r.ExpiresAt.TimePtr(),
	}
}

func toDatePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := NewDate(*t)
	return &d
}

// nullable unwraps a pointer so goqu renders nil as NULL.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

