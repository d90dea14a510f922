package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/abdusco/shortener/internal"
	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

var visitColumns = []any{"id", "created_at", "updated_at", "link_id", "city", "country"}

type visitRow struct {
	ID        string  `db:"id"`
	CreatedAt Date    `db:"created_at"`
	UpdatedAt Date    `db:"updated_at"`
	LinkID    string  `db:"link_id"`
	City      *string `db:"city"`
	Country   *string `db:"country"`
}

type VisitsRepo struct {
	db *goqu.Database
}

func NewVisitsRepo(db *goqu.Database) *VisitsRepo {
	return &VisitsRepo{db: db}
}

// Create records one visit of the link. City and country are left empty.
func (r *VisitsRepo) Create(ctx context.Context, linkID string) (*internal.Visit, error) {
	log.Debug().Str("link_id", linkID).Msg("recording visit")

	now := NewDate(time.Now())
	row := visitRow{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		LinkID:    linkID,
	}

	query := r.db.Insert("visits").Rows(goqu.Record{
		"id":         row.ID,
		"created_at": row.CreatedAt,
		"updated_at": row.UpdatedAt,
		"link_id":    row.LinkID,
		"city":       nil,
		"country":    nil,
	})

	if _, err := query.Executor().ExecContext(ctx); err != nil {
		log.Error().Err(err).Str("link_id", linkID).Msg("failed to record visit")
		return nil, fmt.Errorf("insert visit: %w", err)
	}

	log.Debug().Str("link_id", linkID).Str("visit_id", row.ID).Msg("visit recorded successfully")
	return row.toDomain(), nil
}

func (r *VisitsRepo) ListByLink(ctx context.Context, linkID string) ([]*internal.Visit, error) {
	query := r.db.From("visits").
		Select(visitColumns...).
		Where(goqu.Ex{"link_id": linkID}).
		Order(goqu.C("created_at").Asc(), goqu.C("id").Asc())

	var rows []visitRow
	if err := query.ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}

	return lo.Map(rows, func(row visitRow, _ int) *internal.Visit {
		return row.toDomain()
	}), nil
}

// GetByID looks a visit up by its own id, regardless of the link it belongs to.
func (r *VisitsRepo) GetByID(ctx context.Context, id string) (*internal.Visit, error) {
	query := r.db.From("visits").
		Select(visitColumns...).
		Where(goqu.Ex{"id": id})

	var row visitRow
	found, err := query.ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("fetch visit: %w", err)
	}
	if !found {
		return nil, internal.ErrVisitNotFound
	}

	return row.toDomain(), nil
}

func (r *visitRow) toDomain() *internal.Visit {
	return &internal.Visit{
		ID:        r.ID,
		CreatedAt: r.CreatedAt.Time(),
		UpdatedAt: r.UpdatedAt.Time(),
		LinkID:    r.LinkID,
		City:      r.City,
		Country:   r.Country,
	}
}
