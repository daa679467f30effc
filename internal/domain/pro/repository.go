package pro

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the membership for a user, nil if none exists.
func (r *Repository) Get(ctx context.Context, steamID string) (*Membership, error) {
	var m Membership
	err := r.db.GetContext(ctx, &m, `
		SELECT steam_id, pro_until, updated_at FROM pro_memberships WHERE steam_id = $1
	`, steamID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ExtendMonths pushes pro_until forward by n months. An expired or missing
// membership extends from now, an active one from its current end.
func (r *Repository) ExtendMonths(ctx context.Context, steamID string, months int) (time.Time, error) {
	var proUntil time.Time
	err := r.db.GetContext(ctx, &proUntil, `
		INSERT INTO pro_memberships (steam_id, pro_until)
		VALUES ($1, now() + make_interval(months => $2))
		ON CONFLICT (steam_id) DO UPDATE
		SET pro_until = GREATEST(pro_memberships.pro_until, now()) + make_interval(months => $2),
		    updated_at = now()
		RETURNING pro_until
	`, steamID, months)
	if err != nil {
		return time.Time{}, err
	}
	return proUntil, nil
}

// IsActive reports whether the user has Pro running right now.
func (r *Repository) IsActive(ctx context.Context, steamID string) (bool, error) {
	m, err := r.Get(ctx, steamID)
	if err != nil {
		return false, err
	}
	return m.Active(time.Now()), nil
}
