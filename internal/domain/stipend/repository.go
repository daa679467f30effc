package stipend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const queryTimeout = 3 * time.Second

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// InsertGuard claims the user-month. A duplicate-key failure means another
// process already granted this month and maps to ErrAlreadyGranted.
func (r *Repository) InsertGuard(ctx context.Context, g Grant) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO stipend_grants (grant_key, steam_id, month, credits)
		VALUES ($1, $2, $3, $4)
	`, g.GrantKey, g.SteamID, g.Month, g.Credits)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyGranted
		}
		return fmt.Errorf("%w: insert guard", ErrInternal)
	}
	return nil
}

// DeleteGuard removes a claimed guard so a failed grant can be retried.
func (r *Repository) DeleteGuard(ctx context.Context, grantKey string) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx2, `DELETE FROM stipend_grants WHERE grant_key = $1`, grantKey); err != nil {
		return fmt.Errorf("%w: delete guard", ErrInternal)
	}
	return nil
}

// ListBySteamID returns a user's stipend history, newest first.
func (r *Repository) ListBySteamID(ctx context.Context, steamID string) ([]Grant, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	grants := make([]Grant, 0)
	err := r.db.SelectContext(ctx2, &grants, `
		SELECT grant_key, steam_id, month, credits, created_at
		FROM stipend_grants
		WHERE steam_id = $1
		ORDER BY month DESC
	`, steamID)
	if err != nil {
		return nil, fmt.Errorf("%w: list grants", ErrInternal)
	}
	return grants, nil
}
