package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// GetByEmail returns the admin account for an email, nil if none exists.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*AdminAccount, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var account AdminAccount
	err := r.db.GetContext(ctx2, &account, `
		SELECT id, email, password_hash, created_at
		FROM admin_accounts
		WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get admin account", ErrInternal)
	}
	return &account, nil
}
