package voucher

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
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

// InsertBatch stores a batch of freshly generated voucher hashes.
func (r *Repository) InsertBatch(ctx context.Context, vouchers []Voucher) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	for _, v := range vouchers {
		if _, err := tx.ExecContext(ctx2, `
			INSERT INTO vouchers (code_hash, sku_id, credits, pro_months, status, source, expires_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, v.CodeHash, v.SKUID, v.Credits, v.ProMonths, string(v.Status), v.Source, v.ExpiresAt, v.CreatedBy); err != nil {
			return fmt.Errorf("%w: insert voucher", ErrInternal)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx", ErrInternal)
	}
	return nil
}

// Redeem flips a voucher from active to redeemed. The WHERE clause is the
// whole concurrency story: two racing redeemers hit the same conditional
// update and exactly one sees a row come back.
func (r *Repository) Redeem(ctx context.Context, codeHash, steamID string) (*Voucher, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var v Voucher
	err := r.db.GetContext(ctx2, &v, `
		UPDATE vouchers
		SET status = 'redeemed', redeemed_by = $2, redeemed_at = now()
		WHERE code_hash = $1
		  AND status = 'active'
		  AND (expires_at IS NULL OR expires_at > now())
		RETURNING code_hash, sku_id, credits, pro_months, status, source, expires_at, created_by, redeemed_by, redeemed_at, created_at
	`, codeHash, steamID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, fmt.Errorf("%w: redeem voucher", ErrInternal)
	}
	return &v, nil
}

// Disable marks a voucher unusable. Redeemed vouchers stay redeemed.
func (r *Repository) Disable(ctx context.Context, codeHash string) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE vouchers SET status = 'disabled' WHERE code_hash = $1 AND status = 'active'
	`, codeHash)
	if err != nil {
		return fmt.Errorf("%w: disable voucher", ErrInternal)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBySKU returns vouchers for one SKU, newest first (admin use).
func (r *Repository) ListBySKU(ctx context.Context, skuID string, limit, offset int) ([]Voucher, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}

	vouchers := make([]Voucher, 0)
	err := r.db.SelectContext(ctx2, &vouchers, `
		SELECT code_hash, sku_id, credits, pro_months, status, source, expires_at, created_by, redeemed_by, redeemed_at, created_at
		FROM vouchers
		WHERE sku_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, skuID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list vouchers", ErrInternal)
	}
	return vouchers, nil
}
