package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

// Repository provides balance and ledger operations. Every balance change
// and its ledger entry commit in one transaction under a row lock.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) beginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

// lockBalance upserts the balance row on first touch and locks it.
func (r *Repository) lockBalance(ctx context.Context, tx *sqlx.Tx, steamID string) (int64, error) {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_balances (steam_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (steam_id) DO NOTHING
	`, steamID); err != nil {
		return 0, fmt.Errorf("%w: ensure balance row", ErrInternal)
	}

	var balance int64
	if err := tx.GetContext(ctx, &balance, `SELECT balance FROM user_balances WHERE steam_id = $1 FOR UPDATE`, steamID); err != nil {
		return 0, fmt.Errorf("%w: lock balance row", ErrInternal)
	}
	return balance, nil
}

func (r *Repository) updateBalance(ctx context.Context, tx *sqlx.Tx, steamID string, balance int64) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE user_balances SET balance = $1, updated_at = now() WHERE steam_id = $2
	`, balance, steamID); err != nil {
		return fmt.Errorf("%w: update balance", ErrInternal)
	}
	return nil
}

func (r *Repository) insertEntry(ctx context.Context, tx *sqlx.Tx, e Entry) error {
	if !validEntryType(e.EntryType) {
		return fmt.Errorf("%w: unknown entry type %q", ErrInternal, e.EntryType)
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if strings.TrimSpace(e.Reason) == "" {
		e.Reason = "credit balance adjustment"
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (id, steam_id, delta, entry_type, actor_id, related_type, related_id, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, e.SteamID, e.Delta, string(e.EntryType), e.ActorID, e.RelatedType, e.RelatedID, e.Reason); err != nil {
		return fmt.Errorf("%w: insert ledger entry", ErrInternal)
	}
	return nil
}

// Apply changes the balance by entry.Delta and appends the entry. Returns the
// resulting balance. Deltas that would take the balance below zero are
// rejected inside the row lock.
func (r *Repository) Apply(ctx context.Context, e Entry) (int64, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.beginTx(ctx2)
	if err != nil {
		return 0, fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	balance, err := r.lockBalance(ctx2, tx, e.SteamID)
	if err != nil {
		return 0, err
	}

	next := balance + e.Delta
	if next < 0 {
		return 0, ErrInsufficientCredits
	}

	if err := r.updateBalance(ctx2, tx, e.SteamID, next); err != nil {
		return 0, err
	}
	if err := r.insertEntry(ctx2, tx, e); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit tx", ErrInternal)
	}
	return next, nil
}

// SetBalance moves the balance to target and appends an admin_set_balance
// entry carrying the computed delta. The delta is derived inside the row
// lock, so concurrent writers cannot skew it. Returns (delta, newBalance).
func (r *Repository) SetBalance(ctx context.Context, steamID string, target int64, actorID, reason string) (int64, int64, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.beginTx(ctx2)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	balance, err := r.lockBalance(ctx2, tx, steamID)
	if err != nil {
		return 0, 0, err
	}

	delta := target - balance
	if delta == 0 {
		// Already at target; nothing to record.
		return 0, balance, tx.Commit()
	}
	if delta > MaxDelta || delta < -MaxDelta {
		return 0, 0, ErrInvalidDelta
	}

	if err := r.updateBalance(ctx2, tx, steamID, target); err != nil {
		return 0, 0, err
	}
	if err := r.insertEntry(ctx2, tx, NewAdminSetBalance(steamID, delta, actorID, reason)); err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("%w: commit tx", ErrInternal)
	}
	return delta, target, nil
}

// Append writes a ledger entry without touching the balance. Used by
// rollbacks requested with applyBalance=false, where the operator has
// already corrected the balance by hand.
func (r *Repository) Append(ctx context.Context, e Entry) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.beginTx(ctx2)
	if err != nil {
		return fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	if err := r.insertEntry(ctx2, tx, e); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx", ErrInternal)
	}
	return nil
}

// GetBalance returns the current balance, zero for users without a row yet.
func (r *Repository) GetBalance(ctx context.Context, steamID string) (int64, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var balance int64
	err := r.db.GetContext(ctx2, &balance, `SELECT balance FROM user_balances WHERE steam_id = $1`, steamID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: get balance", ErrInternal)
	}
	return balance, nil
}

// GetEntry returns one ledger entry by id.
func (r *Repository) GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var e Entry
	err := r.db.GetContext(ctx2, &e, `
		SELECT id, steam_id, delta, entry_type, actor_id, related_type, related_id, reason, created_at
		FROM ledger_entries
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("%w: get entry", ErrInternal)
	}
	return &e, nil
}

// ListEntries returns a user's ledger history, newest first.
func (r *Repository) ListEntries(ctx context.Context, steamID string, pagination Pagination) ([]Entry, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	limit := pagination.Limit
	if limit <= 0 {
		limit = 20
	}

	entries := make([]Entry, 0)
	err := r.db.SelectContext(ctx2, &entries, `
		SELECT id, steam_id, delta, entry_type, actor_id, related_type, related_id, reason, created_at
		FROM ledger_entries
		WHERE steam_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, steamID, limit, pagination.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list entries", ErrInternal)
	}
	return entries, nil
}

// SearchEntries returns filtered entries (admin use).
func (r *Repository) SearchEntries(ctx context.Context, filters SearchFilters) ([]Entry, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	base := `
		SELECT id, steam_id, delta, entry_type, actor_id, related_type, related_id, reason, created_at
		FROM ledger_entries
		WHERE 1=1`
	args := make([]interface{}, 0, 8)
	idx := 1

	if filters.SteamID != nil && *filters.SteamID != "" {
		base += fmt.Sprintf(" AND steam_id = $%d", idx)
		args = append(args, *filters.SteamID)
		idx++
	}
	if filters.EntryType != nil && *filters.EntryType != "" {
		base += fmt.Sprintf(" AND entry_type = $%d", idx)
		args = append(args, *filters.EntryType)
		idx++
	}
	if filters.DateFrom != nil {
		base += fmt.Sprintf(" AND created_at >= $%d", idx)
		args = append(args, *filters.DateFrom)
		idx++
	}
	if filters.DateTo != nil {
		base += fmt.Sprintf(" AND created_at <= $%d", idx)
		args = append(args, *filters.DateTo)
		idx++
	}
	if filters.RelatedType != nil && *filters.RelatedType != "" {
		base += fmt.Sprintf(" AND related_type = $%d", idx)
		args = append(args, *filters.RelatedType)
		idx++
	}
	if filters.RelatedID != nil && *filters.RelatedID != "" {
		base += fmt.Sprintf(" AND related_id = $%d", idx)
		args = append(args, *filters.RelatedID)
		idx++
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	base = strings.TrimSpace(base) + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, filters.Offset)

	entries := make([]Entry, 0)
	if err := r.db.SelectContext(ctx2, &entries, base, args...); err != nil {
		return nil, fmt.Errorf("%w: search entries", ErrInternal)
	}
	return entries, nil
}

// Reconcile recomputes the ledger sum for a user and reports drift against
// the stored balance. Normal operation cannot drift (both writes share one
// transaction); this catches out-of-band edits.
func (r *Repository) Reconcile(ctx context.Context, steamID string) (*Reconciliation, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var sum int64
	if err := r.db.GetContext(ctx2, &sum, `
		SELECT COALESCE(SUM(delta), 0) FROM ledger_entries WHERE steam_id = $1
	`, steamID); err != nil {
		return nil, fmt.Errorf("%w: sum ledger", ErrInternal)
	}

	balance, err := r.GetBalance(ctx, steamID)
	if err != nil {
		return nil, err
	}

	return &Reconciliation{
		SteamID:   steamID,
		Balance:   balance,
		LedgerSum: sum,
		Drift:     balance - sum,
	}, nil
}
