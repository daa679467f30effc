package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/skinvaults/skinvaults-api/internal/pkg/validator"
)

// Service applies credit balance changes with validation on top of the
// repository's transactional guarantees.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func validateDelta(delta int64) error {
	if delta == 0 || delta > MaxDelta || delta < -MaxDelta {
		return ErrInvalidDelta
	}
	return nil
}

func validateSteamID(steamID string) error {
	if !validator.IsSteamID(steamID) {
		return ErrInvalidSteamID
	}
	return nil
}

// Apply validates and applies any prepared entry. Other domains (voucher,
// spin, stipend) grant credits through this path.
func (s *Service) Apply(ctx context.Context, e Entry) (int64, error) {
	if err := validateSteamID(e.SteamID); err != nil {
		return 0, err
	}
	if err := validateDelta(e.Delta); err != nil {
		return 0, err
	}

	balance, err := s.repo.Apply(ctx, e)
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("steam_id", e.SteamID).
		Int64("delta", e.Delta).
		Str("entry_type", string(e.EntryType)).
		Int64("balance", balance).
		Msg("ledger entry applied")
	return balance, nil
}

// Adjust applies a signed admin delta.
func (s *Service) Adjust(ctx context.Context, steamID string, delta int64, actorID, reason string) (int64, error) {
	return s.Apply(ctx, NewAdminAdjust(steamID, delta, actorID, reason))
}

// Grant adds credits to a user on behalf of an admin.
func (s *Service) Grant(ctx context.Context, steamID string, amount int64, actorID, reason string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidDelta
	}
	return s.Apply(ctx, NewAdminGrant(steamID, amount, actorID, reason))
}

// SetBalance moves a user's balance to an absolute target. History stays
// delta-based: the recorded entry carries target minus current.
func (s *Service) SetBalance(ctx context.Context, steamID string, target int64, actorID, reason string) (int64, int64, error) {
	if err := validateSteamID(steamID); err != nil {
		return 0, 0, err
	}
	if target < 0 {
		return 0, 0, ErrInvalidDelta
	}

	delta, balance, err := s.repo.SetBalance(ctx, steamID, target, actorID, reason)
	if err != nil {
		return 0, 0, err
	}

	log.Info().
		Str("steam_id", steamID).
		Int64("delta", delta).
		Int64("balance", balance).
		Str("actor_id", actorID).
		Msg("balance set")
	return delta, balance, nil
}

// Rollback appends a compensating entry for a prior entry. Rollbacks of
// rollback entries are rejected, so compensation chains cannot form. When
// applyBalance is false only the audit entry is written.
func (s *Service) Rollback(ctx context.Context, steamID string, entryID uuid.UUID, applyBalance bool, actorID, reason string) (int64, int64, error) {
	if err := validateSteamID(steamID); err != nil {
		return 0, 0, err
	}

	original, err := s.repo.GetEntry(ctx, entryID)
	if err != nil {
		return 0, 0, err
	}
	if original.SteamID != steamID {
		return 0, 0, ErrEntryNotFound
	}
	if original.EntryType == EntryTypeAdminRollback {
		return 0, 0, ErrRollbackOfRollback
	}

	compensating := NewRollback(*original, actorID, reason)

	var balance int64
	if applyBalance {
		balance, err = s.repo.Apply(ctx, compensating)
	} else {
		err = s.repo.Append(ctx, compensating)
		if err == nil {
			balance, err = s.repo.GetBalance(ctx, steamID)
		}
	}
	if err != nil {
		return 0, 0, err
	}

	log.Info().
		Str("steam_id", steamID).
		Str("entry_id", entryID.String()).
		Int64("rolled_back_delta", original.Delta).
		Bool("apply_balance", applyBalance).
		Msg("ledger entry rolled back")
	return original.Delta, balance, nil
}

// GetBalance returns the current balance for a user.
func (s *Service) GetBalance(ctx context.Context, steamID string) (int64, error) {
	if err := validateSteamID(steamID); err != nil {
		return 0, err
	}
	return s.repo.GetBalance(ctx, steamID)
}

// History returns a user's ledger, newest first.
func (s *Service) History(ctx context.Context, steamID string, limit, offset int) ([]Entry, error) {
	if err := validateSteamID(steamID); err != nil {
		return nil, err
	}
	return s.repo.ListEntries(ctx, steamID, Pagination{Limit: limit, Offset: offset})
}

// Search returns filtered entries (admin use).
func (s *Service) Search(ctx context.Context, filters SearchFilters) ([]Entry, error) {
	return s.repo.SearchEntries(ctx, filters)
}

// Reconcile reports drift between the stored balance and the ledger sum.
func (s *Service) Reconcile(ctx context.Context, steamID string) (*Reconciliation, error) {
	if err := validateSteamID(steamID); err != nil {
		return nil, err
	}
	return s.repo.Reconcile(ctx, steamID)
}
