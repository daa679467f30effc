package stipend

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/skinvaults/skinvaults-api/internal/domain/ledger"
)

// CreditGranter is the slice of the ledger service stipends need.
type CreditGranter interface {
	Apply(ctx context.Context, e ledger.Entry) (int64, error)
}

// ProChecker reports whether a user has an active Pro membership.
type ProChecker interface {
	IsActive(ctx context.Context, steamID string) (bool, error)
}

type Service struct {
	repo    *Repository
	credits CreditGranter
	pro     ProChecker

	stipendCredits int64
	now            func() time.Time
}

func NewService(repo *Repository, credits CreditGranter, pro ProChecker, stipendCredits int) *Service {
	if stipendCredits <= 0 {
		stipendCredits = 500
	}
	return &Service{
		repo:           repo,
		credits:        credits,
		pro:            pro,
		stipendCredits: int64(stipendCredits),
		now:            time.Now,
	}
}

// Result of one stipend claim.
type Result struct {
	Granted bool
	Credits int64
	Month   string
	Balance int64
}

// Claim pays the current month's Pro stipend exactly once. The guard insert
// happens before the credit grant; if the grant fails the guard is deleted
// so the claim can be retried.
func (s *Service) Claim(ctx context.Context, steamID string) (*Result, error) {
	active, err := s.pro.IsActive(ctx, steamID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrNotEligible
	}

	month := MonthOf(s.now())
	guard := Grant{
		GrantKey: GrantKey(steamID, month),
		SteamID:  steamID,
		Month:    month,
		Credits:  s.stipendCredits,
	}

	if err := s.repo.InsertGuard(ctx, guard); err != nil {
		return nil, err
	}

	balance, err := s.credits.Apply(ctx, ledger.NewProStipend(steamID, s.stipendCredits, month))
	if err != nil {
		// Compensating delete keeps the month claimable.
		if delErr := s.repo.DeleteGuard(ctx, guard.GrantKey); delErr != nil {
			log.Error().Err(delErr).
				Str("grant_key", guard.GrantKey).
				Msg("failed to release stipend guard after grant failure")
		}
		return nil, err
	}

	log.Info().
		Str("steam_id", steamID).
		Str("month", month).
		Int64("credits", s.stipendCredits).
		Msg("pro monthly stipend granted")

	return &Result{Granted: true, Credits: s.stipendCredits, Month: month, Balance: balance}, nil
}

// History returns a user's past stipend grants.
func (s *Service) History(ctx context.Context, steamID string) ([]Grant, error) {
	return s.repo.ListBySteamID(ctx, steamID)
}

// CurrentMonth exposes the month a claim would target right now.
func (s *Service) CurrentMonth() string {
	return MonthOf(s.now())
}
