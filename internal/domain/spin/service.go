package spin

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/skinvaults/skinvaults-api/internal/domain/ledger"
)

const dailyKeyPrefix = "spin:daily:"

// CreditGranter is the slice of the ledger service the wheel needs.
type CreditGranter interface {
	Apply(ctx context.Context, e ledger.Entry) (int64, error)
}

type Service struct {
	picker  *Picker
	credits CreditGranter
	redis   *redis.Client
	now     func() time.Time
}

// NewService builds the daily spin service. rnd may be nil, in which case a
// time-seeded source is used.
func NewService(credits CreditGranter, redisClient *redis.Client, rnd RandFunc) *Service {
	if rnd == nil {
		src := rand.New(rand.NewSource(time.Now().UnixNano()))
		rnd = src.Float64
	}
	return &Service{
		picker:  NewPicker(DefaultTiers, rnd),
		credits: credits,
		redis:   redisClient,
		now:     time.Now,
	}
}

// Result of one spin.
type Result struct {
	Tier       Tier
	Balance    int64
	NextSpinAt time.Time
}

func dailyKey(steamID string, day time.Time) string {
	return fmt.Sprintf("%s%s:%s", dailyKeyPrefix, steamID, day.UTC().Format("2006-01-02"))
}

func nextUTCMidnight(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
}

// Spin draws one tier and credits the user, once per UTC day. Eligibility
// rests on a Redis SET NX with a TTL reaching past midnight; the draw itself
// stays pure.
func (s *Service) Spin(ctx context.Context, steamID string) (*Result, error) {
	if s.redis == nil {
		return nil, ErrUnavailable
	}

	now := s.now()
	next := nextUTCMidnight(now)
	key := dailyKey(steamID, now)

	ok, err := s.redis.SetNX(ctx, key, 1, next.Sub(now)+time.Minute).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: daily lock", ErrInternal)
	}
	if !ok {
		return nil, ErrAlreadySpun
	}

	tier := s.picker.Pick()

	balance, err := s.credits.Apply(ctx, ledger.NewSpinReward(steamID, tier.Amount, tier.Label))
	if err != nil {
		// Release the daily lock so the user can retry a failed spin.
		if delErr := s.redis.Del(ctx, key).Err(); delErr != nil {
			log.Error().Err(delErr).Str("key", key).Msg("failed to release spin lock after grant failure")
		}
		return nil, err
	}

	log.Info().
		Str("steam_id", steamID).
		Int64("amount", tier.Amount).
		Str("tier", tier.Label).
		Msg("daily spin reward granted")

	return &Result{Tier: tier, Balance: balance, NextSpinAt: next}, nil
}

// NextSpinAt reports when the user may spin again today, for the
// already-spun response.
func (s *Service) NextSpinAt() time.Time {
	return nextUTCMidnight(s.now())
}

// Tiers exposes the wheel layout for the public tier listing.
func (s *Service) Tiers() []Tier {
	return s.picker.Tiers()
}
