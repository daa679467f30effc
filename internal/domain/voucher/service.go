package voucher

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/skinvaults/skinvaults-api/internal/domain/ledger"
)

// CreditGranter is the slice of the ledger service vouchers need.
type CreditGranter interface {
	Apply(ctx context.Context, e ledger.Entry) (int64, error)
}

// ProExtender extends a user's Pro membership.
type ProExtender interface {
	ExtendMonths(ctx context.Context, steamID string, months int) (time.Time, error)
}

type Service struct {
	repo    *Repository
	credits CreditGranter
	pro     ProExtender

	maxBatch int
}

func NewService(repo *Repository, credits CreditGranter, pro ProExtender, maxBatch int) *Service {
	if maxBatch <= 0 {
		maxBatch = 1000
	}
	return &Service{repo: repo, credits: credits, pro: pro, maxBatch: maxBatch}
}

// GenerateResult carries plaintext codes back to the generating admin. This
// is the only moment plaintext exists server-side.
type GenerateResult struct {
	SKUID     string
	Created   int
	Codes     []string
	ExpiresAt *time.Time
}

// Generate creates a batch of single-use codes and stores their hashes.
func (s *Service) Generate(ctx context.Context, skuID string, quantity int, credits int64, proMonths int, source, createdBy string, expiresAt *time.Time) (*GenerateResult, error) {
	skuID = strings.TrimSpace(skuID)
	if skuID == "" || quantity < 1 || quantity > s.maxBatch {
		return nil, ErrInvalidBatch
	}
	if credits < 0 || proMonths < 0 || (credits == 0 && proMonths == 0) {
		return nil, ErrInvalidBatch
	}
	if credits > ledger.MaxDelta {
		return nil, ErrInvalidBatch
	}
	if expiresAt != nil && !expiresAt.After(time.Now()) {
		return nil, ErrInvalidBatch
	}

	codes := make([]string, 0, quantity)
	vouchers := make([]Voucher, 0, quantity)
	seen := make(map[string]bool, quantity)

	for len(codes) < quantity {
		code, err := generateCode()
		if err != nil {
			return nil, ErrInternal
		}
		hash := HashCode(code)
		if seen[hash] {
			continue
		}
		seen[hash] = true

		codes = append(codes, code)
		vouchers = append(vouchers, Voucher{
			CodeHash:  hash,
			SKUID:     skuID,
			Credits:   credits,
			ProMonths: proMonths,
			Status:    StatusActive,
			Source:    source,
			ExpiresAt: expiresAt,
			CreatedBy: createdBy,
		})
	}

	if err := s.repo.InsertBatch(ctx, vouchers); err != nil {
		return nil, err
	}

	log.Info().
		Str("sku_id", skuID).
		Int("created", quantity).
		Int64("credits", credits).
		Int("pro_months", proMonths).
		Str("created_by", createdBy).
		Msg("voucher batch generated")

	return &GenerateResult{SKUID: skuID, Created: quantity, Codes: codes, ExpiresAt: expiresAt}, nil
}

// RedeemResult reports what one redemption granted.
type RedeemResult struct {
	SKUID            string
	CreditsGranted   int64
	ProMonthsGranted int
	ProUntil         *time.Time
}

// Redeem converts a code into credits and Pro time, exactly once. The single
// conditional update in the repository is the concurrency guard; the reward
// grants follow it.
func (s *Service) Redeem(ctx context.Context, steamID, rawCode string) (*RedeemResult, error) {
	if Normalize(rawCode) == "" {
		return nil, ErrInvalidCode
	}

	v, err := s.repo.Redeem(ctx, HashCode(rawCode), steamID)
	if err != nil {
		return nil, err
	}

	result := &RedeemResult{SKUID: v.SKUID, ProMonthsGranted: v.ProMonths}

	if v.Credits > 0 {
		if _, err := s.credits.Apply(ctx, ledger.NewVoucherRedeem(steamID, v.Credits, v.CodeHash, v.SKUID)); err != nil {
			// The voucher is already burned; surface the failure loudly so the
			// grant can be replayed from the hash in this log line.
			log.Error().Err(err).
				Str("steam_id", steamID).
				Str("code_hash", v.CodeHash).
				Int64("credits", v.Credits).
				Msg("voucher redeemed but credit grant failed")
			return nil, ErrInternal
		}
		result.CreditsGranted = v.Credits
	}

	if v.ProMonths > 0 {
		proUntil, err := s.pro.ExtendMonths(ctx, steamID, v.ProMonths)
		if err != nil {
			log.Error().Err(err).
				Str("steam_id", steamID).
				Str("code_hash", v.CodeHash).
				Int("pro_months", v.ProMonths).
				Msg("voucher redeemed but pro extension failed")
			return nil, ErrInternal
		}
		result.ProUntil = &proUntil
	}

	log.Info().
		Str("steam_id", steamID).
		Str("sku_id", v.SKUID).
		Int64("credits", result.CreditsGranted).
		Int("pro_months", v.ProMonths).
		Msg("voucher redeemed")

	return result, nil
}

// Disable marks a voucher unusable (admin use).
func (s *Service) Disable(ctx context.Context, codeHash string) error {
	return s.repo.Disable(ctx, codeHash)
}

// ListBySKU returns vouchers for one SKU (admin use).
func (s *Service) ListBySKU(ctx context.Context, skuID string, limit, offset int) ([]Voucher, error) {
	return s.repo.ListBySKU(ctx, skuID, limit, offset)
}
