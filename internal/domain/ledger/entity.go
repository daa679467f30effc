package ledger

import (
	"time"

	"github.com/google/uuid"
)

// EntryType defines supported ledger entry types.
type EntryType string

const (
	EntryTypeAdminGrant      EntryType = "admin_grant"
	EntryTypeAdminAdjust     EntryType = "admin_adjust"
	EntryTypeAdminSetBalance EntryType = "admin_set_balance"
	EntryTypeAdminRollback   EntryType = "admin_rollback"
	EntryTypeVoucherRedeem   EntryType = "voucher_redeem"
	EntryTypeProStipend      EntryType = "pro_monthly_stipend"
	EntryTypeSpinReward      EntryType = "spin_reward"
)

// MaxDelta bounds the magnitude of a single balance change.
const MaxDelta = 1_000_000

// Balance is the current credit balance for one user.
type Balance struct {
	SteamID   string    `db:"steam_id" json:"steam_id"`
	Balance   int64     `db:"balance" json:"balance"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Entry is one immutable ledger row. Rows are never updated or deleted;
// corrections are made by appending a compensating admin_rollback entry.
type Entry struct {
	ID          uuid.UUID `db:"id" json:"id"`
	SteamID     string    `db:"steam_id" json:"steam_id"`
	Delta       int64     `db:"delta" json:"delta"`
	EntryType   EntryType `db:"entry_type" json:"entry_type"`
	ActorID     *string   `db:"actor_id" json:"actor_id,omitempty"`
	RelatedType *string   `db:"related_type" json:"related_type,omitempty"`
	RelatedID   *string   `db:"related_id" json:"related_id,omitempty"`
	Reason      string    `db:"reason" json:"reason"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Typed constructors keep each entry type's expected metadata shape in one
// place instead of callers filling free-form fields.

// NewAdminGrant records credits granted by an admin.
func NewAdminGrant(steamID string, amount int64, actorID, reason string) Entry {
	return Entry{
		ID:        uuid.New(),
		SteamID:   steamID,
		Delta:     amount,
		EntryType: EntryTypeAdminGrant,
		ActorID:   &actorID,
		Reason:    reason,
	}
}

// NewAdminAdjust records a signed admin correction.
func NewAdminAdjust(steamID string, delta int64, actorID, reason string) Entry {
	return Entry{
		ID:        uuid.New(),
		SteamID:   steamID,
		Delta:     delta,
		EntryType: EntryTypeAdminAdjust,
		ActorID:   &actorID,
		Reason:    reason,
	}
}

// NewAdminSetBalance records the delta computed to reach an absolute target,
// so history stays delta-based even for "set balance" operations.
func NewAdminSetBalance(steamID string, delta int64, actorID, reason string) Entry {
	return Entry{
		ID:        uuid.New(),
		SteamID:   steamID,
		Delta:     delta,
		EntryType: EntryTypeAdminSetBalance,
		ActorID:   &actorID,
		Reason:    reason,
	}
}

// NewRollback builds the compensating entry for a prior entry.
func NewRollback(original Entry, actorID, reason string) Entry {
	originalID := original.ID.String()
	relatedType := "ledger_entry"
	return Entry{
		ID:          uuid.New(),
		SteamID:     original.SteamID,
		Delta:       -original.Delta,
		EntryType:   EntryTypeAdminRollback,
		ActorID:     &actorID,
		RelatedType: &relatedType,
		RelatedID:   &originalID,
		Reason:      reason,
	}
}

// NewVoucherRedeem records credits granted by redeeming a voucher. codeHash
// is the voucher's hashed id; plaintext codes never reach the ledger.
func NewVoucherRedeem(steamID string, credits int64, codeHash, skuID string) Entry {
	relatedType := "voucher"
	return Entry{
		ID:          uuid.New(),
		SteamID:     steamID,
		Delta:       credits,
		EntryType:   EntryTypeVoucherRedeem,
		RelatedType: &relatedType,
		RelatedID:   &codeHash,
		Reason:      "voucher redeemed: " + skuID,
	}
}

// NewProStipend records the monthly Pro credit stipend for one month.
func NewProStipend(steamID string, credits int64, month string) Entry {
	relatedType := "stipend"
	return Entry{
		ID:          uuid.New(),
		SteamID:     steamID,
		Delta:       credits,
		EntryType:   EntryTypeProStipend,
		RelatedType: &relatedType,
		RelatedID:   &month,
		Reason:      "pro monthly stipend " + month,
	}
}

// NewSpinReward records a daily spin payout.
func NewSpinReward(steamID string, amount int64, tierLabel string) Entry {
	relatedType := "spin"
	return Entry{
		ID:          uuid.New(),
		SteamID:     steamID,
		Delta:       amount,
		EntryType:   EntryTypeSpinReward,
		RelatedType: &relatedType,
		RelatedID:   &tierLabel,
		Reason:      "daily spin reward: " + tierLabel,
	}
}

// Pagination controls simple list pagination.
type Pagination struct {
	Limit  int
	Offset int
}

// SearchFilters provides admin-facing ledger filtering.
type SearchFilters struct {
	SteamID     *string
	EntryType   *string
	DateFrom    *time.Time
	DateTo      *time.Time
	RelatedType *string
	RelatedID   *string
	Limit       int
	Offset      int
}

// Reconciliation compares a stored balance with the ledger sum.
type Reconciliation struct {
	SteamID   string `json:"steam_id"`
	Balance   int64  `json:"balance"`
	LedgerSum int64  `json:"ledger_sum"`
	Drift     int64  `json:"drift"`
}

func validEntryType(t EntryType) bool {
	switch t {
	case EntryTypeAdminGrant, EntryTypeAdminAdjust, EntryTypeAdminSetBalance,
		EntryTypeAdminRollback, EntryTypeVoucherRedeem, EntryTypeProStipend,
		EntryTypeSpinReward:
		return true
	}
	return false
}
