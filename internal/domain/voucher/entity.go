package voucher

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode"
)

// Status of a voucher code. A code moves active -> redeemed exactly once;
// disabled is a terminal admin action.
type Status string

const (
	StatusActive   Status = "active"
	StatusRedeemed Status = "redeemed"
	StatusDisabled Status = "disabled"
)

// Voucher is a single-use code stored only as a one-way hash of its
// normalized plaintext.
type Voucher struct {
	CodeHash   string     `db:"code_hash" json:"code_hash"`
	SKUID      string     `db:"sku_id" json:"sku_id"`
	Credits    int64      `db:"credits" json:"credits"`
	ProMonths  int        `db:"pro_months" json:"pro_months"`
	Status     Status     `db:"status" json:"status"`
	Source     string     `db:"source" json:"source"`
	ExpiresAt  *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	CreatedBy  string     `db:"created_by" json:"created_by"`
	RedeemedBy *string    `db:"redeemed_by" json:"redeemed_by,omitempty"`
	RedeemedAt *time.Time `db:"redeemed_at" json:"redeemed_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// Normalize produces the canonical form of a raw code: trimmed, uppercased,
// interior whitespace removed. Hyphens are kept so the printed grouping is
// part of the code.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// HashCode maps a raw code to its storage key. Lookups hash the submitted
// code and match on the result.
func HashCode(raw string) string {
	sum := sha256.Sum256([]byte(Normalize(raw)))
	return hex.EncodeToString(sum[:])
}
