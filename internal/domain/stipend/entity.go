package stipend

import (
	"fmt"
	"time"
)

// Grant is the idempotency guard for one user-month. Its existence means
// the stipend for that month was already paid.
type Grant struct {
	GrantKey  string    `db:"grant_key" json:"grant_key"`
	SteamID   string    `db:"steam_id" json:"steam_id"`
	Month     string    `db:"month" json:"month"`
	Credits   int64     `db:"credits" json:"credits"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MonthOf formats the calendar month a grant belongs to, in UTC.
func MonthOf(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// GrantKey builds the unique guard key for a user-month.
func GrantKey(steamID, month string) string {
	return fmt.Sprintf("%s_%s", steamID, month)
}
