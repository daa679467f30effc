package pro

import "time"

// Membership tracks how long a user's Pro subscription runs.
type Membership struct {
	SteamID   string    `db:"steam_id" json:"steam_id"`
	ProUntil  time.Time `db:"pro_until" json:"pro_until"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Active reports whether the membership covers the given instant.
func (m *Membership) Active(at time.Time) bool {
	return m != nil && m.ProUntil.After(at)
}
