package automod

import (
	"time"

	"github.com/lib/pq"
)

// Settings controls the chat automod filter. One row, site-wide.
type Settings struct {
	Enabled          bool           `db:"enabled" json:"enabled"`
	BlockLinks       bool           `db:"block_links" json:"block_links"`
	AllowLinkDomains pq.StringArray `db:"allow_link_domains" json:"allow_link_domains"`
	BannedWords      pq.StringArray `db:"banned_words" json:"banned_words"`
	BannedRegex      pq.StringArray `db:"banned_regex" json:"banned_regex"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// DefaultSettings is used before an admin has saved anything.
func DefaultSettings() Settings {
	return Settings{
		Enabled:          true,
		BlockLinks:       true,
		AllowLinkDomains: pq.StringArray{"steamcommunity.com", "imgur.com"},
		BannedWords:      pq.StringArray{},
		BannedRegex:      pq.StringArray{},
	}
}

// Verdict is the filter's decision for one message.
type Verdict struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}
