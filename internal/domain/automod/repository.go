package automod

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

// settings are read on every chat message, so the repository keeps a short
// cache in front of the single settings row.
const cacheTTL = 30 * time.Second

type Repository struct {
	db *sqlx.DB

	mu       sync.RWMutex
	cached   *Settings
	cachedAt time.Time
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the active settings, falling back to defaults when nothing
// has been saved yet.
func (r *Repository) Get(ctx context.Context) (Settings, error) {
	r.mu.RLock()
	if r.cached != nil && time.Since(r.cachedAt) < cacheTTL {
		s := *r.cached
		r.mu.RUnlock()
		return s, nil
	}
	r.mu.RUnlock()

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var s Settings
	err := r.db.GetContext(ctx2, &s, `
		SELECT enabled, block_links, allow_link_domains, banned_words, banned_regex, updated_at
		FROM automod_settings
		WHERE id = 1
	`)
	if errors.Is(err, sql.ErrNoRows) {
		s = DefaultSettings()
	} else if err != nil {
		return Settings{}, fmt.Errorf("load automod settings: %w", err)
	}

	r.mu.Lock()
	r.cached = &s
	r.cachedAt = time.Now()
	r.mu.Unlock()
	return s, nil
}

// Save upserts the settings row and refreshes the cache.
func (r *Repository) Save(ctx context.Context, s Settings) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO automod_settings (id, enabled, block_links, allow_link_domains, banned_words, banned_regex, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, now())
		ON CONFLICT (id) DO UPDATE
		SET enabled = EXCLUDED.enabled,
		    block_links = EXCLUDED.block_links,
		    allow_link_domains = EXCLUDED.allow_link_domains,
		    banned_words = EXCLUDED.banned_words,
		    banned_regex = EXCLUDED.banned_regex,
		    updated_at = now()
	`, s.Enabled, s.BlockLinks, s.AllowLinkDomains, s.BannedWords, s.BannedRegex)
	if err != nil {
		return fmt.Errorf("save automod settings: %w", err)
	}

	s.UpdatedAt = time.Now()
	r.mu.Lock()
	r.cached = &s
	r.cachedAt = time.Now()
	r.mu.Unlock()
	return nil
}
