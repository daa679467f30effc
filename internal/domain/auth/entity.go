package auth

import (
	"time"

	"github.com/google/uuid"
)

// AdminAccount is a back-office login. Site users authenticate through the
// Steam OpenID front-end and never hit this table.
type AdminAccount struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
