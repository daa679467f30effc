package auth

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/skinvaults/skinvaults-api/internal/pkg/jwt"
	"github.com/skinvaults/skinvaults-api/internal/pkg/password"
)

type Service struct {
	repo *Repository
	jwt  *jwt.Service
}

func NewService(repo *Repository, jwtService *jwt.Service) *Service {
	return &Service{repo: repo, jwt: jwtService}
}

// Login verifies admin credentials and mints an admin token. The same
// error comes back for unknown email and wrong password.
func (s *Service) Login(ctx context.Context, email, pass string) (string, time.Time, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", time.Time{}, err
	}
	if account == nil || !password.Verify(pass, account.PasswordHash) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateAdminToken(account.ID)
	if err != nil {
		return "", time.Time{}, ErrInternal
	}

	log.Info().Str("admin_id", account.ID.String()).Msg("admin logged in")
	return token, time.Now().Add(s.jwt.GetAccessTTL()), nil
}
