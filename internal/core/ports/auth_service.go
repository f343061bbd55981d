package ports

import (
	"context"

	"github.com/contribtrack/contribution-tracker/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	Issue(userID, email string) (string, error)
	// Verify returns domain.ErrInvalidToken for bad signatures, algorithms or expiry.
	Verify(token string) (*domain.TokenClaims, error)
}
