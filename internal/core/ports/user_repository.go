package ports

import (
	"context"

	"github.com/contribtrack/contribution-tracker/internal/core/domain"
)

// UserRepository defines the interface for credential persistence.
type UserRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no user has that email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create returns domain.ErrUserExists when the email is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
