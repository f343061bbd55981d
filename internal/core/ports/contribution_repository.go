package ports

import (
	"context"

	"github.com/contribtrack/contribution-tracker/internal/core/domain"
)

// ContributionRepository defines persistence operations for contributions.
// Every lookup is scoped by ownerID; a record owned by someone else is
// reported as domain.ErrContributionNotFound.
type ContributionRepository interface {
	Create(ctx context.Context, c *domain.Contribution) (*domain.Contribution, error)
	FindByID(ctx context.Context, id, ownerID string) (*domain.Contribution, error)
	// ListByOwner returns every record of ownerID, newest date first.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Contribution, error)
	Update(ctx context.Context, id, ownerID string, patch domain.ContributionPatch) (*domain.Contribution, error)
	// Delete returns the removed record.
	Delete(ctx context.Context, id, ownerID string) (*domain.Contribution, error)
}
