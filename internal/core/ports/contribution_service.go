package ports

import (
	"context"
	"io"

	"github.com/contribtrack/contribution-tracker/internal/core/domain"
)

// UploadInput is an attachment received from the transport layer.
type UploadInput struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// CreateContributionInput carries all data needed to create a contribution.
type CreateContributionInput struct {
	OwnerID     string
	Title       string
	Category    string
	Link        string
	Description string
	Date        string
	Screenshot  *UploadInput // optional
}

// UpdateContributionInput carries a partial update. Nil fields are left unchanged.
type UpdateContributionInput struct {
	ID          string
	OwnerID     string
	Title       *string
	Category    *string
	Link        *string
	Description *string
	Date        *string
	Screenshot  *UploadInput // optional replacement
}

// ContributionService defines use-case operations for contributions.
type ContributionService interface {
	Create(ctx context.Context, input CreateContributionInput) (*domain.Contribution, error)
	List(ctx context.Context, ownerID string) ([]*domain.Contribution, error)
	Get(ctx context.Context, id, ownerID string) (*domain.Contribution, error)
	Update(ctx context.Context, input UpdateContributionInput) (*domain.Contribution, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// ExportService renders a user's contributions as CSV.
type ExportService interface {
	// ExportCSV returns domain.ErrNoContributions when the owner has no records.
	ExportCSV(ctx context.Context, ownerID string) ([]byte, error)
}
