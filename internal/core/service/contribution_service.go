package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/contribtrack/contribution-tracker/internal/core/domain"
	"github.com/contribtrack/contribution-tracker/internal/core/ports"
)

type ContributionService struct {
	repo     ports.ContributionRepository
	uploader ports.Uploader
	logger   zerolog.Logger
}

func NewContributionService(repo ports.ContributionRepository, uploader ports.Uploader, logger zerolog.Logger) *ContributionService {
	return &ContributionService{repo: repo, uploader: uploader, logger: logger}
}

// Create stores the attachment first (if any), then the record owned by input.OwnerID.
func (s *ContributionService) Create(ctx context.Context, input ports.CreateContributionInput) (*domain.Contribution, error) {
	title := strings.TrimSpace(input.Title)
	category := strings.TrimSpace(input.Category)
	if title == "" || category == "" {
		return nil, domain.NewValidationError("title and category are required")
	}

	now := time.Now().UTC()
	c := &domain.Contribution{
		Title:       title,
		Category:    category,
		Link:        strings.TrimSpace(input.Link),
		Description: strings.TrimSpace(input.Description),
		Date:        strings.TrimSpace(input.Date),
		UserID:      input.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if input.Screenshot != nil {
		ref, err := s.uploader.Store(ctx, *input.Screenshot)
		if err != nil {
			return nil, err
		}
		c.Screenshot = ref
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create contribution")
		s.discard(ctx, c.Screenshot)
		return nil, err
	}

	s.logger.Info().Str("id", created.ID).Str("user_id", input.OwnerID).Msg("contribution created")
	return created, nil
}

// List returns the owner's contributions, newest date first.
func (s *ContributionService) List(ctx context.Context, ownerID string) ([]*domain.Contribution, error) {
	list, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	domain.SortByDateDesc(list)
	return list, nil
}

func (s *ContributionService) Get(ctx context.Context, id, ownerID string) (*domain.Contribution, error) {
	return s.repo.FindByID(ctx, id, ownerID)
}

// Update applies only the supplied fields. A new screenshot replaces the old
// one, which is then removed best-effort.
func (s *ContributionService) Update(ctx context.Context, input ports.UpdateContributionInput) (*domain.Contribution, error) {
	existing, err := s.repo.FindByID(ctx, input.ID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	patch := domain.ContributionPatch{
		Title:       trimmed(input.Title),
		Category:    trimmed(input.Category),
		Link:        trimmed(input.Link),
		Description: trimmed(input.Description),
		Date:        trimmed(input.Date),
	}
	if (patch.Title != nil && *patch.Title == "") || (patch.Category != nil && *patch.Category == "") {
		return nil, domain.NewValidationError("title and category cannot be empty")
	}

	if input.Screenshot != nil {
		ref, err := s.uploader.Store(ctx, *input.Screenshot)
		if err != nil {
			return nil, err
		}
		patch.Screenshot = &ref
	}

	if patch.IsEmpty() {
		return existing, nil
	}

	updated, err := s.repo.Update(ctx, input.ID, input.OwnerID, patch)
	if err != nil {
		if patch.Screenshot != nil {
			s.discard(ctx, *patch.Screenshot)
		}
		return nil, err
	}

	if patch.Screenshot != nil && existing.Screenshot != *patch.Screenshot {
		s.discard(ctx, existing.Screenshot)
	}

	s.logger.Info().Str("id", updated.ID).Str("user_id", input.OwnerID).Msg("contribution updated")
	return updated, nil
}

func (s *ContributionService) Delete(ctx context.Context, id, ownerID string) error {
	deleted, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		return err
	}

	s.discard(ctx, deleted.Screenshot)
	s.logger.Info().Str("id", id).Str("user_id", ownerID).Msg("contribution deleted")
	return nil
}

// discard never fails the request; orphaned files are only logged.
func (s *ContributionService) discard(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.uploader.Discard(ctx, ref); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn().Err(err).Str("ref", ref).Msg("failed to remove screenshot")
	}
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
