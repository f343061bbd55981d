package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/contribtrack/contribution-tracker/internal/core/domain"
	"github.com/contribtrack/contribution-tracker/internal/core/ports"
)

// ExportColumns is the fixed CSV header, in output order.
var ExportColumns = []string{"title", "category", "link", "description", "date", "screenshot"}

type CSVExportService struct {
	repo   ports.ContributionRepository
	logger zerolog.Logger
}

func NewCSVExportService(repo ports.ContributionRepository, logger zerolog.Logger) *CSVExportService {
	return &CSVExportService{repo: repo, logger: logger}
}

// ExportCSV renders one row per contribution of ownerID, newest date first.
func (s *CSVExportService) ExportCSV(ctx context.Context, ownerID string) ([]byte, error) {
	list, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNoContributions
	}
	domain.SortByDateDesc(list)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ExportColumns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range list {
		if err := w.Write([]string{c.Title, c.Category, c.Link, c.Description, c.Date, c.Screenshot}); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	s.logger.Info().Str("user_id", ownerID).Int("rows", len(list)).Msg("csv export generated")
	return buf.Bytes(), nil
}
