package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"slices"
	"testing"

	"github.com/contribtrack/contribution-tracker/internal/core/domain"
)

func TestExportCSV_RoundTrip(t *testing.T) {
	repo := newStubContributionRepo()
	ctx := context.Background()
	_, _ = repo.Create(ctx, &domain.Contribution{
		UserID: "alice", Title: "Old talk", Category: "Talk", Date: "2023-01-10",
	})
	_, _ = repo.Create(ctx, &domain.Contribution{
		UserID:      "alice",
		Title:       `Say "hi", world`,
		Category:    "Blog",
		Link:        "https://example.com/a,b",
		Description: "line one\nline two",
		Date:        "2024-06-01",
		Screenshot:  "/uploads/1-shot.png",
	})
	_, _ = repo.Create(ctx, &domain.Contribution{UserID: "bob", Title: "Not mine", Category: "Event"})

	svc := NewCSVExportService(repo, discardLogger)
	out, err := svc.ExportCSV(ctx, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if !slices.Equal(records[0], ExportColumns) {
		t.Fatalf("unexpected header %v", records[0])
	}

	first := records[1]
	want := []string{`Say "hi", world`, "Blog", "https://example.com/a,b", "line one\nline two", "2024-06-01", "/uploads/1-shot.png"}
	if !slices.Equal(first, want) {
		t.Fatalf("row mismatch:\n got %q\nwant %q", first, want)
	}
	if records[2][0] != "Old talk" || records[2][5] != "" {
		t.Fatalf("unexpected second row %q", records[2])
	}
}

func TestExportCSV_Empty(t *testing.T) {
	svc := NewCSVExportService(newStubContributionRepo(), discardLogger)

	if _, err := svc.ExportCSV(context.Background(), "alice"); !errors.Is(err, domain.ErrNoContributions) {
		t.Fatalf("expected ErrNoContributions, got %v", err)
	}
}
