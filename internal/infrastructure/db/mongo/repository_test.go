package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/contribtrack/contribution-tracker/internal/core/domain"
)

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func ns(mt *mtest.T, coll string) string {
	return mt.DB.Name() + "." + coll
}

func contributionDoc(id, owner primitive.ObjectID, title, date string) bson.D {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "user_id", Value: owner},
		{Key: "title", Value: title},
		{Key: "category", Value: "Talk"},
		{Key: "link", Value: "https://example.com"},
		{Key: "description", Value: ""},
		{Key: "date", Value: date},
		{Key: "created_at", Value: ts},
		{Key: "updated_at", Value: ts},
	}
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func TestUserRepository_Create(t *testing.T) {
	mt := newMock(t)

	mt.Run("success", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		now := time.Now()
		user, err := repo.Create(context.Background(), &domain.User{
			Username: "alice", Email: "alice@example.com", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now,
		})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if _, err := primitive.ObjectIDFromHex(user.ID); err != nil {
			mt.Errorf("expected object id, got %q", user.ID)
		}
		if user.Email != "alice@example.com" {
			mt.Errorf("unexpected email %q", user.Email)
		}
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		_, err := repo.Create(context.Background(), &domain.User{Email: "alice@example.com"})
		if !errors.Is(err, domain.ErrUserExists) {
			mt.Fatalf("expected ErrUserExists, got %v", err)
		}
	})
}

func TestUserRepository_FindByEmail(t *testing.T) {
	mt := newMock(t)

	mt.Run("found", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, usersCollection), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "username", Value: "alice"},
			{Key: "email", Value: "alice@example.com"},
			{Key: "password_hash", Value: "hash"},
		}))

		user, err := repo.FindByEmail(context.Background(), "alice@example.com")
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if user.ID != id.Hex() || user.Username != "alice" || user.PasswordHash != "hash" {
			mt.Fatalf("unexpected user %+v", user)
		}
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, usersCollection), mtest.FirstBatch))

		if _, err := repo.FindByEmail(context.Background(), "ghost@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

// ---------------------------------------------------------------------------
// Contributions
// ---------------------------------------------------------------------------

func TestContributionRepository_Create(t *testing.T) {
	mt := newMock(t)

	mt.Run("success", func(mt *mtest.T) {
		repo := NewContributionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		owner := primitive.NewObjectID().Hex()
		c, err := repo.Create(context.Background(), &domain.Contribution{UserID: owner, Title: "Talk", Category: "Event"})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if c.ID == "" || c.UserID != owner {
			mt.Fatalf("unexpected contribution %+v", c)
		}
	})

	mt.Run("invalid owner", func(mt *mtest.T) {
		repo := NewContributionRepository(mt.DB)
		if _, err := repo.Create(context.Background(), &domain.Contribution{UserID: "nope"}); err == nil {
			mt.Fatal("expected error for invalid owner id")
		}
	})
}

func TestContributionRepository_FindByID(t *testing.T) {
	mt := newMock(t)
	owner := primitive.NewObjectID()

	mt.Run("found", func(mt *mtest.T) {
		repo := NewContributionRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, contributionsCollection), mtest.FirstBatch,
			contributionDoc(id, owner, "Talk", "2024-05-01")))

		c, err := repo.FindByID(context.Background(), id.Hex(), owner.Hex())
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if c.ID != id.Hex() || c.UserID != owner.Hex() || c.Date != "2024-05-01" {
			mt.Fatalf("unexpected contribution %+v", c)
		}
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewContributionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, contributionsCollection), mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex(), owner.Hex())
		if !errors.Is(err, domain.ErrContributionNotFound) {
			mt.Fatalf("expected ErrContributionNotFound, got %v", err)
		}
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewContributionRepository(mt.DB)

		_, err := repo.FindByID(context.Background(), "not-an-id", owner.Hex())
		if !errors.Is(err, domain.ErrContributionNotFound) {
			mt.Fatalf("expected ErrContributionNotFound, got %v", err)
		}
	})
}

func TestContributionRepository_ListByOwner(t *testing.T) {
	mt := newMock(t)
	owner := primitive.NewObjectID()

	mt.Run("decodes all", func(mt *mtest.T) {
		repo := NewContributionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, contributionsCollection), mtest.FirstBatch,
			contributionDoc(primitive.NewObjectID(), owner, "Newer", "2024-06-01"),
			contributionDoc(primitive.NewObjectID(), owner, "Older", "2023-06-01"),
		))

		list, err := repo.ListByOwner(context.Background(), owner.Hex())
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if len(list) != 2 || list[0].Title != "Newer" || list[1].Title != "Older" {
			mt.Fatalf("unexpected list %+v", list)
		}
	})

	mt.Run("empty", func(mt *mtest.T) {
		repo := NewContributionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, contributionsCollection), mtest.FirstBatch))

		list, err := repo.ListByOwner(context.Background(), owner.Hex())
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if list == nil || len(list) != 0 {
			mt.Fatalf("expected empty non-nil slice, got %#v", list)
		}
	})
}

func TestContributionRepository_Update(t *testing.T) {
	mt := newMock(t)
	owner := primitive.NewObjectID()

	mt.Run("returns updated document", func(mt *mtest.T) {
		repo := NewContributionRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: contributionDoc(id, owner, "Renamed", "2024-05-01")},
		))

		title := "Renamed"
		c, err := repo.Update(context.Background(), id.Hex(), owner.Hex(), domain.ContributionPatch{Title: &title})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if c.Title != "Renamed" {
			mt.Fatalf("unexpected title %q", c.Title)
		}
	})

	mt.Run("not owned", func(mt *mtest.T) {
		repo := NewContributionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		title := "x"
		_, err := repo.Update(context.Background(), primitive.NewObjectID().Hex(), owner.Hex(), domain.ContributionPatch{Title: &title})
		if !errors.Is(err, domain.ErrContributionNotFound) {
			mt.Fatalf("expected ErrContributionNotFound, got %v", err)
		}
	})
}

func TestContributionRepository_Delete(t *testing.T) {
	mt := newMock(t)
	owner := primitive.NewObjectID()

	mt.Run("returns deleted document", func(mt *mtest.T) {
		repo := NewContributionRepository(mt.DB)
		id := primitive.NewObjectID()
		doc := append(contributionDoc(id, owner, "Talk", "2024-05-01"), bson.E{Key: "screenshot", Value: "/uploads/1-a.png"})
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc}))

		c, err := repo.Delete(context.Background(), id.Hex(), owner.Hex())
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if c.Screenshot != "/uploads/1-a.png" {
			mt.Fatalf("expected screenshot on deleted record, got %q", c.Screenshot)
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewContributionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.Delete(context.Background(), primitive.NewObjectID().Hex(), owner.Hex())
		if !errors.Is(err, domain.ErrContributionNotFound) {
			mt.Fatalf("expected ErrContributionNotFound, got %v", err)
		}
	})
}
