package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/contribtrack/contribution-tracker/internal/core/domain"
)

const contributionsCollection = "contributions"

type ContributionRepository struct {
	col *mongo.Collection
}

func NewContributionRepository(db *mongo.Database) *ContributionRepository {
	return &ContributionRepository{col: db.Collection(contributionsCollection)}
}

type mongoContribution struct {
	ID          primitive.ObjectID `bson:"_id"`
	UserID      primitive.ObjectID `bson:"user_id"`
	Title       string             `bson:"title"`
	Category    string             `bson:"category"`
	Link        string             `bson:"link"`
	Description string             `bson:"description"`
	Date        string             `bson:"date"`
	Screenshot  string             `bson:"screenshot,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

// listSort matches the compound index created by EnsureIndexes.
var listSort = bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}}

func (r *ContributionRepository) Create(ctx context.Context, c *domain.Contribution) (*domain.Contribution, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owner, err := primitive.ObjectIDFromHex(c.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id %q: %w", c.UserID, err)
	}

	doc := mongoContribution{
		ID:          primitive.NewObjectID(),
		UserID:      owner,
		Title:       c.Title,
		Category:    c.Category,
		Link:        c.Link,
		Description: c.Description,
		Date:        c.Date,
		Screenshot:  c.Screenshot,
		CreatedAt:   c.CreatedAt.UTC(),
		UpdatedAt:   c.UpdatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert contribution: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByID retrieves a contribution only when it belongs to ownerID.
func (r *ContributionRepository) FindByID(ctx context.Context, id, ownerID string) (*domain.Contribution, error) {
	filter, ok := ownedFilter(id, ownerID)
	if !ok {
		return nil, domain.ErrContributionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoContribution
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrContributionNotFound
		}
		return nil, fmt.Errorf("find contribution: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ContributionRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Contribution, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return []*domain.Contribution{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": owner}, options.Find().SetSort(listSort))
	if err != nil {
		return nil, fmt.Errorf("list contributions: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoContribution
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode contributions: %w", err)
	}

	out := make([]*domain.Contribution, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// Update sets only the fields present in patch and returns the stored result.
func (r *ContributionRepository) Update(ctx context.Context, id, ownerID string, patch domain.ContributionPatch) (*domain.Contribution, error) {
	filter, ok := ownedFilter(id, ownerID)
	if !ok {
		return nil, domain.ErrContributionNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	setIf := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	setIf("title", patch.Title)
	setIf("category", patch.Category)
	setIf("link", patch.Link)
	setIf("description", patch.Description)
	setIf("date", patch.Date)
	setIf("screenshot", patch.Screenshot)

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoContribution
	if err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrContributionNotFound
		}
		return nil, fmt.Errorf("update contribution: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ContributionRepository) Delete(ctx context.Context, id, ownerID string) (*domain.Contribution, error) {
	filter, ok := ownedFilter(id, ownerID)
	if !ok {
		return nil, domain.ErrContributionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoContribution
	if err := r.col.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrContributionNotFound
		}
		return nil, fmt.Errorf("delete contribution: %w", err)
	}
	return doc.toDomain(), nil
}

// ownedFilter reports false for ids that cannot exist, so malformed input is
// answered the same way as a missing record.
func ownedFilter(id, ownerID string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid, "user_id": owner}, true
}

func (d mongoContribution) toDomain() *domain.Contribution {
	return &domain.Contribution{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		Title:       d.Title,
		Category:    d.Category,
		Link:        d.Link,
		Description: d.Description,
		Date:        d.Date,
		Screenshot:  d.Screenshot,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
