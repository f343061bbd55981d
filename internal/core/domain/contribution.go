package domain

import (
	"slices"
	"strings"
	"time"
)

// Contribution is a single tracked record, owned by exactly one user.
type Contribution struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Link        string    `json:"link"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Screenshot  string    `json:"screenshot,omitempty"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ContributionPatch lists the fields an update may change. Nil means "leave as is".
type ContributionPatch struct {
	Title       *string
	Category    *string
	Link        *string
	Description *string
	Date        *string
	Screenshot  *string
}

// IsEmpty reports whether the patch changes nothing.
func (p ContributionPatch) IsEmpty() bool {
	return p.Title == nil && p.Category == nil && p.Link == nil &&
		p.Description == nil && p.Date == nil && p.Screenshot == nil
}

// Apply copies the patch's set fields onto c.
func (p ContributionPatch) Apply(c *Contribution) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Link != nil {
		c.Link = *p.Link
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Date != nil {
		c.Date = *p.Date
	}
	if p.Screenshot != nil {
		c.Screenshot = *p.Screenshot
	}
}

// SortByDateDesc orders contributions newest date first; equal dates fall back
// to the most recently created.
func SortByDateDesc(list []*Contribution) {
	slices.SortStableFunc(list, func(a, b *Contribution) int {
		if c := strings.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
