// Package memento is the data access layer of the Memento experience catalog.
//
// A Catalog answers read-only questions about the experiences held by a remote store
// (all, by category, trending, featured, by id). A Manager keeps an in-memory list of
// experiences in sync with the store and offers the admin operations: add, update,
// delete, reset, import and export.
package memento

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/memento-gifts/memento/domain"
	"github.com/memento-gifts/memento/mapper"
)

// ErrMissingStore is returned by New when no remote store has been configured.
var ErrMissingStore = errors.New("catalog has no experience store")

// Catalog reads experiences from the remote store.
type Catalog struct {
	Logger          *slog.Logger              // Structured logger, never nil after New
	Store           domain.ExperienceStore    // Remote table holding the experiences
	Local           domain.LocalStorage       // Fallback storage, optional
	Categories      []domain.Category         // Category list used for lookups and sections
	NicheCategories []domain.NicheCategory    // Niche category list
	OnNotify        func(domain.Notification) // Called for every user-visible notification
	now             func() time.Time
}

// New creates a Catalog with the default categories and applies the options.
func New(options ...func(*Catalog) error) (*Catalog, error) {
	catalog := &Catalog{
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		Categories:      domain.DefaultCategories,
		NicheCategories: domain.DefaultNicheCategories,
		now:             time.Now,
	}
	if err := catalog.WithOptions(options...); err != nil {
		return nil, err
	}
	if catalog.Store == nil {
		return nil, ErrMissingStore
	}
	return catalog, nil
}

// AllExperiences returns every stored experience. Failures are logged and yield an empty list.
func (c *Catalog) AllExperiences(ctx context.Context) []*domain.Experience {
	return c.selectExperiences(ctx, "loading experiences")
}

// ExperiencesByCategory returns the experiences of the category with the given id.
// An unknown id yields an empty list without querying the store.
func (c *Catalog) ExperiencesByCategory(ctx context.Context, categoryID string) []*domain.Experience {
	category, ok := c.Category(categoryID)
	if !ok {
		return []*domain.Experience{}
	}
	return c.selectExperiences(ctx, "loading experiences by category", domain.Eq(domain.ColumnCategory, category.Slug()))
}

// TrendingExperiences returns the experiences flagged as trending.
func (c *Catalog) TrendingExperiences(ctx context.Context) []*domain.Experience {
	return c.selectExperiences(ctx, "loading trending experiences", domain.Eq(domain.ColumnTrending, true))
}

// FeaturedExperiences returns the experiences flagged as featured.
func (c *Catalog) FeaturedExperiences(ctx context.Context) []*domain.Experience {
	return c.selectExperiences(ctx, "loading featured experiences", domain.Eq(domain.ColumnFeatured, true))
}

// ExperienceByID returns the experience with the given id, or nil when it does not
// exist, is ambiguous or the store fails.
func (c *Catalog) ExperienceByID(ctx context.Context, id string) *domain.Experience {
	rows, err := c.Store.Select(ctx, domain.Eq(domain.ColumnID, id))
	if err != nil {
		c.Logger.Error("loading experience", "id", id, "error", err)
		return nil
	}
	if len(rows) != 1 {
		c.Logger.Debug("experience not found", "id", id, "matches", len(rows))
		return nil
	}
	return mapper.ToExperience(rows[0])
}

// Category returns the category with the given id.
func (c *Catalog) Category(id string) (domain.Category, bool) {
	return domain.FindCategory(c.Categories, id)
}

func (c *Catalog) selectExperiences(ctx context.Context, action string, filters ...domain.Filter) []*domain.Experience {
	rows, err := c.Store.Select(ctx, filters...)
	if err != nil {
		c.Logger.Error(action, "error", err)
		return []*domain.Experience{}
	}
	return mapper.ToExperiences(rows)
}

// notify logs the notification and hands it to OnNotify.
func (c *Catalog) notify(level, message string, err error) {
	notification := domain.Notification{Level: level, Message: message, Time: c.now()}
	if err != nil {
		c.Logger.Error(message, "error", err)
	} else {
		c.Logger.Info(message)
	}
	if c.OnNotify != nil {
		c.OnNotify(notification)
	}
}
