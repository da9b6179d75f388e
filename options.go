package memento

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/memento-gifts/memento/domain"
)

// WithOptions applies a series of configuration functions to the catalog.
// It stops at the first option that returns an error.
func (c *Catalog) WithOptions(options ...func(*Catalog) error) error {
	for _, option := range options {
		if err := option(c); err != nil {
			return fmt.Errorf("applying option on catalog : %w", err)
		}
	}
	return nil
}

// WithLogger sets the structured logger. A nil logger discards every record.
func WithLogger(logger *slog.Logger) func(*Catalog) error {
	return func(c *Catalog) error {
		if logger == nil {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		c.Logger = logger
		return nil
	}
}

// WithStore sets the remote experience store.
func WithStore(store domain.ExperienceStore) func(*Catalog) error {
	return func(c *Catalog) error {
		if store == nil {
			return errors.New("experience store is nil")
		}
		c.Store = store
		return nil
	}
}

// WithLocalStorage sets the fallback storage used by managers of this catalog.
func WithLocalStorage(local domain.LocalStorage) func(*Catalog) error {
	return func(c *Catalog) error {
		c.Local = local
		return nil
	}
}

// WithCategories replaces the default category list.
func WithCategories(categories []domain.Category) func(*Catalog) error {
	return func(c *Catalog) error {
		if len(categories) == 0 {
			return errors.New("category list is empty")
		}
		c.Categories = categories
		return nil
	}
}

// WithNotifier takes a handler function that will be executed on each notification
func WithNotifier(handler func(domain.Notification)) func(*Catalog) error {
	return func(c *Catalog) error {
		if c.OnNotify != nil {
			return errors.New("catalog already has a notification handler defined")
		}
		c.OnNotify = handler
		return nil
	}
}
