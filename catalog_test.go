package memento

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/memento-gifts/memento/db"
	"github.com/memento-gifts/memento/domain"
	"github.com/memento-gifts/memento/mapper"
)

var forcedErr = errors.New("forced error")

// failingStore fails every call.
type failingStore struct{}

func (failingStore) Select(context.Context, ...domain.Filter) ([]*domain.ExperienceRow, error) {
	return nil, forcedErr
}

func (failingStore) Insert(context.Context, ...*domain.ExperienceRow) ([]*domain.ExperienceRow, error) {
	return nil, forcedErr
}

func (failingStore) Update(context.Context, map[string]any, ...domain.Filter) error {
	return forcedErr
}

func (failingStore) Delete(context.Context, ...domain.Filter) error {
	return forcedErr
}

func setupTestCatalog(t *testing.T, options ...func(*Catalog) error) (*Catalog, *db.Repository, func()) {
	t.Helper()

	tempFile, err := os.CreateTemp(t.TempDir(), "test_*.db")
	if err != nil {
		t.Fatalf("os.CreateTemp() failed: %v", err)
	}
	tempFile.Close()

	repo, err := db.Open(tempFile.Name())
	if err != nil {
		t.Fatalf("db.Open() failed: %v", err)
	}

	options = append([]func(*Catalog) error{WithStore(repo), WithLocalStorage(repo)}, options...)
	catalog, err := New(options...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	teardown := func() {
		repo.Close()
		os.Remove(tempFile.Name())
	}
	return catalog, repo, teardown
}

func testExperience(title, category string) *domain.Experience {
	return &domain.Experience{
		Title:        title,
		Description:  title + " description",
		ImageURL:     "https://example.com/" + category + ".jpg",
		Price:        19999,
		Location:     "Napa Valley, CA",
		Duration:     "3 hours",
		Participants: "2 people",
		Category:     category,
	}
}

func storeExperiences(t *testing.T, repo *db.Repository, experiences ...*domain.Experience) []*domain.Experience {
	t.Helper()
	rows, err := repo.Insert(context.Background(), mapper.ToRows(experiences)...)
	if err != nil {
		t.Fatalf("inserting experiences: %v", err)
	}
	return mapper.ToExperiences(rows)
}

func titles(experiences []*domain.Experience) []string {
	out := make([]string, len(experiences))
	for i, e := range experiences {
		out[i] = e.Title
	}
	return out
}

func TestNew(t *testing.T) {
	t.Run("should require a store", func(t *testing.T) {
		_, err := New()
		if !errors.Is(err, ErrMissingStore) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", ErrMissingStore, err)
		}
	})

	t.Run("should use the default categories", func(t *testing.T) {
		catalog, err := New(WithStore(failingStore{}))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if !reflect.DeepEqual(catalog.Categories, domain.DefaultCategories) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.DefaultCategories, catalog.Categories)
		}
	})
}

func TestCatalog_Queries(t *testing.T) {
	catalog, repo, teardown := setupTestCatalog(t)
	defer teardown()
	ctx := context.Background()

	balloon := testExperience("Balloon Ride", "adventure")
	balloon.Trending = true
	balloon.Featured = true
	dinner := testExperience("Tasting Menu", "dining")
	dinner.Featured = true
	spa := testExperience("Spa Day", "wellness")
	stored := storeExperiences(t, repo, balloon, dinner, spa)

	t.Run("should return all experiences", func(t *testing.T) {
		got := titles(catalog.AllExperiences(ctx))
		want := []string{"Balloon Ride", "Tasting Menu", "Spa Day"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, got)
		}
	})

	t.Run("should filter by category id", func(t *testing.T) {
		got := titles(catalog.ExperiencesByCategory(ctx, "dining"))
		want := []string{"Tasting Menu"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, got)
		}
	})

	t.Run("should return an empty list for an unknown category", func(t *testing.T) {
		got := catalog.ExperiencesByCategory(ctx, "does-not-exist")
		if got == nil || len(got) != 0 {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", "[]", got)
		}
	})

	t.Run("should return trending experiences", func(t *testing.T) {
		got := titles(catalog.TrendingExperiences(ctx))
		want := []string{"Balloon Ride"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, got)
		}
	})

	t.Run("should return featured experiences", func(t *testing.T) {
		got := titles(catalog.FeaturedExperiences(ctx))
		want := []string{"Balloon Ride", "Tasting Menu"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, got)
		}
	})

	t.Run("should return an experience by id", func(t *testing.T) {
		got := catalog.ExperienceByID(ctx, stored[2].ID)
		if !reflect.DeepEqual(got, stored[2]) {
			t.Fatalf("\nwanted:\n%+v\ngot:\n%+v", stored[2], got)
		}
	})

	t.Run("should return nil for a missing id", func(t *testing.T) {
		if got := catalog.ExperienceByID(ctx, "missing"); got != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%+v", got)
		}
	})
}

func TestCatalog_StoreFailure(t *testing.T) {
	catalog, err := New(WithStore(failingStore{}))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	ctx := context.Background()

	t.Run("should return empty lists", func(t *testing.T) {
		lists := [][]*domain.Experience{
			catalog.AllExperiences(ctx),
			catalog.ExperiencesByCategory(ctx, "adventure"),
			catalog.TrendingExperiences(ctx),
			catalog.FeaturedExperiences(ctx),
		}
		for i, list := range lists {
			if list == nil || len(list) != 0 {
				t.Fatalf("list %d\nwanted:\n%v\ngot:\n%v", i, "[]", list)
			}
		}
	})

	t.Run("should return nil for ExperienceByID", func(t *testing.T) {
		if got := catalog.ExperienceByID(ctx, "any"); got != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%+v", got)
		}
	})
}

func TestCatalog_Category(t *testing.T) {
	catalog, err := New(WithStore(failingStore{}), WithCategories([]domain.Category{{ID: "c1", Name: "Sailing"}}))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	t.Run("should find a configured category", func(t *testing.T) {
		category, ok := catalog.Category("c1")
		if !ok || category.Slug() != "sailing" {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", "sailing", category.Slug())
		}
	})

	t.Run("should not find a default category once replaced", func(t *testing.T) {
		if _, ok := catalog.Category("adventure"); ok {
			t.Fatal("expected adventure to be missing")
		}
	})
}
