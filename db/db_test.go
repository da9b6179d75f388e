package db

import (
	"context"
	"os"
	"testing"

	"github.com/memento-gifts/memento/domain"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()

	tempFile, err := os.CreateTemp(t.TempDir(), "test_*.db")
	if err != nil {
		t.Fatalf("os.CreateTemp() failed: %v", err)
	}
	tempFile.Close()

	dbConn, err := New(tempFile.Name())
	if err != nil {
		t.Fatalf("db.New() failed: %v", err)
	}

	repo := NewRepository(dbConn)

	teardown := func() {
		repo.Close()
		os.Remove(tempFile.Name())
	}

	return repo, teardown
}

func ptr[T any](v T) *T {
	return &v
}

func testRow(title string, category string) *domain.ExperienceRow {
	return &domain.ExperienceRow{
		Title:         title,
		Description:   title + " description",
		ImageURL:      ptr("https://example.com/" + category + ".jpg"),
		Price:         14999,
		Location:      "New York, NY",
		Duration:      ptr("2 hours"),
		Participants:  ptr("2 people"),
		Date:          ptr("Available weekdays"),
		Category:      ptr(category),
		NicheCategory: nil,
	}
}

func insertTestRows(t *testing.T, repo *Repository, rows ...*domain.ExperienceRow) []*domain.ExperienceRow {
	t.Helper()

	stored, err := repo.Insert(context.Background(), rows...)
	if err != nil {
		t.Fatalf("inserting rows: %v", err)
	}
	return stored
}

func TestNew(t *testing.T) {
	t.Run("should apply migrations so both tables exist", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		var count int
		err := repo.dbConn.Get(&count, `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('experiences', 'local_storage')`)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if count != 2 {
			t.Fatalf("\nwanted:\n2\ngot:\n%d", count)
		}
	})

	t.Run("should record the sql and go migrations", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		var version int64
		err := repo.dbConn.Get(&version, `SELECT MAX(version_id) FROM goose_db_version WHERE is_applied = 1`)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if version != 2 {
			t.Fatalf("\nwanted:\n2\ngot:\n%d", version)
		}
	})

	t.Run("should fail for a path in a missing directory", func(t *testing.T) {
		_, err := New(t.TempDir() + "/missing/dir/test.db")
		if err == nil {
			t.Fatalf("\nwanted:\nerror\ngot:\nnil")
		}
	})
}
