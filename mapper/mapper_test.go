package mapper

import (
	"reflect"
	"testing"

	"github.com/memento-gifts/memento/domain"
)

func ptr[T any](v T) *T {
	return &v
}

func TestToExperience(t *testing.T) {
	t.Run("should rename the snake_case columns", func(t *testing.T) {
		row := &domain.ExperienceRow{
			ID:            "abc",
			Title:         "Private Yacht Sunset Cruise",
			Description:   "Cruise along the coast.",
			ImageURL:      ptr("https://example.com/yacht.jpg"),
			Price:         41999,
			Location:      "Miami, FL",
			Duration:      ptr("4 hours"),
			Participants:  ptr("Up to 6 people"),
			Date:          ptr("Seasonal"),
			Category:      ptr("luxury"),
			NicheCategory: ptr("Luxury Escapes"),
			Featured:      true,
			Romantic:      true,
			GroupActivity: true,
		}

		want := &domain.Experience{
			ID:            "abc",
			Title:         "Private Yacht Sunset Cruise",
			Description:   "Cruise along the coast.",
			ImageURL:      "https://example.com/yacht.jpg",
			Price:         41999,
			Location:      "Miami, FL",
			Duration:      "4 hours",
			Participants:  "Up to 6 people",
			Date:          "Seasonal",
			Category:      "luxury",
			NicheCategory: "Luxury Escapes",
			Featured:      true,
			Romantic:      true,
			Group:         true,
		}

		got := ToExperience(row)
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("\nwanted:\n%+v\ngot:\n%+v", want, got)
		}
	})

	t.Run("should map NULL columns to empty strings", func(t *testing.T) {
		got := ToExperience(&domain.ExperienceRow{ID: "x", Title: "t"})
		if got.ImageURL != "" || got.NicheCategory != "" || got.Category != "" {
			t.Fatalf("\nwanted:\nempty optional fields\ngot:\n%+v", got)
		}
	})
}

func TestToRow(t *testing.T) {
	t.Run("should drop the id and write empty optionals as NULL", func(t *testing.T) {
		e := &domain.Experience{
			ID:          "client-side-id",
			Title:       "Cooking Class",
			Description: "Learn pasta from scratch.",
			Price:       12999,
			Location:    "Rome, Italy",
			Category:    "learning",
			Group:       true,
		}

		got := ToRow(e)
		if got.ID != "" {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", "", got.ID)
		}
		if got.ImageURL != nil || got.NicheCategory != nil {
			t.Fatalf("\nwanted:\nnil optional columns\ngot:\n%+v", got)
		}
		if got.Category == nil || *got.Category != "learning" {
			t.Fatalf("\nwanted:\n%q\ngot:\n%v", "learning", got.Category)
		}
		if !got.GroupActivity {
			t.Fatalf("\nwanted:\ngroup_activity true\ngot:\nfalse")
		}
	})

	t.Run("should round trip through ToExperience", func(t *testing.T) {
		e := &domain.Experience{
			Title:         "Desert Astronomy Night",
			Description:   "Stargazing with astronomers.",
			ImageURL:      "https://example.com/stars.jpg",
			Price:         19999,
			Location:      "Atacama Desert, Chile",
			Duration:      "6 hours",
			Participants:  "1 person",
			Date:          "Clear nights only",
			Category:      "science",
			NicheCategory: "Astronomy",
			Romantic:      true,
			Group:         true,
		}

		got := ToExperience(ToRow(e))
		if !reflect.DeepEqual(e, got) {
			t.Fatalf("\nwanted:\n%+v\ngot:\n%+v", e, got)
		}
	})
}

func TestPatchValues(t *testing.T) {
	t.Run("should only include provided keys", func(t *testing.T) {
		patch := &domain.ExperiencePatch{
			Price:    ptr(int64(9999)),
			Group:    ptr(true),
			ImageURL: ptr(""),
		}

		got := PatchValues(patch)
		if len(got) != 3 {
			t.Fatalf("\nwanted:\n3\ngot:\n%d", len(got))
		}
		if got[domain.ColumnPrice] != int64(9999) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", 9999, got[domain.ColumnPrice])
		}
		if got[domain.ColumnGroupActivity] != true {
			t.Fatalf("\nwanted:\ntrue\ngot:\n%v", got[domain.ColumnGroupActivity])
		}
		if v, ok := got[domain.ColumnImageURL].(*string); !ok || v != nil {
			t.Fatalf("\nwanted:\nnil *string\ngot:\n%#v", got[domain.ColumnImageURL])
		}
	})

	t.Run("should return an empty map for a nil patch", func(t *testing.T) {
		if got := PatchValues(nil); len(got) != 0 {
			t.Fatalf("\nwanted:\n0\ngot:\n%d", len(got))
		}
	})
}
