package postgres

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/memento-gifts/memento/domain"
)

func TestSelectQuery(t *testing.T) {
	t.Run("should select every row without filters", func(t *testing.T) {
		query, args, err := selectQuery(nil)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if strings.Contains(query, "WHERE") {
			t.Fatalf("\nwanted:\nno WHERE clause\ngot:\n%s", query)
		}
		if len(args) != 0 {
			t.Fatalf("\nwanted:\n0 args\ngot:\n%v", args)
		}
		if !strings.HasSuffix(query, "ORDER BY created_at, id") {
			t.Fatalf("\nwanted:\nordered query\ngot:\n%s", query)
		}
	})

	t.Run("should number placeholders across filters", func(t *testing.T) {
		query, args, err := selectQuery([]domain.Filter{
			domain.Eq(domain.ColumnCategory, "adventure"),
			domain.Eq(domain.ColumnTrending, true),
		})
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		want := ` WHERE "category" = $1 AND "trending" = $2`
		if !strings.Contains(query, want) {
			t.Fatalf("\nwanted:\n%s\ngot:\n%s", want, query)
		}
		if !reflect.DeepEqual(args, []any{"adventure", true}) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", []any{"adventure", true}, args)
		}
	})

	t.Run("should compare ids as text", func(t *testing.T) {
		query, _, err := selectQuery([]domain.Filter{domain.Eq(domain.ColumnID, "abc")})
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if !strings.Contains(query, `WHERE "id"::text = $1`) {
			t.Fatalf("\nwanted:\ntext id comparison\ngot:\n%s", query)
		}
	})

	t.Run("should reject unknown columns", func(t *testing.T) {
		_, _, err := selectQuery([]domain.Filter{domain.Eq("1=1; --", 1)})
		if !errors.Is(err, domain.ErrUnknownColumn) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrUnknownColumn, err)
		}
	})
}

func TestInsertQuery(t *testing.T) {
	t.Run("should render one tuple per row and return the stored columns", func(t *testing.T) {
		rows := []*domain.ExperienceRow{
			{Title: "a", Description: "a", Location: "x"},
			{Title: "b", Description: "b", Location: "y"},
		}

		query, args := insertQuery(rows)
		if len(args) != 2*len(insertColumns) {
			t.Fatalf("\nwanted:\n%d\ngot:\n%d", 2*len(insertColumns), len(args))
		}
		if !strings.Contains(query, "($16, $17,") {
			t.Fatalf("\nwanted:\nsecond tuple starting at $16\ngot:\n%s", query)
		}
		if !strings.Contains(query, "RETURNING "+selectList) {
			t.Fatalf("\nwanted:\nRETURNING clause\ngot:\n%s", query)
		}
		if strings.Contains(strings.Split(query, "VALUES")[0], `"id"`) {
			t.Fatalf("\nwanted:\nid left to its default\ngot:\n%s", query)
		}
	})
}

func TestUpdateQuery(t *testing.T) {
	t.Run("should render set values before filters", func(t *testing.T) {
		query, args, err := updateQuery(
			map[string]any{domain.ColumnTitle: "new", domain.ColumnFeatured: false},
			[]domain.Filter{domain.Eq(domain.ColumnID, "abc")},
		)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		want := `UPDATE experiences SET "title" = $1, "featured" = $2 WHERE "id"::text = $3`
		if query != want {
			t.Fatalf("\nwanted:\n%s\ngot:\n%s", want, query)
		}
		if !reflect.DeepEqual(args, []any{"new", false, "abc"}) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", []any{"new", false, "abc"}, args)
		}
	})
}

func TestDeleteQuery(t *testing.T) {
	t.Run("should use a null safe comparison for neq", func(t *testing.T) {
		query, args, err := deleteQuery([]domain.Filter{domain.Neq(domain.ColumnID, uuid.Nil.String())})
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		want := `DELETE FROM experiences WHERE "id"::text IS DISTINCT FROM $1`
		if query != want {
			t.Fatalf("\nwanted:\n%s\ngot:\n%s", want, query)
		}
		if args[0] != uuid.Nil.String() {
			t.Fatalf("\nwanted:\n%s\ngot:\n%v", uuid.Nil.String(), args[0])
		}
	})
}
