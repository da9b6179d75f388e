package postgres

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/memento-gifts/memento/domain"
)

// selectList is the quoted column list of the experiences table. The id is read back as text.
var selectList = func() string {
	columns := make([]string, len(domain.ExperienceColumns))
	for i, column := range domain.ExperienceColumns {
		if column == domain.ColumnID {
			columns[i] = `"id"::text AS "id"`
			continue
		}
		columns[i] = pgx.Identifier{column}.Sanitize()
	}
	return strings.Join(columns, ", ")
}()

// insertColumns are the columns written on insert; id and created_at use their defaults.
var insertColumns = domain.ExperienceColumns[1:]

// builder accumulates positional arguments while rendering SQL fragments.
type builder struct {
	args []any
}

// placeholder registers value and returns its `$n` placeholder.
func (b *builder) placeholder(value any) string {
	b.args = append(b.args, value)
	return fmt.Sprintf("$%d", len(b.args))
}

// where renders the filters as a WHERE clause. The id column is compared as text so
// malformed ids simply match nothing.
func (b *builder) where(filters []domain.Filter) (string, error) {
	if len(filters) == 0 {
		return "", nil
	}

	conditions := make([]string, len(filters))
	for i, filter := range filters {
		if err := filter.Validate(); err != nil {
			return "", fmt.Errorf("building where clause: %w", err)
		}

		column := pgx.Identifier{filter.Column}.Sanitize()
		if filter.Column == domain.ColumnID {
			column = `"id"::text`
		}

		switch filter.Op {
		case domain.OpEq:
			conditions[i] = fmt.Sprintf("%s = %s", column, b.placeholder(filter.Value))
		case domain.OpNeq:
			conditions[i] = fmt.Sprintf("%s IS DISTINCT FROM %s", column, b.placeholder(filter.Value))
		}
	}

	return " WHERE " + strings.Join(conditions, " AND "), nil
}

// set renders update values as a SET clause in column order.
func (b *builder) set(values map[string]any) (string, error) {
	if err := domain.ValidateValues(values); err != nil {
		return "", fmt.Errorf("building set clause: %w", err)
	}

	assignments := make([]string, 0, len(values))
	for _, column := range domain.ExperienceColumns {
		value, ok := values[column]
		if !ok {
			continue
		}
		assignments = append(assignments, fmt.Sprintf("%s = %s", pgx.Identifier{column}.Sanitize(), b.placeholder(value)))
	}

	return " SET " + strings.Join(assignments, ", "), nil
}

// values renders one row of insert placeholders.
func (b *builder) values(row *domain.ExperienceRow) string {
	fields := []any{
		row.Title, row.Description, row.ImageURL, row.Price, row.Location, row.Duration,
		row.Participants, row.Date, row.Category, row.NicheCategory,
		row.Trending, row.Featured, row.Romantic, row.Adventurous, row.GroupActivity,
	}

	placeholders := make([]string, len(fields))
	for i, field := range fields {
		placeholders[i] = b.placeholder(field)
	}
	return "(" + strings.Join(placeholders, ", ") + ")"
}

func selectQuery(filters []domain.Filter) (string, []any, error) {
	b := &builder{}
	where, err := b.where(filters)
	if err != nil {
		return "", nil, err
	}
	return "SELECT " + selectList + " FROM experiences" + where + " ORDER BY created_at, id", b.args, nil
}

func insertQuery(rows []*domain.ExperienceRow) (string, []any) {
	b := &builder{}

	quoted := make([]string, len(insertColumns))
	for i, column := range insertColumns {
		quoted[i] = pgx.Identifier{column}.Sanitize()
	}

	tuples := make([]string, len(rows))
	for i, row := range rows {
		tuples[i] = b.values(row)
	}

	query := "INSERT INTO experiences (" + strings.Join(quoted, ", ") + ") VALUES " +
		strings.Join(tuples, ", ") + " RETURNING " + selectList
	return query, b.args
}

func updateQuery(values map[string]any, filters []domain.Filter) (string, []any, error) {
	b := &builder{}
	set, err := b.set(values)
	if err != nil {
		return "", nil, err
	}
	where, err := b.where(filters)
	if err != nil {
		return "", nil, err
	}
	return "UPDATE experiences" + set + where, b.args, nil
}

func deleteQuery(filters []domain.Filter) (string, []any, error) {
	b := &builder{}
	where, err := b.where(filters)
	if err != nil {
		return "", nil, err
	}
	return "DELETE FROM experiences" + where, b.args, nil
}
