package db

import (
	"fmt"
	"strings"

	"github.com/memento-gifts/memento/domain"
)

// quote returns a double-quoted SQLite identifier. Callers only pass validated column names.
func quote(column string) string {
	return `"` + column + `"`
}

// experienceColumns is the explicit, quoted select list of the experiences table.
var experienceColumns = func() string {
	quoted := make([]string, len(domain.ExperienceColumns))
	for i, column := range domain.ExperienceColumns {
		quoted[i] = quote(column)
	}
	return strings.Join(quoted, ", ")
}()

// whereClause renders the filters as a SQL WHERE clause with `?` placeholders.
// It returns an empty clause when there are no filters.
func whereClause(filters []domain.Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	conditions := make([]string, len(filters))
	args := make([]any, len(filters))
	for i, filter := range filters {
		if err := filter.Validate(); err != nil {
			return "", nil, fmt.Errorf("building where clause: %w", err)
		}

		switch filter.Op {
		case domain.OpEq:
			conditions[i] = fmt.Sprintf("%s = ?", quote(filter.Column))
		case domain.OpNeq:
			conditions[i] = fmt.Sprintf("%s IS NOT ?", quote(filter.Column))
		}
		args[i] = filter.Value
	}

	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

// setClause renders update values as a SQL SET clause with `?` placeholders, in column order.
func setClause(values map[string]any) (string, []any, error) {
	if err := domain.ValidateValues(values); err != nil {
		return "", nil, fmt.Errorf("building set clause: %w", err)
	}

	assignments := make([]string, 0, len(values))
	args := make([]any, 0, len(values))
	for _, column := range domain.ExperienceColumns {
		value, ok := values[column]
		if !ok {
			continue
		}
		assignments = append(assignments, fmt.Sprintf("%s = ?", quote(column)))
		args = append(args, value)
	}

	return " SET " + strings.Join(assignments, ", "), args, nil
}
