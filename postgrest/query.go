package postgrest

import (
	"fmt"
	"net/url"

	"github.com/memento-gifts/memento/domain"
)

// encodeValue renders a filter value the way PostgREST expects it in a query string.
func encodeValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case *string:
		if v == nil {
			return "null"
		}
		return *v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// filterQuery adds one `column=op.value` pair per filter. A nil value is matched with
// `is.null` / `not.is.null`, as PostgREST does not compare NULL with eq.
func filterQuery(query url.Values, filters []domain.Filter) error {
	if err := domain.ValidateFilters(filters); err != nil {
		return fmt.Errorf("building filters: %w", err)
	}

	for _, filter := range filters {
		value := encodeValue(filter.Value)
		if value == "null" && isNil(filter.Value) {
			switch filter.Op {
			case domain.OpEq:
				query.Add(filter.Column, "is.null")
			case domain.OpNeq:
				query.Add(filter.Column, "not.is.null")
			}
			continue
		}
		query.Add(filter.Column, string(filter.Op)+"."+value)
	}
	return nil
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(*string)
	return ok && s == nil
}
