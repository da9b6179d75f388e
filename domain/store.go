package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnknownColumn is returned when a filter or update names a column outside the experiences table.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrInvalidFilter is returned when a filter uses an unsupported operator.
	ErrInvalidFilter = errors.New("invalid filter")
)

// Operator is a comparison supported by the remote store's query client.
type Operator string

const (
	OpEq  Operator = "eq"  // column equals value
	OpNeq Operator = "neq" // column does not equal value
)

// Filter restricts a Select, Update or Delete to rows matching Column Op Value.
// Multiple filters are combined with AND.
type Filter struct {
	Column string
	Op     Operator
	Value  any
}

// Eq returns a filter matching rows where column equals value.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// Neq returns a filter matching rows where column differs from value.
func Neq(column string, value any) Filter {
	return Filter{Column: column, Op: OpNeq, Value: value}
}

// Validate checks the column and the operator of the filter.
func (f Filter) Validate() error {
	if !IsExperienceColumn(f.Column) {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, f.Column)
	}
	switch f.Op {
	case OpEq, OpNeq:
		return nil
	default:
		return fmt.Errorf("%w: operator %q", ErrInvalidFilter, f.Op)
	}
}

// ValidateFilters validates every filter in order and returns the first failure.
func ValidateFilters(filters []Filter) error {
	for _, f := range filters {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateValues checks that every key of an update map is a writable column.
func ValidateValues(values map[string]any) error {
	for column := range values {
		if column == ColumnID || !IsExperienceColumn(column) {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
		}
	}
	return nil
}

// ExperienceStore is the table-style contract of the remote backend holding experience rows.
type ExperienceStore interface {
	// Select returns every row matching all filters.
	Select(ctx context.Context, filters ...Filter) ([]*ExperienceRow, error)

	// Insert stores the rows and returns them as stored, in input order.
	// Row IDs are ignored and assigned by the store.
	Insert(ctx context.Context, rows ...*ExperienceRow) ([]*ExperienceRow, error)

	// Update sets the given column values on every row matching all filters.
	// Matching no rows is not an error.
	Update(ctx context.Context, values map[string]any, filters ...Filter) error

	// Delete removes every row matching all filters.
	// Matching no rows is not an error.
	Delete(ctx context.Context, filters ...Filter) error
}
