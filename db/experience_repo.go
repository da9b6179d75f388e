package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/memento-gifts/memento/domain"
)

var _ domain.ExperienceStore = (*Repository)(nil)

// Select retrieves the experience rows matching all filters, oldest first.
func (repo *Repository) Select(ctx context.Context, filters ...domain.Filter) ([]*domain.ExperienceRow, error) {
	where, args, err := whereClause(filters)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + experienceColumns + ` FROM experiences` + where + ` ORDER BY created_at, rowid`

	rows := make([]*domain.ExperienceRow, 0)
	err = repo.dbConn.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting experiences: %w", err)
	}

	return rows, nil
}

// Insert stores the rows with freshly generated UUIDv7 identifiers inside a single transaction
// and returns them as stored, in input order.
func (repo *Repository) Insert(ctx context.Context, rows ...*domain.ExperienceRow) ([]*domain.ExperienceRow, error) {
	if len(rows) == 0 {
		return []*domain.ExperienceRow{}, nil
	}

	query := `INSERT INTO experiences (id, title, description, image_url, price, location, duration, participants,
	              date, category, niche_category, trending, featured, romantic, adventurous, group_activity)
	          VALUES (:id, :title, :description, :image_url, :price, :location, :duration, :participants,
	              :date, :category, :niche_category, :trending, :featured, :romantic, :adventurous, :group_activity)`

	tx, err := repo.dbConn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	ids := make([]string, len(rows))
	for i, row := range rows {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("generating uuid: %w", err)
		}

		stored := *row
		stored.ID = id.String()
		ids[i] = stored.ID

		if _, err := tx.NamedExecContext(ctx, query, &stored); err != nil {
			return nil, fmt.Errorf("inserting experience %q: %w", row.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing experiences: %w", err)
	}

	return repo.selectByIDs(ctx, ids)
}

// selectByIDs returns the rows with the given ids, ordered like ids.
func (repo *Repository) selectByIDs(ctx context.Context, ids []string) ([]*domain.ExperienceRow, error) {
	query, args, err := sqlx.In(`SELECT `+experienceColumns+` FROM experiences WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("expanding ids: %w", err)
	}

	var found []*domain.ExperienceRow
	if err := repo.dbConn.SelectContext(ctx, &found, repo.dbConn.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("reading inserted experiences: %w", err)
	}

	byID := make(map[string]*domain.ExperienceRow, len(found))
	for _, row := range found {
		byID[row.ID] = row
	}

	ordered := make([]*domain.ExperienceRow, 0, len(ids))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
		}
	}
	return ordered, nil
}

// Update sets the given column values on every row matching all filters.
func (repo *Repository) Update(ctx context.Context, values map[string]any, filters ...domain.Filter) error {
	if len(values) == 0 {
		return nil
	}

	set, setArgs, err := setClause(values)
	if err != nil {
		return err
	}
	where, whereArgs, err := whereClause(filters)
	if err != nil {
		return err
	}

	query := `UPDATE experiences` + set + where
	_, err = repo.dbConn.ExecContext(ctx, query, append(setArgs, whereArgs...)...)
	if err != nil {
		return fmt.Errorf("updating experiences: %w", err)
	}

	return nil
}

// Delete removes every row matching all filters.
func (repo *Repository) Delete(ctx context.Context, filters ...domain.Filter) error {
	where, args, err := whereClause(filters)
	if err != nil {
		return err
	}

	query := `DELETE FROM experiences` + where
	_, err = repo.dbConn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting experiences: %w", err)
	}

	return nil
}
