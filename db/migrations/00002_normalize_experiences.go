package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upNormalizeExperiences, downNormalizeExperiences)
}

// optionalColumns are the nullable text columns that must hold NULL rather than blank strings.
var optionalColumns = []string{"image_url", "duration", "participants", "date", "niche_category"}

// upNormalizeExperiences lower-cases category values so they match Category.Slug and turns blank
// optional text into NULL.
func upNormalizeExperiences(ctx context.Context, tx *sql.Tx) error {
	rows, err := tx.QueryContext(ctx, "SELECT id, category FROM experiences WHERE category IS NOT NULL")
	if err != nil {
		return fmt.Errorf("getting categories: %w", err)
	}

	updates := make(map[string]sql.NullString)
	for rows.Next() {
		var id, category string
		if err := rows.Scan(&id, &category); err != nil {
			rows.Close()
			return fmt.Errorf("scanning row: %w", err)
		}
		normalized := strings.ToLower(strings.TrimSpace(category))
		if normalized != category {
			updates[id] = sql.NullString{String: normalized, Valid: normalized != ""}
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating rows: %w", err)
	}
	rows.Close()

	for id, category := range updates {
		if _, err := tx.ExecContext(ctx, "UPDATE experiences SET category = ? WHERE id = ?", category, id); err != nil {
			return fmt.Errorf("updating category of %s: %w", id, err)
		}
	}

	for _, column := range optionalColumns {
		query := fmt.Sprintf("UPDATE experiences SET %[1]s = NULL WHERE TRIM(%[1]s) = ''", column)
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("clearing blank %s: %w", column, err)
		}
	}
	return nil
}

// downNormalizeExperiences is a no-op: the original casing is not recoverable.
func downNormalizeExperiences(ctx context.Context, tx *sql.Tx) error {
	return nil
}
