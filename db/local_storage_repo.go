package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/memento-gifts/memento/domain"
)

var _ domain.LocalStorage = (*Repository)(nil)

// GetItem returns the value stored for key in the local_storage table.
func (repo *Repository) GetItem(key string) (string, error) {
	var value string
	query := `SELECT value FROM local_storage WHERE key = ?`

	err := repo.dbConn.Get(&value, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrItemNotFound
		}
		return "", fmt.Errorf("getting item %s: %w", key, err)
	}

	return value, nil
}

// SetItem creates or replaces the value stored for key.
func (repo *Repository) SetItem(key string, value string) error {
	query := `INSERT INTO local_storage(key, value)
		      VALUES (?, ?)
		      ON CONFLICT(key) DO UPDATE SET value=excluded.value`

	_, err := repo.dbConn.Exec(query, key, value)
	if err != nil {
		return fmt.Errorf("setting item %s: %w", key, err)
	}

	return nil
}

// RemoveItem deletes the entry for key.
func (repo *Repository) RemoveItem(key string) error {
	query := `DELETE FROM local_storage WHERE key = ?`

	_, err := repo.dbConn.Exec(query, key)
	if err != nil {
		return fmt.Errorf("removing item %s: %w", key, err)
	}

	return nil
}
