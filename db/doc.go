// Package db provides the SQLite layer of the Memento catalog.
// It serves two roles: a self-hosted implementation of the remote experiences table,
// used when no hosted backend is configured, and the local storage that holds the
// fallback snapshot of the experience list.
//
// This package is responsible for:
// - Establishing the database connection and applying migrations (`db.go`, `migrations/`).
// - Implementing domain.ExperienceStore over the `experiences` table (`experience_repo.go`).
// - Implementing domain.LocalStorage over the `local_storage` table (`local_storage_repo.go`).
// - Translating domain.Filter values into SQL (`filters.go`).
package db
