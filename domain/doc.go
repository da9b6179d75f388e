// Package domain defines the core data structures of the Memento catalog.
// It contains the application-level Experience record, its remote row shape, the static
// category lists, and the interfaces that describe the remote store and the local fallback.
//
// This package has no knowledge of a particular backend. The root package composes these
// interfaces, while the db, postgres and postgrest packages implement them.
package domain
