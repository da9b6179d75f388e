package domain

import "errors"

// ErrItemNotFound is returned by LocalStorage when no entry exists for a key.
var ErrItemNotFound = errors.New("item not found")

// ExperiencesKey is the local storage key holding the JSON snapshot of the experience list.
const ExperiencesKey = "experiences"

// LocalStorage is a string-keyed persistent store used as a fallback when the remote store
// cannot be reached.
type LocalStorage interface {
	// GetItem returns the value stored for key, or ErrItemNotFound.
	GetItem(key string) (string, error)
	// SetItem stores value under key, replacing any previous value.
	SetItem(key string, value string) error
	// RemoveItem deletes the entry for key. Removing a missing key is not an error.
	RemoveItem(key string) error
}
