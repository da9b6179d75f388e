package memento

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/memento-gifts/memento/domain"
	"github.com/memento-gifts/memento/mapper"
	"github.com/memento-gifts/memento/pretty"
)

// ResetSentinelID never matches a stored row; deleting every row "not equal" to it clears the table.
const ResetSentinelID = "00000000-0000-0000-0000-000000000000"

// User-visible messages.
const (
	MsgLoadFailed     = "Failed to load experiences"
	MsgAddFailed      = "Failed to add experience"
	MsgUpdateFailed   = "Failed to update experience"
	MsgDeleteFailed   = "Failed to delete experience"
	MsgResetFailed    = "Failed to reset experiences"
	MsgExportFailed   = "Failed to export experiences"
	MsgResetDone      = "Experiences have been reset"
	MsgImportDone     = "Experiences imported successfully"
	MsgImportNotArray = "Invalid format: expected an array"
	msgImportError    = "Error importing: "
)

// ErrNoRowReturned is returned by Add when the store acknowledges an insert without returning the row.
var ErrNoRowReturned = errors.New("store returned no row")

// Result is the outcome of Reset and Import.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Manager holds the working list of experiences and keeps it in sync with the store.
// It is safe for concurrent use. Store calls are made without holding the lock.
type Manager struct {
	catalog *Catalog

	mu          sync.RWMutex
	experiences []*domain.Experience
	loading     bool
	err         string
}

// NewManager returns a manager in the loading state with an empty list. Call Load to populate it.
func NewManager(catalog *Catalog) *Manager {
	return &Manager{
		catalog:     catalog,
		experiences: []*domain.Experience{},
		loading:     true,
	}
}

// Experiences returns a copy of the current list.
func (m *Manager) Experiences() []*domain.Experience {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneAll(m.experiences)
}

// Loading reports whether a Load is in progress or has not happened yet.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Error returns the last load error message, or "" when the last load succeeded.
func (m *Manager) Error() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}

// Load fetches every experience from the store. When the store fails the error message is
// set and the list is restored from the local snapshot, or left empty when there is none.
func (m *Manager) Load(ctx context.Context) {
	m.mu.Lock()
	m.loading = true
	m.err = ""
	m.mu.Unlock()

	rows, err := m.catalog.Store.Select(ctx)
	if err != nil {
		m.catalog.Logger.Error("fetching experiences", "error", err)
		fallback := m.readSnapshot()

		m.mu.Lock()
		m.err = MsgLoadFailed
		if fallback != nil {
			m.experiences = fallback
		}
		m.loading = false
		m.mu.Unlock()
		return
	}

	experiences := mapper.ToExperiences(rows)
	m.mu.Lock()
	m.experiences = experiences
	m.loading = false
	m.mu.Unlock()

	m.writeSnapshot()
}

// Add validates and stores a new experience and appends the stored record to the list.
// Any id on e is ignored.
func (m *Manager) Add(ctx context.Context, e *domain.Experience) (*domain.Experience, error) {
	if err := e.Validate(); err != nil {
		m.catalog.notify(domain.LevelError, MsgAddFailed, err)
		return nil, err
	}

	rows, err := m.catalog.Store.Insert(ctx, mapper.ToRow(e))
	if err == nil && len(rows) != 1 {
		err = ErrNoRowReturned
	}
	if err != nil {
		m.catalog.notify(domain.LevelError, MsgAddFailed, err)
		return nil, fmt.Errorf("adding experience: %w", err)
	}

	added := mapper.ToExperience(rows[0])
	m.mu.Lock()
	m.experiences = append(m.experiences, added)
	m.mu.Unlock()

	m.writeSnapshot()
	return added.Clone(), nil
}

// Update writes the provided keys of the patch to the experience with the given id and
// merges them into the list. An empty patch does nothing.
func (m *Manager) Update(ctx context.Context, id string, patch *domain.ExperiencePatch) error {
	if patch.Empty() {
		return nil
	}
	if err := patch.Validate(); err != nil {
		m.catalog.notify(domain.LevelError, MsgUpdateFailed, err)
		return err
	}

	if err := m.catalog.Store.Update(ctx, mapper.PatchValues(patch), domain.Eq(domain.ColumnID, id)); err != nil {
		m.catalog.notify(domain.LevelError, MsgUpdateFailed, err)
		return fmt.Errorf("updating experience %s: %w", id, err)
	}

	m.mu.Lock()
	for i, e := range m.experiences {
		if e.ID == id {
			updated := e.Clone()
			patch.Apply(updated)
			m.experiences[i] = updated
		}
	}
	m.mu.Unlock()

	m.writeSnapshot()
	return nil
}

// Delete removes the experience with the given id from the store and from the list.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.catalog.Store.Delete(ctx, domain.Eq(domain.ColumnID, id)); err != nil {
		m.catalog.notify(domain.LevelError, MsgDeleteFailed, err)
		return fmt.Errorf("deleting experience %s: %w", id, err)
	}

	m.mu.Lock()
	m.experiences = slices.DeleteFunc(m.experiences, func(e *domain.Experience) bool {
		return e.ID == id
	})
	m.mu.Unlock()

	m.writeSnapshot()
	return nil
}

// Reset deletes every stored experience, reloads the list and drops the local snapshot.
func (m *Manager) Reset(ctx context.Context) (*Result, error) {
	experiences, err := m.replaceAll(ctx, nil)
	if err != nil {
		m.catalog.notify(domain.LevelError, MsgResetFailed, err)
		return nil, fmt.Errorf("resetting experiences: %w", err)
	}

	m.mu.Lock()
	m.experiences = experiences
	m.mu.Unlock()

	if m.catalog.Local != nil {
		if err := m.catalog.Local.RemoveItem(domain.ExperiencesKey); err != nil {
			m.catalog.Logger.Error("removing local snapshot", "error", err)
		}
	}
	return &Result{Success: true, Message: MsgResetDone}, nil
}

// Import replaces every stored experience with the JSON array in payload. Records are
// validated before anything is deleted, so a rejected payload leaves the store untouched.
// Ids in the payload are ignored. Import never returns an error; failures are reported
// in the Result.
func (m *Manager) Import(ctx context.Context, payload []byte) *Result {
	var raw json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return importFailure(err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return &Result{Success: false, Message: MsgImportNotArray}
	}

	var imported []*domain.Experience
	if err := json.Unmarshal(raw, &imported); err != nil {
		return importFailure(err)
	}
	for i, e := range imported {
		if e == nil {
			return importFailure(fmt.Errorf("record %d: %w: null record", i, domain.ErrInvalidExperience))
		}
		if err := e.Validate(); err != nil {
			return importFailure(fmt.Errorf("record %d: %w", i, err))
		}
	}

	experiences, err := m.replaceAll(ctx, mapper.ToRows(imported))
	if err != nil {
		m.catalog.Logger.Error("importing experiences", "error", err)
		return importFailure(err)
	}

	m.mu.Lock()
	m.experiences = experiences
	m.mu.Unlock()

	m.writeSnapshot()
	return &Result{Success: true, Message: MsgImportDone}
}

// Export returns every stored experience as a two space indented JSON array.
func (m *Manager) Export(ctx context.Context) ([]byte, error) {
	rows, err := m.catalog.Store.Select(ctx)
	if err != nil {
		m.catalog.notify(domain.LevelError, MsgExportFailed, err)
		return nil, fmt.Errorf("exporting experiences: %w", err)
	}

	output, err := pretty.JSON(mapper.ToExperiences(rows))
	if err != nil {
		m.catalog.notify(domain.LevelError, MsgExportFailed, err)
		return nil, fmt.Errorf("exporting experiences: %w", err)
	}
	return output, nil
}

// replaceAll deletes every stored row, inserts rows and returns the reloaded list.
func (m *Manager) replaceAll(ctx context.Context, rows []*domain.ExperienceRow) ([]*domain.Experience, error) {
	store := m.catalog.Store
	if err := store.Delete(ctx, domain.Neq(domain.ColumnID, ResetSentinelID)); err != nil {
		return nil, fmt.Errorf("deleting experiences: %w", err)
	}
	if len(rows) > 0 {
		if _, err := store.Insert(ctx, rows...); err != nil {
			return nil, fmt.Errorf("inserting experiences: %w", err)
		}
	}
	stored, err := store.Select(ctx)
	if err != nil {
		return nil, fmt.Errorf("reloading experiences: %w", err)
	}
	return mapper.ToExperiences(stored), nil
}

// readSnapshot returns the list saved in local storage, or nil when there is none or it
// cannot be decoded.
func (m *Manager) readSnapshot() []*domain.Experience {
	if m.catalog.Local == nil {
		return nil
	}
	saved, err := m.catalog.Local.GetItem(domain.ExperiencesKey)
	if err != nil {
		if !errors.Is(err, domain.ErrItemNotFound) {
			m.catalog.Logger.Error("reading local snapshot", "error", err)
		}
		return nil
	}

	var experiences []*domain.Experience
	if err := json.Unmarshal([]byte(saved), &experiences); err != nil {
		m.catalog.Logger.Error("decoding local snapshot", "error", err)
		return nil
	}
	return slices.DeleteFunc(experiences, func(e *domain.Experience) bool { return e == nil })
}

// writeSnapshot saves the current list to local storage. Failures are only logged.
func (m *Manager) writeSnapshot() {
	if m.catalog.Local == nil {
		return
	}
	m.mu.RLock()
	encoded, err := json.Marshal(m.experiences)
	m.mu.RUnlock()
	if err != nil {
		m.catalog.Logger.Error("encoding local snapshot", "error", err)
		return
	}
	if err := m.catalog.Local.SetItem(domain.ExperiencesKey, string(encoded)); err != nil {
		m.catalog.Logger.Error("writing local snapshot", "error", err)
	}
}

func importFailure(err error) *Result {
	return &Result{Success: false, Message: msgImportError + err.Error()}
}

func cloneAll(experiences []*domain.Experience) []*domain.Experience {
	out := make([]*domain.Experience, len(experiences))
	for i, e := range experiences {
		out[i] = e.Clone()
	}
	return out
}
