// Package seed embeds the sample catalog used to populate an empty store.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/memento-gifts/memento/domain"
)

//go:embed experiences.json
var experiencesJSON []byte

// JSON returns the raw sample catalog in the import/export format.
func JSON() []byte {
	out := make([]byte, len(experiencesJSON))
	copy(out, experiencesJSON)
	return out
}

// Experiences decodes the sample catalog. Every record passes Validate.
func Experiences() ([]*domain.Experience, error) {
	var experiences []*domain.Experience
	if err := json.Unmarshal(experiencesJSON, &experiences); err != nil {
		return nil, fmt.Errorf("decoding sample experiences: %w", err)
	}
	for i, e := range experiences {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("sample experience %d: %w", i, err)
		}
	}
	return experiences, nil
}
