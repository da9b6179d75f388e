package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidExperience is returned when an Experience is missing one of its required fields.
var ErrInvalidExperience = errors.New("invalid experience")

// Experience is a purchasable gift experience as the application sees it.
// The JSON form of this struct is the import/export exchange format.
type Experience struct {
	ID            string `json:"id,omitempty"`            // Opaque identifier assigned by the remote store.
	Title         string `json:"title"`                   // Display title (required).
	Description   string `json:"description"`             // Short marketing description (required).
	ImageURL      string `json:"imageUrl,omitempty"`      // Hero/card image.
	Price         int64  `json:"price"`                   // Price in minor currency units (required).
	Location      string `json:"location"`                // Where the experience happens (required).
	Duration      string `json:"duration,omitempty"`      // Free text, e.g. "3 hours".
	Participants  string `json:"participants,omitempty"`  // Free text, e.g. "Up to 6 people".
	Date          string `json:"date,omitempty"`          // Availability text, e.g. "Seasonal".
	Category      string `json:"category,omitempty"`      // Lower-cased category name.
	NicheCategory string `json:"nicheCategory,omitempty"` // Optional niche grouping.
	Trending      bool   `json:"trending,omitempty"`
	Featured      bool   `json:"featured,omitempty"`
	Romantic      bool   `json:"romantic,omitempty"`
	Adventurous   bool   `json:"adventurous,omitempty"`
	Group         bool   `json:"group,omitempty"`
}

// Validate checks the fields that every stored experience must carry.
func (e *Experience) Validate() error {
	switch {
	case strings.TrimSpace(e.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidExperience)
	case strings.TrimSpace(e.Description) == "":
		return fmt.Errorf("%w: description is required", ErrInvalidExperience)
	case strings.TrimSpace(e.Location) == "":
		return fmt.Errorf("%w: location is required", ErrInvalidExperience)
	case e.Price < 0:
		return fmt.Errorf("%w: price must not be negative", ErrInvalidExperience)
	}
	return nil
}

// Clone returns a shallow copy of the experience.
func (e *Experience) Clone() *Experience {
	c := *e
	return &c
}

// ExperiencePatch is a partial update. A nil field means the key was not provided
// and the stored value is left untouched.
type ExperiencePatch struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	ImageURL      *string `json:"imageUrl,omitempty"`
	Price         *int64  `json:"price,omitempty"`
	Location      *string `json:"location,omitempty"`
	Duration      *string `json:"duration,omitempty"`
	Participants  *string `json:"participants,omitempty"`
	Date          *string `json:"date,omitempty"`
	Category      *string `json:"category,omitempty"`
	NicheCategory *string `json:"nicheCategory,omitempty"`
	Trending      *bool   `json:"trending,omitempty"`
	Featured      *bool   `json:"featured,omitempty"`
	Romantic      *bool   `json:"romantic,omitempty"`
	Adventurous   *bool   `json:"adventurous,omitempty"`
	Group         *bool   `json:"group,omitempty"`
}

// Empty reports whether the patch carries no keys at all.
func (p *ExperiencePatch) Empty() bool {
	return p == nil || *p == ExperiencePatch{}
}

// Validate rejects patches that would blank a required field or make the price negative.
func (p *ExperiencePatch) Validate() error {
	if p == nil {
		return nil
	}
	switch {
	case p.Title != nil && strings.TrimSpace(*p.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidExperience)
	case p.Description != nil && strings.TrimSpace(*p.Description) == "":
		return fmt.Errorf("%w: description is required", ErrInvalidExperience)
	case p.Location != nil && strings.TrimSpace(*p.Location) == "":
		return fmt.Errorf("%w: location is required", ErrInvalidExperience)
	case p.Price != nil && *p.Price < 0:
		return fmt.Errorf("%w: price must not be negative", ErrInvalidExperience)
	}
	return nil
}

// Apply merges the provided keys of the patch into e.
func (p *ExperiencePatch) Apply(e *Experience) {
	if p == nil {
		return
	}
	setString(&e.Title, p.Title)
	setString(&e.Description, p.Description)
	setString(&e.ImageURL, p.ImageURL)
	if p.Price != nil {
		e.Price = *p.Price
	}
	setString(&e.Location, p.Location)
	setString(&e.Duration, p.Duration)
	setString(&e.Participants, p.Participants)
	setString(&e.Date, p.Date)
	setString(&e.Category, p.Category)
	setString(&e.NicheCategory, p.NicheCategory)
	setBool(&e.Trending, p.Trending)
	setBool(&e.Featured, p.Featured)
	setBool(&e.Romantic, p.Romantic)
	setBool(&e.Adventurous, p.Adventurous)
	setBool(&e.Group, p.Group)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
