// Package mapper translates between the application Experience record and the
// snake_case row schema of the remote experiences table.
package mapper

import "github.com/memento-gifts/memento/domain"

// ToExperience converts a stored row to the application shape. NULL text columns become "".
func ToExperience(row *domain.ExperienceRow) *domain.Experience {
	return &domain.Experience{
		ID:            row.ID,
		Title:         row.Title,
		Description:   row.Description,
		ImageURL:      deref(row.ImageURL),
		Price:         row.Price,
		Location:      row.Location,
		Duration:      deref(row.Duration),
		Participants:  deref(row.Participants),
		Date:          deref(row.Date),
		Category:      deref(row.Category),
		NicheCategory: deref(row.NicheCategory),
		Trending:      row.Trending,
		Featured:      row.Featured,
		Romantic:      row.Romantic,
		Adventurous:   row.Adventurous,
		Group:         row.GroupActivity,
	}
}

// ToExperiences converts every row, preserving order. It never returns nil.
func ToExperiences(rows []*domain.ExperienceRow) []*domain.Experience {
	experiences := make([]*domain.Experience, len(rows))
	for i, row := range rows {
		experiences[i] = ToExperience(row)
	}
	return experiences
}

// ToRow converts an experience to a row ready for insertion.
// The ID is never carried over; the store assigns it.
func ToRow(e *domain.Experience) *domain.ExperienceRow {
	return &domain.ExperienceRow{
		Title:         e.Title,
		Description:   e.Description,
		ImageURL:      nullable(e.ImageURL),
		Price:         e.Price,
		Location:      e.Location,
		Duration:      nullable(e.Duration),
		Participants:  nullable(e.Participants),
		Date:          nullable(e.Date),
		Category:      nullable(e.Category),
		NicheCategory: nullable(e.NicheCategory),
		Trending:      e.Trending,
		Featured:      e.Featured,
		Romantic:      e.Romantic,
		Adventurous:   e.Adventurous,
		GroupActivity: e.Group,
	}
}

// ToRows converts every experience with ToRow, preserving order.
func ToRows(experiences []*domain.Experience) []*domain.ExperienceRow {
	rows := make([]*domain.ExperienceRow, len(experiences))
	for i, e := range experiences {
		rows[i] = ToRow(e)
	}
	return rows
}

// PatchValues returns the column values for the keys provided in the patch.
// Optional text set to "" is written as NULL.
func PatchValues(p *domain.ExperiencePatch) map[string]any {
	values := make(map[string]any)
	if p == nil {
		return values
	}

	if p.Title != nil {
		values[domain.ColumnTitle] = *p.Title
	}
	if p.Description != nil {
		values[domain.ColumnDescription] = *p.Description
	}
	if p.ImageURL != nil {
		values[domain.ColumnImageURL] = nullable(*p.ImageURL)
	}
	if p.Price != nil {
		values[domain.ColumnPrice] = *p.Price
	}
	if p.Location != nil {
		values[domain.ColumnLocation] = *p.Location
	}
	if p.Duration != nil {
		values[domain.ColumnDuration] = nullable(*p.Duration)
	}
	if p.Participants != nil {
		values[domain.ColumnParticipants] = nullable(*p.Participants)
	}
	if p.Date != nil {
		values[domain.ColumnDate] = nullable(*p.Date)
	}
	if p.Category != nil {
		values[domain.ColumnCategory] = nullable(*p.Category)
	}
	if p.NicheCategory != nil {
		values[domain.ColumnNicheCategory] = nullable(*p.NicheCategory)
	}
	if p.Trending != nil {
		values[domain.ColumnTrending] = *p.Trending
	}
	if p.Featured != nil {
		values[domain.ColumnFeatured] = *p.Featured
	}
	if p.Romantic != nil {
		values[domain.ColumnRomantic] = *p.Romantic
	}
	if p.Adventurous != nil {
		values[domain.ColumnAdventurous] = *p.Adventurous
	}
	if p.Group != nil {
		values[domain.ColumnGroupActivity] = *p.Group
	}
	return values
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
