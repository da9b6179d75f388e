package domain

import "slices"

// Column names of the remote `experiences` table.
const (
	ColumnID            = "id"
	ColumnTitle         = "title"
	ColumnDescription   = "description"
	ColumnImageURL      = "image_url"
	ColumnPrice         = "price"
	ColumnLocation      = "location"
	ColumnDuration      = "duration"
	ColumnParticipants  = "participants"
	ColumnDate          = "date"
	ColumnCategory      = "category"
	ColumnNicheCategory = "niche_category"
	ColumnTrending      = "trending"
	ColumnFeatured      = "featured"
	ColumnRomantic      = "romantic"
	ColumnAdventurous   = "adventurous"
	ColumnGroupActivity = "group_activity"
)

// ExperiencesTable is the name of the remote table holding experience rows.
const ExperiencesTable = "experiences"

// ExperienceColumns lists every column of the experiences table in schema order.
var ExperienceColumns = []string{
	ColumnID,
	ColumnTitle,
	ColumnDescription,
	ColumnImageURL,
	ColumnPrice,
	ColumnLocation,
	ColumnDuration,
	ColumnParticipants,
	ColumnDate,
	ColumnCategory,
	ColumnNicheCategory,
	ColumnTrending,
	ColumnFeatured,
	ColumnRomantic,
	ColumnAdventurous,
	ColumnGroupActivity,
}

// IsExperienceColumn reports whether name is a column of the experiences table.
func IsExperienceColumn(name string) bool {
	return slices.Contains(ExperienceColumns, name)
}

// ExperienceRow is an experience as stored by the remote backend.
// Optional text columns are nullable, flags are non-null and default to false.
type ExperienceRow struct {
	ID            string  `db:"id" json:"id,omitempty"`
	Title         string  `db:"title" json:"title"`
	Description   string  `db:"description" json:"description"`
	ImageURL      *string `db:"image_url" json:"image_url"`
	Price         int64   `db:"price" json:"price"`
	Location      string  `db:"location" json:"location"`
	Duration      *string `db:"duration" json:"duration"`
	Participants  *string `db:"participants" json:"participants"`
	Date          *string `db:"date" json:"date"`
	Category      *string `db:"category" json:"category"`
	NicheCategory *string `db:"niche_category" json:"niche_category"`
	Trending      bool    `db:"trending" json:"trending"`
	Featured      bool    `db:"featured" json:"featured"`
	Romantic      bool    `db:"romantic" json:"romantic"`
	Adventurous   bool    `db:"adventurous" json:"adventurous"`
	GroupActivity bool    `db:"group_activity" json:"group_activity"`
}
