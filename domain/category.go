package domain

import "strings"

// Category is a top-level grouping shown in navigation and listing sections.
// Experiences reference a category by its lower-cased Name.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Slug returns the value stored in an experience's category field for this category.
func (c Category) Slug() string {
	return strings.ToLower(c.Name)
}

// NicheCategory is a finer, cross-cutting grouping such as "Luxury Escapes".
type NicheCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultCategories is the static category list of the catalog.
var DefaultCategories = []Category{
	{ID: "adventure", Name: "Adventure", Description: "Thrilling outdoor experiences for the bold"},
	{ID: "dining", Name: "Dining", Description: "Memorable meals and tasting menus"},
	{ID: "wellness", Name: "Wellness", Description: "Spa days, retreats and time to unwind"},
	{ID: "luxury", Name: "Luxury", Description: "Once-in-a-lifetime indulgences"},
	{ID: "learning", Name: "Learning", Description: "Workshops and classes with experts"},
	{ID: "art", Name: "Art", Description: "Hands-on creative sessions"},
	{ID: "food", Name: "Food", Description: "Culinary journeys beyond the restaurant"},
	{ID: "unique", Name: "Unique", Description: "Experiences you will not find anywhere else"},
	{ID: "cultural", Name: "Cultural", Description: "Traditions, heritage and local culture"},
	{ID: "photography", Name: "Photography", Description: "Capture the moment with the pros"},
	{ID: "science", Name: "Science", Description: "Stars, space and discovery"},
}

// DefaultNicheCategories is the static niche category list of the catalog.
var DefaultNicheCategories = []NicheCategory{
	{ID: "luxury-escapes", Name: "Luxury Escapes"},
	{ID: "culinary-arts", Name: "Culinary Arts"},
	{ID: "aerial-tours", Name: "Aerial Tours"},
	{ID: "wildlife-photography", Name: "Wildlife Photography"},
	{ID: "traditional-arts", Name: "Traditional Arts"},
	{ID: "urban-culture", Name: "Urban Culture"},
	{ID: "wine-spirits", Name: "Wine & Spirits"},
	{ID: "wellness-spirituality", Name: "Wellness & Spirituality"},
	{ID: "sports-fitness", Name: "Sports & Fitness"},
	{ID: "photography", Name: "Photography"},
	{ID: "culinary-adventures", Name: "Culinary Adventures"},
	{ID: "extreme-sports", Name: "Extreme Sports"},
	{ID: "exclusive-retreats", Name: "Exclusive Retreats"},
	{ID: "space-aviation", Name: "Space & Aviation"},
	{ID: "fine-dining", Name: "Fine Dining"},
	{ID: "astronomy", Name: "Astronomy"},
}

// FindCategory returns the category with the given id.
func FindCategory(categories []Category, id string) (Category, bool) {
	for _, category := range categories {
		if category.ID == id {
			return category, true
		}
	}
	return Category{}, false
}
