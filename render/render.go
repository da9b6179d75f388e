// Package render produces the public HTML pages of the catalog and its sitemap.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/memento-gifts/memento"
	"github.com/memento-gifts/memento/domain"
	"github.com/memento-gifts/memento/pretty"
)

//go:embed templates/*.html
var templateFS embed.FS

// Link is an anchor rendered in navigation, the hero or the footer.
type Link struct {
	Label string
	Href  string
}

// Hero is the banner at the top of the home page.
type Hero struct {
	Heading    string
	Subheading string
	CTA        Link
	Experience *domain.Experience // Featured experience shown next to the heading, optional
}

// Section is a titled grid of experience cards.
type Section struct {
	ID          string
	Title       string
	Description string
	Experiences []*domain.Experience
}

// Page is everything the layout template needs.
type Page struct {
	Title       string
	Description string
	Categories  []domain.Category
	Hero        *Hero
	Detail      *domain.Experience
	Sections    []Section
	Footer      Footer
}

// Empty reports whether the page has nothing to show between header and footer.
func (p *Page) Empty() bool {
	return p.Detail == nil && len(p.Sections) == 0
}

// Renderer executes the embedded page templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	templates, err := template.New("pages").
		Funcs(template.FuncMap{"price": Price}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Renderer{templates: templates}, nil
}

// Render executes the layout for page and writes the formatted HTML to w.
func (r *Renderer) Render(w io.Writer, page *Page) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("executing layout: %w", err)
	}
	if _, err := w.Write(pretty.HTML(buf.Bytes())); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}
	return nil
}

// BuildHome composes the home page: a hero around the first featured experience, the
// trending and featured sections, then one section per category that has experiences.
func BuildHome(ctx context.Context, catalog *memento.Catalog, footer Footer) *Page {
	trending := catalog.TrendingExperiences(ctx)
	featured := catalog.FeaturedExperiences(ctx)

	hero := &Hero{
		Heading:    "Gift an experience they will never forget",
		Subheading: "Curated experience gifts that create lasting memories.",
		CTA:        Link{Label: "Explore experiences", Href: "#trending"},
	}
	if len(featured) > 0 {
		hero.Experience = featured[0]
	}

	page := &Page{
		Title:       footer.Brand + " | Experience gifts",
		Description: footer.Tagline,
		Categories:  catalog.Categories,
		Hero:        hero,
		Footer:      footer,
	}
	page.addSection("trending", "Trending Experiences", "", trending)
	page.addSection("featured", "Featured Experiences", "", featured)

	for _, category := range catalog.Categories {
		experiences := catalog.ExperiencesByCategory(ctx, category.ID)
		page.addSection("category-"+category.ID, category.Name, category.Description, experiences)
	}
	return page
}

// BuildCategory composes the listing page of one category. ok is false for an unknown id.
func BuildCategory(ctx context.Context, catalog *memento.Catalog, categoryID string, footer Footer) (page *Page, ok bool) {
	category, ok := catalog.Category(categoryID)
	if !ok {
		return nil, false
	}

	page = &Page{
		Title:       category.Name + " | " + footer.Brand,
		Description: category.Description,
		Categories:  catalog.Categories,
		Footer:      footer,
	}
	page.addSection("category-"+category.ID, category.Name, category.Description, catalog.ExperiencesByCategory(ctx, category.ID))
	return page, true
}

// BuildExperience composes the detail page of one experience. ok is false when it does not exist.
func BuildExperience(ctx context.Context, catalog *memento.Catalog, id string, footer Footer) (page *Page, ok bool) {
	experience := catalog.ExperienceByID(ctx, id)
	if experience == nil {
		return nil, false
	}

	return &Page{
		Title:       experience.Title + " | " + footer.Brand,
		Description: experience.Description,
		Categories:  catalog.Categories,
		Detail:      experience,
		Footer:      footer,
	}, true
}

func (p *Page) addSection(id, title, description string, experiences []*domain.Experience) {
	if len(experiences) == 0 {
		return
	}
	p.Sections = append(p.Sections, Section{ID: id, Title: title, Description: description, Experiences: experiences})
}

// Price formats an amount in minor units as dollars, e.g. 129999 -> "$1,299.99".
func Price(minor int64) string {
	sign := ""
	amount := uint64(minor)
	if minor < 0 {
		sign = "-"
		amount = uint64(-(minor + 1)) + 1
	}

	whole := strconv.FormatUint(amount/100, 10)
	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}
	return fmt.Sprintf("%s$%s.%02d", sign, grouped.String(), amount%100)
}
