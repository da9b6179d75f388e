package render

import (
	"fmt"
	"time"
)

// LinkColumn is a titled list of footer links.
type LinkColumn struct {
	Title string
	Links []Link
}

// Footer is the site footer: brand, tagline, link columns, social and legal links.
type Footer struct {
	Brand   string
	Tagline string
	Columns []LinkColumn
	Social  []Link
	Legal   []Link
	Year    int
}

// Copyright returns the copyright line for the footer year.
func (f Footer) Copyright() string {
	return fmt.Sprintf("© %d %s. All rights reserved.", f.Year, f.Brand)
}

// DefaultFooter returns the Memento footer with the copyright year taken from now.
func DefaultFooter(now time.Time) Footer {
	return Footer{
		Brand:   "Memento",
		Tagline: "Curated experience gifts that create lasting memories. We believe in the power of experiences over material possessions.",
		Columns: []LinkColumn{
			{
				Title: "Experiences",
				Links: []Link{
					{Label: "Adventure", Href: "/categories/adventure"},
					{Label: "Dining", Href: "/categories/dining"},
					{Label: "Wellness", Href: "/categories/wellness"},
					{Label: "Luxury", Href: "/categories/luxury"},
					{Label: "Learning", Href: "/categories/learning"},
				},
			},
			{
				Title: "Company",
				Links: placeholderLinks("About Us", "How It Works", "Testimonials", "Careers", "Press"),
			},
			{
				Title: "Support",
				Links: placeholderLinks("Contact Us", "FAQ", "Gift Rules", "Shipping", "Returns"),
			},
		},
		Social: placeholderLinks("Instagram", "Facebook", "Twitter", "LinkedIn", "YouTube"),
		Legal:  placeholderLinks("Privacy Policy", "Terms of Service", "Cookie Policy"),
		Year:   now.Year(),
	}
}

func placeholderLinks(labels ...string) []Link {
	links := make([]Link, len(labels))
	for i, label := range labels {
		links[i] = Link{Label: label, Href: "#"}
	}
	return links
}
