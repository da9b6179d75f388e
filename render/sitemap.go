package render

import (
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/memento-gifts/memento/domain"
	"github.com/memento-gifts/memento/pretty"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Sitemap builds a urlset with the home page, one entry per category and one per experience.
func Sitemap(baseURL string, experiences []*domain.Experience, categories []domain.Category) *etree.Document {
	base := strings.TrimRight(baseURL, "/")

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", sitemapNamespace)

	addURL := func(loc, priority string) {
		entry := urlset.CreateElement("url")
		entry.CreateElement("loc").SetText(loc)
		entry.CreateElement("priority").SetText(priority)
	}

	addURL(base+"/", "1.0")
	for _, category := range categories {
		addURL(base+"/categories/"+url.PathEscape(category.ID), "0.8")
	}
	for _, experience := range experiences {
		if experience.ID == "" {
			continue
		}
		addURL(base+"/experiences/"+url.PathEscape(experience.ID), "0.6")
	}
	return doc
}

// SitemapXML renders Sitemap as indented XML.
func SitemapXML(baseURL string, experiences []*domain.Experience, categories []domain.Category) ([]byte, error) {
	return pretty.XML(Sitemap(baseURL, experiences, categories))
}
