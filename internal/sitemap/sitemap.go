// Package sitemap renders the /sitemap.xml document from minimal
// projections of the projects and properties tables.
package sitemap

import (
	"encoding/xml"
	"time"

	"github.com/baanlist-dev/baanlist/internal/models"
	"github.com/baanlist-dev/baanlist/internal/slug"
)

const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type URL struct {
	Loc        string `xml:"loc"`
	Lastmod    string `xml:"lastmod,omitempty"`
	Changefreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// projectLastmod prefers the update timestamp, falling back to the
// creation timestamp when the row has never been touched.
func projectLastmod(p models.Project) string {
	if !p.UpdatedAt.IsZero() {
		return isoDate(p.UpdatedAt)
	}
	if !p.CreatedAt.IsZero() {
		return isoDate(p.CreatedAt)
	}
	return ""
}

// Build renders the complete urlset document. Entry order is fixed:
// static routes, then project pages with their rent/buy sub-views,
// then property pages at their canonical paths. An empty dataset still
// yields the four static entries.
func Build(origin string, projects []models.Project, properties []models.Property) (string, error) {
	urls := []URL{
		{Loc: origin + "/", Priority: "1.0", Changefreq: "daily"},
		{Loc: origin + "/projects", Priority: "0.9", Changefreq: "daily"},
		{Loc: origin + "/properties", Priority: "0.7", Changefreq: "daily"},
		{Loc: origin + "/login", Priority: "0.5", Changefreq: "monthly"},
	}

	for _, project := range projects {
		lastmod := projectLastmod(project)
		base := origin + "/projects/" + project.Slug

		urls = append(urls,
			URL{Loc: base, Lastmod: lastmod, Changefreq: "weekly", Priority: "0.8"},
			URL{Loc: base + "/rent", Lastmod: lastmod, Changefreq: "weekly", Priority: "0.7"},
			URL{Loc: base + "/buy", Lastmod: lastmod, Changefreq: "weekly", Priority: "0.7"},
		)
	}

	for _, property := range properties {
		urls = append(urls, URL{
			Loc:        origin + slug.BuildPropertyPath(property),
			Lastmod:    isoDate(property.CreatedAt),
			Changefreq: "weekly",
			Priority:   "0.7",
		})
	}

	body, err := xml.MarshalIndent(urlset{Xmlns: Namespace, URLs: urls}, "", "  ")

	if err != nil {
		return "", err
	}

	return xml.Header + string(body), nil
}
