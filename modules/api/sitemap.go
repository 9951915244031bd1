package api

import (
	"encoding/xml"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// staticPages are the storefront routes listed before the product pages.
var staticPages = []struct {
	path     string
	priority string
}{
	{"/", "1.0"},
	{"/catalog", "0.9"},
	{"/cart", "0.3"},
	{"/about", "0.5"},
	{"/contacts", "0.5"},
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// sitemap handles GET /sitemap.xml. It is rebuilt from the catalog on every request.
func (m *Module) sitemap(c *fiber.Ctx) error {
	products, err := m.catalog.ListProducts(c.Context())
	if err != nil {
		return err
	}

	base := strings.TrimRight(m.cfg.SiteURL, "/")
	if base == "" {
		base = c.BaseURL()
	}

	set := urlSet{
		Xmlns: sitemapNamespace,
		URLs:  make([]sitemapURL, 0, len(staticPages)+len(products)),
	}
	for _, page := range staticPages {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        base + page.path,
			ChangeFreq: "weekly",
			Priority:   page.priority,
		})
	}
	for _, p := range products {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        base + "/product/" + p.ID,
			ChangeFreq: "daily",
			Priority:   "0.8",
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(append([]byte(xml.Header), body...))
}
