// Package audit inspects document metadata and structure: title and meta
// tags, Open Graph tags, images, links, heading counts and structured data.
package audit

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Meta reads the title, description, keywords, canonical URL and Open
// Graph tags. Missing values are empty strings.
func Meta(doc *goquery.Document, pageURL string) MetaInfo {
	meta := MetaInfo{
		Title:  strings.Join(strings.Fields(doc.Find("title").First().Text()), " "),
		OGTags: []OGTag{},
	}

	meta.Description, _ = doc.Find("meta[name='description']").First().Attr("content")
	meta.Keywords, _ = doc.Find("meta[name='keywords']").First().Attr("content")

	if href, ok := doc.Find("link[rel='canonical']").First().Attr("href"); ok {
		meta.Canonical = resolve(parseBase(pageURL), href)
	}

	doc.Find("meta[property^='og:']").Each(func(_ int, s *goquery.Selection) {
		property, _ := s.Attr("property")
		content, _ := s.Attr("content")
		meta.OGTags = append(meta.OGTags, OGTag{Property: property, Content: content})
	})

	return meta
}

// Technical counts images, links, headings and structured data blocks.
// A link is internal when its resolved hostname equals the page hostname.
func Technical(doc *goquery.Document, pageURL string) TechnicalSEO {
	tech := TechnicalSEO{}

	images := doc.Find("img")
	tech.Images.Total = images.Length()
	images.Each(func(_ int, s *goquery.Selection) {
		if alt, _ := s.Attr("alt"); alt == "" {
			tech.Images.MissingAlt++
		}
	})

	base := parseBase(pageURL)
	host := base.Hostname()
	links(doc).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if hostname(base, href) == host {
			tech.Links.Internal++
		} else {
			tech.Links.External++
		}
	})

	tech.Headings.H1 = doc.Find("h1").Length()
	tech.Headings.H2 = doc.Find("h2").Length()
	tech.Headings.H3 = doc.Find("h3").Length()

	tech.HasStructuredData = doc.Find("script[type='application/ld+json']").Length() > 0

	return tech
}

// LinkTargets returns the distinct absolute http(s) URLs the document links
// to, in document order. Fragments are dropped.
func LinkTargets(doc *goquery.Document, pageURL string) []string {
	base := parseBase(pageURL)
	seen := make(map[string]bool)
	var targets []string

	links(doc).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		u, err := base.Parse(strings.TrimSpace(href))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return
		}
		u.Fragment = ""
		target := u.String()
		if seen[target] {
			return
		}
		seen[target] = true
		targets = append(targets, target)
	})

	return targets
}

func links(doc *goquery.Document) *goquery.Selection {
	return doc.Find("a[href], area[href]")
}

func parseBase(pageURL string) *url.URL {
	u, err := url.Parse(pageURL)
	if err != nil {
		return &url.URL{}
	}
	return u
}

func resolve(base *url.URL, href string) string {
	u, err := base.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return u.String()
}

func hostname(base *url.URL, href string) string {
	u, err := base.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return u.Hostname()
}
