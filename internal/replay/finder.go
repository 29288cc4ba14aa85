package replay

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultBaseURL is the replay site scanned for game links.
const DefaultBaseURL = "https://watchreplay.net"

// Finder locates replay pages on the replay site's front page.
type Finder struct {
	baseURL string
	fetcher Fetcher
}

// NewFinder creates a finder for baseURL. An empty baseURL uses DefaultBaseURL.
func NewFinder(baseURL string, fetcher Fetcher) *Finder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Finder{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: fetcher,
	}
}

// FindReplayLink returns the absolute URL of the first front-page link whose
// href contains the team slug, or nil when nothing matches or the page cannot
// be loaded.
func (f *Finder) FindReplayLink(ctx context.Context, teamFullName string) *string {
	slug := TeamSlug(teamFullName)
	if slug == "" {
		return nil
	}

	html, err := f.fetcher.Fetch(ctx, f.baseURL+"/")
	if err != nil {
		log.Printf("[replay] failed to load %s: %v", f.baseURL, err)
		return nil
	}

	doc, err := ParseHTML(html)
	if err != nil {
		log.Printf("[replay] %v", err)
		return nil
	}

	href, ok := firstLinkContaining(doc, slug)
	if !ok {
		log.Printf("[replay] no link for %q (slug %q)", teamFullName, slug)
		return nil
	}

	link, err := f.resolve(href)
	if err != nil {
		log.Printf("[replay] bad link %q: %v", href, err)
		return nil
	}
	return &link
}

// TeamSlug is the last word of a team name, lower-cased ("Dallas Mavericks" -> "mavericks").
func TeamSlug(teamFullName string) string {
	words := strings.Fields(strings.ToLower(teamFullName))
	if len(words) == 0 {
		return ""
	}
	return words[len(words)-1]
}

// ParseHTML converts raw HTML to a goquery Document.
func ParseHTML(htmlContent string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

func firstLinkContaining(doc *goquery.Document, slug string) (string, bool) {
	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if strings.Contains(strings.ToLower(href), slug) {
			found = href
			return false
		}
		return true
	})
	return found, found != ""
}

func (f *Finder) resolve(href string) (string, error) {
	base, err := url.Parse(f.baseURL + "/")
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
