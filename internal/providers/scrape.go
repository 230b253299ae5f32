package providers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gostremiobr/gostremiobr/internal/magnet"
	"github.com/gostremiobr/gostremiobr/internal/models"
	"github.com/gostremiobr/gostremiobr/pkg/logger"
	"github.com/gostremiobr/gostremiobr/pkg/ratelimiter"
)

const (
	maxDetailPages    = 6
	magnetAnchorQuery = `a[href^="magnet:"]`
)

// scrapeScheme describes one scrape site: where to search and which
// selectors locate result items and magnet links.
type scrapeScheme struct {
	BaseURL       string
	SearchPath    string // printf format taking the escaped query
	ItemSelector  string // anchors to detail pages on the search results page
	TitleSelector string // release title element on the detail page
	SizeSelector  string // optional, element whose text carries the size
	Language      string
}

// ScrapeProvider is a selector-scheme HTML scraper shared by the sites that
// publish magnets on WordPress-style detail pages.
type ScrapeProvider struct {
	name    string
	scheme  scrapeScheme
	client  *http.Client
	limiter *ratelimiter.TokenBucket
	logger  logger.Logger
}

func newScrapeProvider(name string, scheme scrapeScheme, client *http.Client, log logger.Logger) *ScrapeProvider {
	return &ScrapeProvider{
		name:    name,
		scheme:  scheme,
		client:  client,
		limiter: ratelimiter.NewTokenBucket(2, 2),
		logger:  log,
	}
}

func (p *ScrapeProvider) Name() string {
	return p.name
}

// Search fetches the site's search results page, follows each result to its
// detail page and collects every magnet link found there.
func (p *ScrapeProvider) Search(query string, contentType models.ContentType, targetSeason int) ([]models.Candidate, error) {
	searchURL := p.scheme.BaseURL + fmt.Sprintf(p.scheme.SearchPath, url.QueryEscape(query))

	doc, err := p.fetchDocument(searchURL)
	if err != nil {
		return nil, fmt.Errorf("%s search failed: %w", p.name, err)
	}

	links := p.collectDetailLinks(doc)
	if len(links) == 0 {
		p.logger.Debugf("[%s] no results for %q", p.name, query)
		return nil, nil
	}

	var candidates []models.Candidate
	for _, link := range links {
		found, err := p.scrapeDetailPage(link)
		if err != nil {
			p.logger.Debugf("[%s] detail page %s skipped: %v", p.name, link, err)
			continue
		}
		candidates = append(candidates, found...)
	}

	p.logger.Debugf("[%s] found %d candidates for %q", p.name, len(candidates), query)
	return candidates, nil
}

func (p *ScrapeProvider) collectDetailLinks(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	var links []string

	doc.Find(p.scheme.ItemSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok || seen[href] {
			return true
		}
		seen[href] = true
		links = append(links, p.absoluteURL(href))
		return len(links) < maxDetailPages
	})
	return links
}

func (p *ScrapeProvider) scrapeDetailPage(pageURL string) ([]models.Candidate, error) {
	doc, err := p.fetchDocument(pageURL)
	if err != nil {
		return nil, err
	}

	pageTitle := strings.TrimSpace(doc.Find(p.scheme.TitleSelector).First().Text())

	var size int64
	if p.scheme.SizeSelector != "" {
		size = parseSize(doc.Find(p.scheme.SizeSelector).First().Text())
	}

	var candidates []models.Candidate
	doc.Find(magnetAnchorQuery).Each(func(_ int, s *goquery.Selection) {
		uri, _ := s.Attr("href")
		if !magnet.Valid(uri) {
			return
		}
		hash, err := magnet.Hash(uri)
		if err != nil {
			return
		}

		candidates = append(candidates, models.Candidate{
			Title:    magnetTitle(s, uri, pageTitle),
			Magnet:   uri,
			InfoHash: hash,
			Size:     size,
			Provider: p.name,
			Language: p.scheme.Language,
		})
	})
	return candidates, nil
}

// magnetTitle picks the best available release name for a magnet anchor:
// the dn parameter of the URI, then the anchor text, then the page title.
func magnetTitle(s *goquery.Selection, uri, pageTitle string) string {
	if parsed, err := url.Parse(uri); err == nil {
		if dn := parsed.Query().Get("dn"); len(dn) > 3 {
			return dn
		}
	}
	if text := strings.TrimSpace(s.Text()); len(text) > 3 {
		return text
	}
	return pageTitle
}

func (p *ScrapeProvider) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return p.scheme.BaseURL + href
}

func (p *ScrapeProvider) fetchDocument(rawURL string) (*goquery.Document, error) {
	p.limiter.Wait()

	resp, err := p.client.Get(rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}
