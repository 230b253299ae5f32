package providers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/gostremiobr/gostremiobr/internal/constants"
	"github.com/gostremiobr/gostremiobr/internal/magnet"
	"github.com/gostremiobr/gostremiobr/internal/models"
	"github.com/gostremiobr/gostremiobr/pkg/logger"
	"github.com/gostremiobr/gostremiobr/pkg/ratelimiter"
)

// DefaultIndexerMirrors is the ordered mirror list used when the
// configuration does not override it.
var DefaultIndexerMirrors = []string{
	"https://torrent-indexer.darklyn.org",
	"https://indexer.queroupload.com",
}

type indexerResult struct {
	Title      string `json:"title"`
	MagnetLink string `json:"magnet_link"`
	SeedCount  int    `json:"seed_count"`
	LeechCount int    `json:"leech_count"`
	Size       string `json:"size"`
	Date       string `json:"date"`
}

type indexerResponse struct {
	Results []indexerResult `json:"results"`
	Count   int             `json:"count"`
}

// IndexerAdapter queries an aggregating multi-site index API. A failing
// mirror permanently advances the shared current-mirror pointer; the failed
// call is retried once against the next mirror.
type IndexerAdapter struct {
	mirrors []string
	client  *http.Client
	limiter *ratelimiter.TokenBucket
	logger  logger.Logger

	mu      sync.Mutex
	current int
}

func NewIndexer(mirrors []string, client *http.Client, log logger.Logger) *IndexerAdapter {
	if len(mirrors) == 0 {
		mirrors = DefaultIndexerMirrors
	}
	return &IndexerAdapter{
		mirrors: mirrors,
		client:  client,
		limiter: ratelimiter.NewTokenBucket(5, 2),
		logger:  log,
	}
}

func (p *IndexerAdapter) Name() string {
	return constants.ProviderIndexer
}

func (p *IndexerAdapter) Search(query string, contentType models.ContentType, targetSeason int) ([]models.Candidate, error) {
	return p.search(query, contentType, targetSeason, false)
}

func (p *IndexerAdapter) search(query string, contentType models.ContentType, targetSeason int, retried bool) ([]models.Candidate, error) {
	mirror, idx := p.currentMirror()

	results, err := p.queryMirror(mirror, query, contentType, targetSeason)
	if err != nil {
		p.logger.Warnf("[Indexer] mirror %s failed: %v", mirror, err)
		p.advance(idx)
		if !retried && len(p.mirrors) > 1 {
			return p.search(query, contentType, targetSeason, true)
		}
		return nil, fmt.Errorf("indexer search failed: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(results))
	for _, r := range results {
		if !magnet.Valid(r.MagnetLink) {
			continue
		}
		hash, err := magnet.Hash(r.MagnetLink)
		if err != nil {
			continue
		}
		candidates = append(candidates, models.Candidate{
			Title:    r.Title,
			Magnet:   r.MagnetLink,
			InfoHash: hash,
			Seeders:  r.SeedCount,
			Leechers: r.LeechCount,
			Size:     parseSize(r.Size),
			Provider: constants.ProviderIndexer,
		})
	}

	p.logger.Debugf("[Indexer] mirror %s returned %d candidates for %q", mirror, len(candidates), query)
	return candidates, nil
}

func (p *IndexerAdapter) queryMirror(mirror, query string, contentType models.ContentType, targetSeason int) ([]indexerResult, error) {
	p.limiter.Wait()

	params := url.Values{}
	params.Set("q", query)
	params.Set("filter_results", "true")
	if contentType == models.ContentSeries {
		params.Set("category", "series")
		if targetSeason > 0 {
			params.Set("season", fmt.Sprintf("%d", targetSeason))
		}
	} else {
		params.Set("category", "movie")
	}

	resp, err := p.client.Get(mirror + "/search?" + params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var decoded indexerResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding indexer response: %w", err)
	}
	return decoded.Results, nil
}

func (p *IndexerAdapter) currentMirror() (string, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mirrors[p.current], p.current
}

// advance moves the shared mirror pointer past a failed mirror. The check
// against the index the caller used keeps a concurrent search that already
// advanced the pointer from skipping a healthy mirror.
func (p *IndexerAdapter) advance(failedIdx int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == failedIdx {
		p.current = (p.current + 1) % len(p.mirrors)
	}
}
