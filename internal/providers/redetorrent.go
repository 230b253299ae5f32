package providers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gostremiobr/gostremiobr/internal/constants"
	"github.com/gostremiobr/gostremiobr/internal/magnet"
	"github.com/gostremiobr/gostremiobr/internal/models"
	"github.com/gostremiobr/gostremiobr/pkg/logger"
	"github.com/gostremiobr/gostremiobr/pkg/ratelimiter"
)

const (
	redeTorrentBaseURL = "https://redetorrent.com"
	redePostsPerPage   = 20
)

type wpPost struct {
	ID    int    `json:"id"`
	Link  string `json:"link"`
	Title struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
	Content struct {
		Rendered string `json:"rendered"`
	} `json:"content"`
}

// RedeTorrent queries a WordPress posts API and extracts magnet links from
// the HTML embedded in each post body.
type RedeTorrent struct {
	baseURL string
	client  *http.Client
	limiter *ratelimiter.TokenBucket
	logger  logger.Logger
}

func NewRedeTorrent(client *http.Client, log logger.Logger) *RedeTorrent {
	return &RedeTorrent{
		baseURL: redeTorrentBaseURL,
		client:  client,
		limiter: ratelimiter.NewTokenBucket(2, 2),
		logger:  log,
	}
}

func (r *RedeTorrent) Name() string {
	return constants.ProviderRedeTorrent
}

// Search pages through the posts endpoint and collects the magnets of every
// matching post. Pagination stops at the first non-OK page; WordPress
// answers 400 past the last page.
func (r *RedeTorrent) Search(query string, contentType models.ContentType, targetSeason int) ([]models.Candidate, error) {
	var candidates []models.Candidate

	for page := 1; page <= constants.PostsPages; page++ {
		posts, err := r.fetchPage(query, page)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("redetorrent search failed: %w", err)
			}
			break
		}
		if len(posts) == 0 {
			break
		}

		for _, post := range posts {
			found, err := r.extractMagnets(post)
			if err != nil {
				r.logger.Debugf("[RedeTorrent] post %d skipped: %v", post.ID, err)
				continue
			}
			candidates = append(candidates, found...)
		}
	}

	r.logger.Debugf("[RedeTorrent] found %d candidates for %q", len(candidates), query)
	return candidates, nil
}

func (r *RedeTorrent) fetchPage(query string, page int) ([]wpPost, error) {
	r.limiter.Wait()

	endpoint := fmt.Sprintf("%s/wp-json/wp/v2/posts?search=%s&page=%d&per_page=%d",
		r.baseURL, url.QueryEscape(query), page, redePostsPerPage)

	resp, err := r.client.Get(endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var posts []wpPost
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, fmt.Errorf("decoding posts response: %w", err)
	}
	return posts, nil
}

// extractMagnets parses the rendered post HTML and returns one candidate
// per valid magnet anchor.
func (r *RedeTorrent) extractMagnets(post wpPost) ([]models.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(post.Content.Rendered))
	if err != nil {
		return nil, err
	}

	postTitle := strings.TrimSpace(post.Title.Rendered)

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
			Title:    magnetTitle(s, uri, postTitle),
			Magnet:   uri,
			InfoHash: hash,
			Provider: constants.ProviderRedeTorrent,
			Language: "pt-BR",
		})
	})
	return candidates, nil
}
