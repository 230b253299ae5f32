package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gostremiobr/gostremiobr/internal/cache"
	"github.com/gostremiobr/gostremiobr/internal/constants"
	"github.com/gostremiobr/gostremiobr/internal/database"
	"github.com/gostremiobr/gostremiobr/internal/errors"
	"github.com/gostremiobr/gostremiobr/pkg/logger"
	"github.com/gostremiobr/gostremiobr/pkg/ratelimiter"
)

const tmdbAPIBase = "https://api.themoviedb.org/3"

// TitleService maps an IMDB content id to a searchable title.
type TitleService interface {
	GetTitle(apiKey, contentID string) (string, error)
}

type tmdbFindResponse struct {
	MovieResults []struct {
		Title         string `json:"title"`
		OriginalTitle string `json:"original_title"`
	} `json:"movie_results"`
	TVResults []struct {
		Name         string `json:"name"`
		OriginalName string `json:"original_name"`
	} `json:"tv_results"`
}

// TMDB implements TitleService on the TMDB find endpoint, with an in-memory
// cache in front of the persistent title store.
type TMDB struct {
	baseURL     string
	client      *http.Client
	cache       *cache.TTLCache
	db          database.Database
	rateLimiter *ratelimiter.TokenBucket
	logger      logger.Logger
}

func NewTMDB(client *http.Client, c *cache.TTLCache, db database.Database, log logger.Logger) *TMDB {
	return &TMDB{
		baseURL:     tmdbAPIBase,
		client:      client,
		cache:       c,
		db:          db,
		rateLimiter: ratelimiter.NewTokenBucket(constants.TMDBRateLimit, constants.TMDBRateBurst),
		logger:      log,
	}
}

// GetTitle resolves an IMDB id such as tt0903747 into a title, consulting
// the in-memory cache, then the database, then the TMDB API.
func (t *TMDB) GetTitle(apiKey, contentID string) (string, error) {
	key := cache.TitleKey(contentID)
	if v, ok := t.cache.Get(key); ok {
		return v.(string), nil
	}

	if title, found, err := t.db.GetTitle(contentID); err == nil && found {
		t.cache.SetWithTTL(key, title, constants.TitleCacheTTL)
		return title, nil
	}

	title, err := t.fetchTitle(apiKey, contentID)
	if err != nil {
		return "", err
	}

	t.cache.SetWithTTL(key, title, constants.TitleCacheTTL)
	if err := t.db.StoreTitle(contentID, title); err != nil {
		t.logger.Warnf("[TMDB] storing title for %s failed: %v", contentID, err)
	}
	return title, nil
}

func (t *TMDB) fetchTitle(apiKey, contentID string) (string, error) {
	if apiKey == "" {
		return "", errors.NewValidationError("no TMDB API key configured")
	}

	t.rateLimiter.Wait()

	endpoint := fmt.Sprintf("%s/find/%s?api_key=%s&external_source=imdb_id",
		t.baseURL, url.PathEscape(contentID), url.QueryEscape(apiKey))

	resp, err := t.client.Get(endpoint)
	if err != nil {
		return "", errors.NewTransientError("title lookup failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", errors.NewAuthError("TMDB rejected the API key")
	case resp.StatusCode != http.StatusOK:
		return "", errors.NewTransientError(
			fmt.Sprintf("title lookup returned status %d", resp.StatusCode), nil)
	}

	var decoded tmdbFindResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", errors.NewParseError("decoding title lookup response", err)
	}

	switch {
	case len(decoded.MovieResults) > 0:
		return decoded.MovieResults[0].Title, nil
	case len(decoded.TVResults) > 0:
		return decoded.TVResults[0].Name, nil
	}
	return "", errors.NewNotFoundError("no title for " + contentID)
}
