package services

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/gostremiobr/gostremiobr/internal/cache"
	"github.com/gostremiobr/gostremiobr/internal/constants"
	"github.com/gostremiobr/gostremiobr/internal/errors"
	"github.com/gostremiobr/gostremiobr/internal/matcher"
	"github.com/gostremiobr/gostremiobr/internal/models"
	"github.com/gostremiobr/gostremiobr/pkg/logger"
)

// SearchFunc fans a query out to the source adapters and returns the merged
// raw candidates. Injected by the orchestrator so the resolver stays free of
// adapter wiring.
type SearchFunc func(query string, contentType models.ContentType, targetSeason int) []models.Candidate

// seasonCandidateAttempts bounds how many ranked candidates are submitted
// to the debrid account before giving up on a season.
const seasonCandidateAttempts = 3

var videoExtensions = map[string]bool{
	".mkv": true, ".mp4": true, ".avi": true, ".m4v": true,
	".ts": true, ".webm": true, ".wmv": true,
}

func isVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// SeasonResolver turns (contentId, season) into the episode file list of a
// fully downloaded season torrent. Entries are cached; concurrent requests
// for the same unresolved season share one in-flight resolution.
type SeasonResolver struct {
	debrid DebridService
	cache  *cache.TTLCache
	logger logger.Logger
	group  singleflight.Group
}

func NewSeasonResolver(debrid DebridService, c *cache.TTLCache, log logger.Logger) *SeasonResolver {
	return &SeasonResolver{
		debrid: debrid,
		cache:  c,
		logger: log,
	}
}

// Resolve returns the season's episode files, searching and submitting a
// season torrent when no fresh entry exists. Only a torrent that reached
// downloaded produces a cacheable entry.
func (s *SeasonResolver) Resolve(apiKey, contentID, title string, season int, search SearchFunc) (*models.SeasonEntry, error) {
	key := cache.SeasonKey(contentID, season)
	if v, ok := s.cache.Get(key); ok {
		return v.(*models.SeasonEntry), nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// A waiter may arrive after the winner stored the entry.
		if v, ok := s.cache.Get(key); ok {
			return v, nil
		}
		entry, err := s.resolve(apiKey, title, season, search)
		if err != nil {
			return nil, err
		}
		s.cache.SetWithTTL(key, entry, constants.SeasonCacheTTL)
		return entry, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.SeasonEntry), nil
}

func (s *SeasonResolver) resolve(apiKey, title string, season int, search SearchFunc) (*models.SeasonEntry, error) {
	queries := []string{
		fmt.Sprintf("%s temporada %d", title, season),
		fmt.Sprintf("%s season %d", title, season),
	}

	for _, query := range queries {
		candidates := search(query, models.ContentSeries, season)
		ranked := matcher.Rank(candidates, matcher.Options{
			Query:        query,
			TargetSeason: season,
			PerTier:      constants.CandidatesPerTier,
			MaxTotal:     constants.MaxRankedCandidates,
		})

		attempts := len(ranked)
		if attempts > seasonCandidateAttempts {
			attempts = seasonCandidateAttempts
		}
		for _, c := range ranked[:attempts] {
			entry, err := s.tryCandidate(apiKey, c, season)
			if err != nil {
				if errors.IsAuth(err) {
					return nil, err
				}
				s.logger.Debugf("[SeasonResolver] candidate %s skipped: %v", c.InfoHash, err)
				continue
			}
			if entry != nil {
				s.logger.Infof("[SeasonResolver] season %d resolved from %s with %d episodes",
					season, c.Provider, len(entry.Files))
				return entry, nil
			}
		}
	}

	return nil, errors.NewNotFoundError(fmt.Sprintf("no downloaded season %d torrent for %q", season, title))
}

// tryCandidate submits one candidate and extracts its episode files. A nil
// entry with nil error means the torrent exists but is not downloaded yet.
func (s *SeasonResolver) tryCandidate(apiKey string, c models.Candidate, season int) (*models.SeasonEntry, error) {
	processed, err := s.debrid.ProcessTorrent(apiKey, c.Magnet)
	if err != nil {
		return nil, err
	}
	if !processed.Ready {
		return nil, nil
	}

	info, err := s.debrid.GetTorrentInfo(apiKey, processed.ID)
	if err != nil {
		return nil, err
	}

	files := extractEpisodeFiles(info.Files, season)
	if len(files) == 0 {
		return nil, nil
	}

	return &models.SeasonEntry{
		TorrentID:  info.ID,
		MagnetHash: c.InfoHash,
		Files:      files,
		InsertedAt: time.Now(),
	}, nil
}

// extractEpisodeFiles keeps the torrent's playable episodes: video files,
// no promotional paths, episode number parseable. A file without its own
// season marker inherits the requested season.
func extractEpisodeFiles(files []models.TorrentFile, season int) []models.EpisodeFile {
	var out []models.EpisodeFile
	for _, f := range files {
		if !isVideoFile(f.Path) || matcher.ContainsPromo(f.Path) {
			continue
		}
		fileSeason, episode, ok := matcher.ParseEpisode(f.Path)
		if !ok {
			continue
		}
		if fileSeason == 0 {
			fileSeason = season
		}
		if fileSeason != season {
			continue
		}
		out = append(out, models.EpisodeFile{File: f, Season: fileSeason, Episode: episode})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Episode < out[j].Episode })
	return out
}

// FindEpisode scans a season entry for the exact episode.
func FindEpisode(entry *models.SeasonEntry, season, episode int) (models.EpisodeFile, bool) {
	if entry == nil {
		return models.EpisodeFile{}, false
	}
	for _, f := range entry.Files {
		if f.Season == season && f.Episode == episode {
			return f, true
		}
	}
	return models.EpisodeFile{}, false
}
