package services

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gostremiobr/gostremiobr/internal/cache"
	"github.com/gostremiobr/gostremiobr/internal/config"
	"github.com/gostremiobr/gostremiobr/internal/constants"
	"github.com/gostremiobr/gostremiobr/internal/database"
	"github.com/gostremiobr/gostremiobr/internal/errors"
	"github.com/gostremiobr/gostremiobr/internal/magnet"
	"github.com/gostremiobr/gostremiobr/internal/matcher"
	"github.com/gostremiobr/gostremiobr/internal/models"
	"github.com/gostremiobr/gostremiobr/internal/providers"
	"github.com/gostremiobr/gostremiobr/pkg/logger"
)

// StreamService is the request orchestrator: cache check, curated catalog
// shortcut, adapter fan-out, ranking, batched debrid resolution and the
// final sorted stream list. It never returns an error; every failure
// degrades to a smaller or empty result.
type StreamService struct {
	providers []providers.Provider
	debrid    DebridService
	titles    TitleService
	seasons   *SeasonResolver
	db        database.Database
	cache     *cache.TTLCache
	config    *config.Config
	logger    logger.Logger
}

func NewStreamService(
	provs []providers.Provider,
	debrid DebridService,
	titles TitleService,
	seasons *SeasonResolver,
	db database.Database,
	c *cache.TTLCache,
	cfg *config.Config,
	log logger.Logger,
) *StreamService {
	return &StreamService{
		providers: provs,
		debrid:    debrid,
		titles:    titles,
		seasons:   seasons,
		db:        db,
		cache:     c,
		config:    cfg,
		logger:    log,
	}
}

// GetStreams resolves one stream request end to end.
func (s *StreamService) GetStreams(q models.StreamQuery) (results []models.StreamResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("[StreamService] panic handling %s: %v", q.ID, r)
			results = nil
		}
	}()

	if q.APIKey == "" {
		s.logger.Debugf("[StreamService] no debrid API key for %s, returning empty", q.ID)
		return nil
	}

	cacheKey := cache.StreamKey(string(q.Type), q.ID, q.Season, q.Episode)
	if cached, ok := s.cachedStreams(cacheKey); ok {
		return cached
	}

	results = s.resolveRequest(q)

	results = dedupByURL(results)
	sortStreams(results)
	if len(results) > constants.MaxStreams {
		results = results[:constants.MaxStreams]
	}

	s.cache.SetWithTTL(cacheKey, results, streamListTTL(results))
	return results
}

// cachedStreams returns a cached list only when every entry is downloaded;
// a list with pending or failed entries is evicted instead of served. An
// empty list stays cached for its short TTL so repeated requests for
// content with no working candidates do not hammer the debrid account.
func (s *StreamService) cachedStreams(key string) ([]models.StreamResult, bool) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	cached := v.([]models.StreamResult)
	for _, r := range cached {
		if r.Status != models.StatusDownloaded {
			s.cache.Delete(key)
			return nil, false
		}
	}
	return cached, true
}

func (s *StreamService) resolveRequest(q models.StreamQuery) []models.StreamResult {
	if curated, err := s.db.FindMagnets(q.ID); err == nil && len(curated) > 0 {
		if results := s.resolveCurated(q, curated); len(results) > 0 {
			return results
		}
	}

	title := q.TitleHint
	if title == "" {
		resolved, err := s.titles.GetTitle(s.config.TMDBAPIKey, q.ID)
		if err != nil {
			s.logger.Warnf("[StreamService] title lookup for %s failed: %v", q.ID, err)
			return nil
		}
		title = resolved
	}

	if q.Type == models.ContentSeries && q.Episode > 0 {
		return s.resolveEpisode(q, title)
	}
	return s.resolveByScraping(q, title)
}

// resolveCurated is the single-candidate path for catalog magnets.
func (s *StreamService) resolveCurated(q models.StreamQuery, curated []models.CuratedMagnet) []models.StreamResult {
	var results []models.StreamResult
	for _, m := range curated {
		result, err := s.resolveCuratedMagnet(q, m)
		if err != nil {
			s.logger.Debugf("[StreamService] curated magnet for %s skipped: %v", q.ID, err)
			continue
		}
		results = append(results, result)
	}
	return results
}

func (s *StreamService) resolveCuratedMagnet(q models.StreamQuery, m models.CuratedMagnet) (models.StreamResult, error) {
	info, err := s.resolveTorrent(q.APIKey, m.Magnet)
	if err != nil {
		return models.StreamResult{}, err
	}

	var file models.TorrentFile
	var found bool
	if q.Type == models.ContentSeries && q.Episode > 0 {
		for _, ef := range extractEpisodeFiles(info.Files, q.Season) {
			if ef.Episode == q.Episode {
				file, found = ef.File, true
				break
			}
		}
	} else {
		file, found = pickMainFile(info.Files)
	}
	if !found {
		return models.StreamResult{}, errors.NewNotFoundError("no playable file in curated torrent")
	}

	quality := matcher.DetectQuality(m.Title)
	if quality == models.QualityHD {
		quality = matcher.DetectQuality(file.Path)
	}
	return s.buildStream(q, info, file, quality, m.Title)
}

// resolveEpisode goes through the season resolver, falling back to direct
// per-episode candidates when no season torrent is available.
func (s *StreamService) resolveEpisode(q models.StreamQuery, title string) []models.StreamResult {
	entry, err := s.seasons.Resolve(q.APIKey, q.ID, title, q.Season, s.search)
	if err == nil {
		if ef, ok := FindEpisode(entry, q.Season, q.Episode); ok {
			info, err := s.debrid.GetTorrentInfo(q.APIKey, entry.TorrentID)
			if err == nil {
				quality := matcher.DetectQuality(ef.File.Path)
				if result, err := s.buildStream(q, info, ef.File, quality, ef.File.Path); err == nil {
					return []models.StreamResult{result}
				}
			}
		}
		s.logger.Debugf("[StreamService] season %d of %s resolved but episode %d missing",
			q.Season, q.ID, q.Episode)
	} else {
		s.logger.Debugf("[StreamService] season resolution for %s failed: %v", q.ID, err)
	}

	// Direct path: candidates that name the exact episode.
	query := fmt.Sprintf("%s S%02dE%02d", title, q.Season, q.Episode)
	candidates := s.search(query, models.ContentSeries, q.Season)

	var episodeCands []models.Candidate
	for _, c := range candidates {
		season, episode, ok := matcher.ParseEpisode(c.Title)
		if ok && (season == 0 || season == q.Season) && episode == q.Episode {
			episodeCands = append(episodeCands, c)
		}
	}

	ranked := matcher.Rank(episodeCands, matcher.Options{
		Query:        title,
		TargetSeason: q.Season,
		Allowed:      s.config.AllowedQualities(),
		PerTier:      constants.CandidatesPerTier,
		MaxTotal:     constants.MaxRankedCandidates,
	})
	return s.resolveCandidates(q, ranked)
}

func (s *StreamService) resolveByScraping(q models.StreamQuery, title string) []models.StreamResult {
	candidates := s.search(title, q.Type, q.Season)
	ranked := matcher.Rank(candidates, matcher.Options{
		Query:        title,
		TargetSeason: q.Season,
		Allowed:      s.config.AllowedQualities(),
		PerTier:      constants.CandidatesPerTier,
		MaxTotal:     constants.MaxRankedCandidates,
	})
	return s.resolveCandidates(q, ranked)
}

// search fans the query out to every adapter in parallel. Each adapter has
// its own timeout; a slow or failing adapter contributes nothing but never
// cancels its siblings. Results are merged after all adapters settle.
func (s *StreamService) search(query string, contentType models.ContentType, season int) []models.Candidate {
	merged := make(chan []models.Candidate, len(s.providers))

	var wg sync.WaitGroup
	for _, p := range s.providers {
		wg.Add(1)
		go func(p providers.Provider) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Errorf("[StreamService] adapter %s panicked: %v", p.Name(), r)
				}
			}()
			merged <- s.searchOne(p, query, contentType, season)
		}(p)
	}
	wg.Wait()
	close(merged)

	var all []models.Candidate
	for batch := range merged {
		all = append(all, batch...)
	}
	s.logger.Infof("[StreamService] %d raw candidates for %q", len(all), query)
	return all
}

func (s *StreamService) searchOne(p providers.Provider, query string, contentType models.ContentType, season int) []models.Candidate {
	key := cache.SearchKey(p.Name(), query, season)
	if v, ok := s.cache.Get(key); ok {
		return v.([]models.Candidate)
	}

	type outcome struct {
		candidates []models.Candidate
		err        error
	}
	done := make(chan outcome, 1)
	go func() {
		candidates, err := p.Search(query, contentType, season)
		done <- outcome{candidates, err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			s.logger.Warnf("[StreamService] adapter %s failed: %v", p.Name(), out.err)
			return nil
		}
		s.cache.SetWithTTL(key, out.candidates, constants.SearchCacheTTL)
		return out.candidates
	case <-time.After(constants.SearchTimeout):
		s.logger.Warnf("[StreamService] adapter %s timed out after %s", p.Name(), constants.SearchTimeout)
		return nil
	}
}

// resolveCandidates submits ranked candidates to the debrid service in
// small sequential batches with an inter-batch delay. The debrid account is
// a shared rate-limited resource; this is backpressure, not parallelism.
func (s *StreamService) resolveCandidates(q models.StreamQuery, candidates []models.Candidate) []models.StreamResult {
	var (
		mu      sync.Mutex
		results []models.StreamResult
	)

	for start := 0; start < len(candidates); start += constants.ResolveBatchSize {
		end := min(start+constants.ResolveBatchSize, len(candidates))

		var wg sync.WaitGroup
		for _, c := range candidates[start:end] {
			wg.Add(1)
			go func(c models.Candidate) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						s.logger.Errorf("[StreamService] resolving %s panicked: %v", c.InfoHash, r)
					}
				}()

				result, err := s.resolveCandidate(q, c)
				if err != nil {
					s.logger.Debugf("[StreamService] candidate %s dropped: %v", c.InfoHash, err)
					return
				}
				mu.Lock()
				results = append(results, result)
				mu.Unlock()
			}(c)
		}
		wg.Wait()

		if end < len(candidates) {
			time.Sleep(constants.ResolveBatchDelay)
		}
	}
	return results
}

func (s *StreamService) resolveCandidate(q models.StreamQuery, c models.Candidate) (models.StreamResult, error) {
	info, err := s.resolveTorrent(q.APIKey, c.Magnet)
	if err != nil {
		return models.StreamResult{}, err
	}

	file, found := pickMainFile(info.Files)
	if !found && info.Status == models.StatusDownloaded {
		return models.StreamResult{}, errors.NewNotFoundError("no playable file in torrent " + info.ID)
	}

	return s.buildStream(q, info, file, c.Quality, c.Title)
}

// resolveTorrent is a read-through cache over the composite debrid
// submission: two requests for one hash inside the TTL share the result.
func (s *StreamService) resolveTorrent(apiKey, magnetURI string) (*models.ResolvedTorrent, error) {
	hash, err := magnet.Hash(magnetURI)
	if err != nil {
		return nil, errors.NewValidationError("magnet URI has no info hash")
	}

	key := cache.TorrentKey(hash)
	if v, ok := s.cache.Get(key); ok {
		return v.(*models.ResolvedTorrent), nil
	}

	processed, err := s.debrid.ProcessTorrent(apiKey, magnetURI)
	if err != nil {
		return nil, err
	}
	info, err := s.debrid.GetTorrentInfo(apiKey, processed.ID)
	if err != nil {
		return nil, err
	}

	// Only a finished torrent is worth remembering for the full TTL.
	if info.Status == models.StatusDownloaded {
		s.cache.SetWithTTL(key, info, constants.TorrentCacheTTL)
	}
	return info, nil
}

// buildStream produces the final stream entry. A downloaded torrent gets
// its direct link unrestricted; a pending one is reported with its status
// and no URL.
func (s *StreamService) buildStream(q models.StreamQuery, info *models.ResolvedTorrent, file models.TorrentFile, quality models.Quality, displayTitle string) (models.StreamResult, error) {
	result := models.StreamResult{
		Name:       streamName(quality, info.Status, info.Progress),
		Title:      streamTitle(displayTitle, file),
		Quality:    quality,
		Status:     info.Status,
		BingeGroup: bingeGroup(q),
	}

	if info.Status != models.StatusDownloaded {
		if info.Status == models.StatusError {
			return result, errors.NewNotFoundError("torrent " + info.ID + " failed on the debrid side")
		}
		return result, nil
	}

	url, err := s.debrid.GetStreamLinkForFile(q.APIKey, info.ID, file.ID)
	if err != nil {
		return result, err
	}
	result.URL = url
	return result, nil
}

// pickMainFile selects the largest non-promotional video file.
func pickMainFile(files []models.TorrentFile) (models.TorrentFile, bool) {
	var best models.TorrentFile
	found := false
	for _, f := range files {
		if !isVideoFile(f.Path) || matcher.ContainsPromo(f.Path) {
			continue
		}
		if !found || f.Bytes > best.Bytes {
			best = f
			found = true
		}
	}
	return best, found
}

// InvalidateContent drops every cached stream list and season entry of a
// content id, called when its catalog entries change.
func (s *StreamService) InvalidateContent(contentID string) {
	n := s.cache.DeletePrefix(cache.StreamKeyPrefix(contentID))
	n += s.cache.DeletePrefix(cache.SeasonKeyPrefix(contentID))
	s.logger.Infof("[StreamService] invalidated %d cache entries for %s", n, contentID)
}

func streamName(quality models.Quality, status models.TorrentStatus, progress float64) string {
	switch status {
	case models.StatusDownloaded:
		return fmt.Sprintf("[RD+] %s %s", constants.AddonName, quality)
	case models.StatusDownloading:
		return fmt.Sprintf("[RD %.0f%%] %s %s", progress, constants.AddonName, quality)
	default:
		return fmt.Sprintf("[RD %s] %s %s", status, constants.AddonName, quality)
	}
}

func streamTitle(displayTitle string, file models.TorrentFile) string {
	parts := []string{strings.TrimSpace(displayTitle)}
	if file.Path != "" {
		parts = append(parts, baseName(file.Path))
	}
	if file.Bytes > 0 {
		parts = append(parts, fmt.Sprintf("%.2f GB", float64(file.Bytes)/float64(constants.BytesToGB)))
	}
	return strings.Join(parts, "\n")
}

func baseName(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

func bingeGroup(q models.StreamQuery) string {
	if q.Type == models.ContentSeries {
		return fmt.Sprintf("%s-%s-s%d", constants.AddonID, q.ID, q.Season)
	}
	return fmt.Sprintf("%s-%s", constants.AddonID, q.ID)
}

func dedupByURL(results []models.StreamResult) []models.StreamResult {
	seen := make(map[string]bool, len(results))
	out := results[:0:0]
	for _, r := range results {
		if r.URL != "" {
			if seen[r.URL] {
				continue
			}
			seen[r.URL] = true
		}
		out = append(out, r)
	}
	return out
}

// sortStreams orders by quality tier, then downloaded before pending, then
// name for a stable presentation.
func sortStreams(results []models.StreamResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		pa, pb := matcher.QualityPriority(a.Quality), matcher.QualityPriority(b.Quality)
		if pa != pb {
			return pa > pb
		}
		aReady := a.Status == models.StatusDownloaded
		bReady := b.Status == models.StatusDownloaded
		if aReady != bReady {
			return aReady
		}
		return a.Name < b.Name
	})
}

// streamListTTL picks the cache lifetime from the aggregate readiness.
func streamListTTL(results []models.StreamResult) time.Duration {
	if len(results) == 0 {
		return constants.StreamTTLError
	}
	allDownloaded := true
	anyDownloading := false
	for _, r := range results {
		switch r.Status {
		case models.StatusDownloaded:
		case models.StatusDownloading, models.StatusQueued:
			allDownloaded = false
			anyDownloading = true
		default:
			allDownloaded = false
		}
	}
	switch {
	case allDownloaded:
		return constants.StreamTTLDownloaded
	case anyDownloading:
		return constants.StreamTTLDownloading
	default:
		return constants.StreamTTLDefault
	}
}
