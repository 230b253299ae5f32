package matcher

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type episodePattern struct {
	re         *regexp.Regexp
	hasSeason  bool
	seasonIdx  int
	episodeIdx int
}

// Ordered from most to least specific; the first pattern to match wins.
var episodePatterns = []episodePattern{
	// 1x02
	{regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{2,3})\b`), true, 1, 2},
	// S01E02, s1.e2
	{regexp.MustCompile(`(?i)s(\d{1,2})\s?\.?\s?e(\d{1,3})`), true, 1, 2},
	// season 1 episode 2 / temporada 1 episodio 2
	{regexp.MustCompile(`(?i)(?:season|temporada)\s*(\d{1,2})\D{0,12}?(?:episode|epis[o]?dio|ep)\s*\.?\s*(\d{1,3})`), true, 1, 2},
	// ep 2 / episodio 2
	{regexp.MustCompile(`(?i)\b(?:ep|epis[o]?dio|episode)\s*\.?\s*(\d{1,3})\b`), false, 0, 1},
	// bare 1-02 pair
	{regexp.MustCompile(`\b(\d{1,2})\s*-\s*(\d{2,3})\b`), true, 1, 2},
	// bare number, last resort
	{regexp.MustCompile(`\b(\d{1,3})\b`), false, 0, 1},
}

// ParseEpisode extracts season and episode numbers from a filename. Patterns
// without a season component leave season at zero. ok is false when nothing
// numeric could be found at all.
func ParseEpisode(path string) (season, episode int, ok bool) {
	// Normalize diacritics so "episódio" matches the ASCII patterns.
	normalized := Normalize(path)

	for _, p := range episodePatterns {
		for _, src := range []string{path, normalized} {
			m := p.re.FindStringSubmatch(src)
			if m == nil {
				continue
			}
			episode, _ = strconv.Atoi(m[p.episodeIdx])
			if p.hasSeason {
				season, _ = strconv.Atoi(m[p.seasonIdx])
			}
			return season, episode, true
		}
	}
	return 0, 0, false
}

// Season matching patterns, English and Portuguese, including season packs.
func seasonPatterns(season int) []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(fmt.Sprintf(`(?i)\bs%02d\b(?:[^e]|$)`, season)),
		regexp.MustCompile(fmt.Sprintf(`(?i)\bs%d\b(?:[^e]|$)`, season)),
		regexp.MustCompile(fmt.Sprintf(`(?i)season\s*%d(?:\D|$)`, season)),
		regexp.MustCompile(fmt.Sprintf(`(?i)temporada\s*%d(?:\D|$)`, season)),
		regexp.MustCompile(fmt.Sprintf(`(?i)%d[ao]\s*temporada`, season)),
		regexp.MustCompile(fmt.Sprintf(`(?i)complete.*s%02d|s%02d.*complete`, season, season)),
	}
}

var anySeasonRegex = regexp.MustCompile(`(?i)\bs(\d{1,2})\b|season\s*(\d{1,2})|temporada\s*(\d{1,2})|\b(\d{1,2})[ao]\s*temporada`)

// MatchesSeason reports whether a torrent title refers to the given season.
func MatchesSeason(title string, season int) bool {
	if season == 0 {
		return false
	}
	for _, re := range seasonPatterns(season) {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}

// DetectSeason returns the season number a title advertises, or zero when
// the title carries no season marker.
func DetectSeason(title string) int {
	m := anySeasonRegex.FindStringSubmatch(title)
	if m == nil {
		return 0
	}
	for _, g := range m[1:] {
		if g != "" {
			n, _ := strconv.Atoi(g)
			return n
		}
	}
	return 0
}

var seasonMarkerRegex = regexp.MustCompile(`(?i)\b(?:temporada|season)\s*\d{1,2}\b|\b\d{1,2}[ao]\s*temporada\b|\bs\d{1,2}\b`)

// StripSeasonMarkers removes season annotations from a search query so that
// title matching compares only the show name. "Breaking Bad Temporada 1"
// becomes "Breaking Bad".
func StripSeasonMarkers(query string) string {
	stripped := seasonMarkerRegex.ReplaceAllString(query, " ")
	return strings.Join(strings.Fields(stripped), " ")
}

var seasonEpisodeRegex = regexp.MustCompile(`(?i)s\d{1,2}\s?\.?\s?e\d{1,3}|\b\d{1,2}x\d{2,3}\b`)

// ContainsSeasonEpisode reports whether the title carries an explicit
// SxxEyy-style marker.
func ContainsSeasonEpisode(title string) bool {
	return seasonEpisodeRegex.MatchString(title)
}
