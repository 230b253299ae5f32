package matcher

import (
	"regexp"

	"github.com/cehbz/torrentname"

	"github.com/gostremiobr/gostremiobr/internal/models"
)

type qualityPattern struct {
	re         *regexp.Regexp
	quality    models.Quality
	confidence int
}

// Ordered highest confidence first; a match at confidence >= 95 short-circuits.
var qualityPatterns = []qualityPattern{
	{regexp.MustCompile(`(?i)\b2160p\b`), models.Quality2160p, 100},
	{regexp.MustCompile(`(?i)\b1080p\b`), models.Quality1080p, 100},
	{regexp.MustCompile(`(?i)\b720p\b`), models.Quality720p, 100},
	{regexp.MustCompile(`(?i)\b480p\b`), models.Quality480p, 100},
	{regexp.MustCompile(`(?i)\b360p\b`), models.Quality360p, 100},
	{regexp.MustCompile(`(?i)\b4k\b|\buhd\b`), models.Quality2160p, 95},
	{regexp.MustCompile(`(?i)\bfull\s?hd\b|\bfhd\b`), models.Quality1080p, 90},
	{regexp.MustCompile(`(?i)\bhd\b`), models.QualityHD, 60},
	{regexp.MustCompile(`(?i)\bsd\b|\bdvdrip\b`), models.QualitySD, 60},
}

// Source markers used to infer a tier when no resolution marker is present.
var (
	hdSourceRegex = regexp.MustCompile(`(?i)\bremux\b|\bweb[-. ]?dl\b|\bblu[-. ]?ray\b|\bbdrip\b|\bbrrip\b`)
	tvSourceRegex = regexp.MustCompile(`(?i)\bhdtv\b`)
	lowQualRegex  = regexp.MustCompile(`(?i)\bcam\b|\bhdcam\b|\btelesync\b|\bts\b|\bscr\b|\bscreener\b`)
)

// DetectQuality infers a quality tier from a candidate title. Resolution
// markers win; source markers are the fallback; the generic HD tier is the
// default when nothing matches.
func DetectQuality(title string) models.Quality {
	best := models.Quality("")
	bestConf := 0

	for _, p := range qualityPatterns {
		if !p.re.MatchString(title) {
			continue
		}
		if p.confidence >= 95 {
			return p.quality
		}
		if p.confidence > bestConf {
			best = p.quality
			bestConf = p.confidence
		}
	}
	if best != "" {
		return best
	}

	switch {
	case hdSourceRegex.MatchString(title):
		return models.Quality1080p
	case tvSourceRegex.MatchString(title):
		return models.Quality720p
	case lowQualRegex.MatchString(title):
		return models.QualitySD
	}

	// Last resort: a release-name parse may still know the resolution.
	if parsed := torrentname.Parse(title); parsed != nil && parsed.Resolution != "" {
		if q, ok := resolutionToQuality[parsed.Resolution]; ok {
			return q
		}
	}

	return models.QualityHD
}

var resolutionToQuality = map[string]models.Quality{
	"2160p": models.Quality2160p,
	"4K":    models.Quality2160p,
	"1080p": models.Quality1080p,
	"720p":  models.Quality720p,
	"480p":  models.Quality480p,
	"360p":  models.Quality360p,
}

// qualityPriority orders tiers for ranking and final sorting.
var qualityPriority = map[models.Quality]int{
	models.Quality2160p: 700,
	models.Quality1080p: 600,
	models.Quality720p:  500,
	models.QualityHD:    400,
	models.Quality480p:  300,
	models.Quality360p:  200,
	models.QualitySD:    100,
}

// QualityPriority returns the ranking weight of a tier. Unknown tiers get zero.
func QualityPriority(q models.Quality) int {
	return qualityPriority[q]
}

// TierOrder lists tiers in descending priority, the concatenation order for
// the ranked selection.
var TierOrder = []models.Quality{
	models.Quality2160p,
	models.Quality1080p,
	models.Quality720p,
	models.QualityHD,
	models.Quality480p,
	models.Quality360p,
	models.QualitySD,
}
