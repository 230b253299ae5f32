package matcher

import (
	"regexp"
	"sort"

	"github.com/cehbz/torrentname"

	"github.com/gostremiobr/gostremiobr/internal/models"
)

// Relevance bonuses on top of quality priority and match confidence.
var (
	dualAudioRegex = regexp.MustCompile(`(?i)\bdual\b|\bdublado\b|\bdubbed\b|\bnacional\b|\bmulti\b`)
	goodSrcRegex   = regexp.MustCompile(`(?i)\bblu[-. ]?ray\b|\bweb[-. ]?dl\b|\bremux\b`)
)

const (
	bonusDualAudio  = 30
	bonusGoodSource = 20
	bonusEpisodeTag = 15
	maxSeederBonus  = 50
)

// RelevanceScore computes the ranking score for an accepted candidate:
// quality priority, match confidence scaled by 200 and additive bonuses.
func RelevanceScore(c models.Candidate) int {
	score := QualityPriority(c.Quality) + int(c.Confidence*200)

	if dualAudioRegex.MatchString(c.Title) {
		score += bonusDualAudio
	}
	if goodSrcRegex.MatchString(c.Title) {
		score += bonusGoodSource
	}
	if ContainsSeasonEpisode(c.Title) {
		score += bonusEpisodeTag
	}

	seeders := c.Seeders
	if seeders > maxSeederBonus {
		seeders = maxSeederBonus
	}
	score += seeders

	return score
}

// Dedup removes candidates sharing an info hash, keeping the first seen for
// each hash. It is idempotent.
func Dedup(candidates []models.Candidate) []models.Candidate {
	seen := make(map[string]bool, len(candidates))
	out := candidates[:0:0]
	for _, c := range candidates {
		if c.InfoHash == "" || seen[c.InfoHash] {
			continue
		}
		seen[c.InfoHash] = true
		out = append(out, c)
	}
	return out
}

// Options configures a ranking pass.
type Options struct {
	Query        string
	TargetSeason int              // reject candidates advertising another season
	Allowed      []models.Quality // allow-list; empty means the default set
	PerTier      int
	MaxTotal     int
}

func (o Options) allowedSet() map[models.Quality]bool {
	set := make(map[models.Quality]bool)
	if len(o.Allowed) == 0 {
		for _, q := range []models.Quality{
			models.Quality2160p, models.Quality1080p, models.Quality720p,
			models.Quality480p, models.QualityHD, models.QualitySD,
		} {
			set[q] = true
		}
		return set
	}
	for _, q := range o.Allowed {
		set[q] = true
	}
	return set
}

// Rank filters raw candidates against the query, detects quality, scores
// relevance, deduplicates by info hash, groups by tier and returns the
// bounded best-of-each-tier selection in tier priority order.
func Rank(candidates []models.Candidate, opts Options) []models.Candidate {
	if opts.PerTier <= 0 {
		opts.PerTier = 3
	}
	if opts.MaxTotal <= 0 {
		opts.MaxTotal = 10
	}
	allowed := opts.allowedSet()

	query := opts.Query
	if opts.TargetSeason > 0 {
		query = StripSeasonMarkers(query)
	}

	var passing []models.Candidate
	for _, c := range candidates {
		match := MatchTitle(query, c.Title)
		if !match.OK {
			continue
		}

		if opts.TargetSeason > 0 {
			if s := DetectSeason(c.Title); s != 0 && s != opts.TargetSeason {
				continue
			}
			c.Season = opts.TargetSeason
		}

		c.Quality = DetectQuality(c.Title)
		if !allowed[c.Quality] {
			continue
		}

		c.Confidence = match.Confidence
		c.Relevance = RelevanceScore(c)
		passing = append(passing, c)
	}

	passing = Dedup(passing)

	byTier := make(map[models.Quality][]models.Candidate)
	for _, c := range passing {
		byTier[c.Quality] = append(byTier[c.Quality], c)
	}

	var selected []models.Candidate
	for _, tier := range TierOrder {
		group := byTier[tier]
		sortTier(group)
		if len(group) > opts.PerTier {
			group = group[:opts.PerTier]
		}
		selected = append(selected, group...)
	}

	if len(selected) > opts.MaxTotal {
		selected = selected[:opts.MaxTotal]
	}
	return selected
}

// sortTier orders candidates within one quality tier: confidence, relevance,
// seeders, size, then the release-name parse confidence as a stable tie-break.
func sortTier(group []models.Candidate) {
	sort.SliceStable(group, func(i, j int) bool {
		a, b := group[i], group[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Relevance != b.Relevance {
			return a.Relevance > b.Relevance
		}
		if a.Seeders != b.Seeders {
			return a.Seeders > b.Seeders
		}
		if a.Size != b.Size {
			return a.Size > b.Size
		}
		return parseConfidence(a.Title) > parseConfidence(b.Title)
	})
}

func parseConfidence(title string) float64 {
	parsed := torrentname.Parse(title)
	if parsed == nil {
		return 0
	}
	return float64(parsed.Confidence)
}
