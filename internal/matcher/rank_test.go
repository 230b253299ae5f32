package matcher

import (
	"fmt"
	"testing"

	"github.com/gostremiobr/gostremiobr/internal/models"
)

func cand(title, hash string, seeders int) models.Candidate {
	return models.Candidate{
		Title:    title,
		InfoHash: hash,
		Magnet:   "magnet:?xt=urn:btih:" + hash,
		Seeders:  seeders,
		Provider: "test",
	}
}

func TestRankSeasonFilter(t *testing.T) {
	candidates := []models.Candidate{
		cand("Breaking.Bad.S2.1080p", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", 50),
		cand("Breaking.Bad.S1.1080p.Dublado", "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", 10),
	}

	ranked := Rank(candidates, Options{Query: "Breaking Bad Temporada 1", TargetSeason: 1})
	if len(ranked) != 1 {
		t.Fatalf("got %d candidates, want 1: %+v", len(ranked), ranked)
	}
	got := ranked[0]
	if got.InfoHash != "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb" {
		t.Errorf("wrong candidate survived: %q", got.Title)
	}
	if got.Quality != models.Quality1080p {
		t.Errorf("quality = %s, want %s", got.Quality, models.Quality1080p)
	}
	if got.Season != 1 {
		t.Errorf("season = %d, want 1", got.Season)
	}
}

func TestRankSeasonlessTitleAccepted(t *testing.T) {
	// A title without any season marker must not be rejected for a season
	// query; season packs without markers are common.
	candidates := []models.Candidate{
		cand("Breaking.Bad.Completo.1080p.Dual", "cccccccccccccccccccccccccccccccccccccccc", 5),
	}
	ranked := Rank(candidates, Options{Query: "Breaking Bad Temporada 1", TargetSeason: 1})
	if len(ranked) != 1 {
		t.Fatalf("seasonless candidate rejected: %+v", ranked)
	}
}

func TestRankAllowList(t *testing.T) {
	candidates := []models.Candidate{
		cand("The.Matrix.1080p.BluRay", "1111111111111111111111111111111111111111", 80),
		cand("The.Matrix.720p.WEB-DL", "2222222222222222222222222222222222222222", 90),
	}

	ranked := Rank(candidates, Options{
		Query:   "The Matrix",
		Allowed: []models.Quality{models.Quality1080p},
	})
	if len(ranked) != 1 || ranked[0].Quality != models.Quality1080p {
		t.Fatalf("allow-list not enforced: %+v", ranked)
	}
}

func TestRank360pExcludedByDefault(t *testing.T) {
	candidates := []models.Candidate{
		cand("The.Matrix.360p.mp4", "3333333333333333333333333333333333333333", 5),
	}
	if ranked := Rank(candidates, Options{Query: "The Matrix"}); len(ranked) != 0 {
		t.Fatalf("360p admitted by default allow-list: %+v", ranked)
	}
}

func TestRankTierCapAndOrdering(t *testing.T) {
	var candidates []models.Candidate
	tiers := []string{"2160p", "1080p", "720p", "480p"}
	for ti, tier := range tiers {
		for i := 0; i < 5; i++ {
			hash := fmt.Sprintf("%d%d%038d", ti, i, 0)
			candidates = append(candidates, cand(
				fmt.Sprintf("The.Matrix.%s.copy%d", tier, i), hash, i*10))
		}
	}

	ranked := Rank(candidates, Options{Query: "The Matrix", PerTier: 3, MaxTotal: 10})
	if len(ranked) != 10 {
		t.Fatalf("got %d candidates, want 10", len(ranked))
	}

	// Quality priority must be non-increasing down the list.
	for i := 1; i < len(ranked); i++ {
		if QualityPriority(ranked[i].Quality) > QualityPriority(ranked[i-1].Quality) {
			t.Fatalf("quality order violated at %d: %s after %s",
				i, ranked[i].Quality, ranked[i-1].Quality)
		}
	}

	// No tier may exceed the per-tier cap.
	perTier := make(map[models.Quality]int)
	for _, c := range ranked {
		perTier[c.Quality]++
		if perTier[c.Quality] > 3 {
			t.Fatalf("tier %s exceeds cap: %+v", c.Quality, ranked)
		}
	}

	// Within a tier, more seeders come first.
	for i := 1; i < len(ranked); i++ {
		a, b := ranked[i-1], ranked[i]
		if a.Quality == b.Quality && a.Seeders < b.Seeders {
			t.Fatalf("seeder order violated within tier %s", a.Quality)
		}
	}
}

func TestRankPromoRejected(t *testing.T) {
	candidates := []models.Candidate{
		cand("The.Matrix.1080p.www.spamsite.com", "4444444444444444444444444444444444444444", 100),
	}
	if ranked := Rank(candidates, Options{Query: "The Matrix"}); len(ranked) != 0 {
		t.Fatalf("promotional candidate admitted: %+v", ranked)
	}
}

func TestDedupIdempotent(t *testing.T) {
	candidates := []models.Candidate{
		cand("A", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", 1),
		cand("A dup", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", 2),
		cand("B", "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", 3),
		{Title: "no hash"},
	}

	once := Dedup(candidates)
	if len(once) != 2 {
		t.Fatalf("Dedup kept %d, want 2", len(once))
	}
	if once[0].Title != "A" {
		t.Errorf("first occurrence not kept: %q", once[0].Title)
	}

	twice := Dedup(once)
	if len(twice) != len(once) {
		t.Fatalf("Dedup not idempotent: %d then %d", len(once), len(twice))
	}
	for i := range twice {
		if twice[i].InfoHash != once[i].InfoHash {
			t.Fatal("Dedup reordered candidates on second pass")
		}
	}
}

func TestRelevanceScoreBonuses(t *testing.T) {
	plain := models.Candidate{Title: "Show.S01.1080p", Quality: models.Quality1080p, Confidence: 0.95}
	dual := plain
	dual.Title = "Show.S01.1080p.Dublado"

	if RelevanceScore(dual) <= RelevanceScore(plain) {
		t.Error("dual-audio bonus not applied")
	}

	episode := plain
	episode.Title = "Show.S01E01.1080p"
	if RelevanceScore(episode) <= RelevanceScore(plain) {
		t.Error("episode-tag bonus not applied")
	}

	seeded := plain
	seeded.Seeders = 500
	capped := plain
	capped.Seeders = 50
	if RelevanceScore(seeded) != RelevanceScore(capped) {
		t.Error("seeder bonus not capped")
	}
}
