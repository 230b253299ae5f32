package matcher

import (
	"regexp"
	"strings"
)

// PromoKeywords flags ad/spam markers. A title or file path containing any of
// them is rejected outright regardless of match score.
var PromoKeywords = []string{
	"promo",
	"sample",
	"trailer",
	"advertise",
	"publicidade",
	"divulgacao",
	"www.",
	"t.me/",
	"telegram",
	"xxx",
	"porn",
}

// ContainsPromo reports whether the string carries a promotional marker.
func ContainsPromo(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range PromoKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// MatchType records how a title matched the query.
type MatchType string

const (
	MatchExact   MatchType = "exact"
	MatchPartial MatchType = "partial"
	MatchWords   MatchType = "words"
)

// TitleMatch is the result of matching a candidate title against a query.
type TitleMatch struct {
	OK         bool
	Confidence float64
	Type       MatchType
}

// Release tokens that may legitimately appear in a candidate title without
// counting as conflicting words during word-ratio matching.
var releaseTokens = map[string]bool{
	"1080p": true, "2160p": true, "720p": true, "480p": true, "360p": true,
	"bluray": true, "brrip": true, "bdrip": true, "webrip": true, "webdl": true,
	"remux": true, "hdtv": true, "hdrip": true, "dvdrip": true, "web": true,
	"x264": true, "x265": true, "h264": true, "h265": true, "hevc": true,
	"aac": true, "ac3": true, "dts": true, "atmos": true, "10bit": true,
	"dual": true, "audio": true, "dublado": true, "dubbed": true, "legendado": true,
	"nacional": true, "temporada": true, "season": true, "completa": true,
	"complete": true, "episodio": true, "episode": true, "mkv": true, "mp4": true,
	"uhd": true, "hdr": true, "hdr10": true, "imax": true, "extended": true,
	"remastered": true, "torrent": true, "download": true,
}

var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

// MatchTitle scores a candidate title against a query. Both are normalized
// internally. Patterns are built at three specificity levels: the whole
// phrase, the first up to four words, and the individual long words.
func MatchTitle(query, title string) TitleMatch {
	nq := Normalize(query)
	nt := Normalize(title)

	if nq == "" || nt == "" {
		return TitleMatch{}
	}
	if ContainsPromo(title) {
		return TitleMatch{}
	}

	if nt == nq {
		return TitleMatch{OK: true, Confidence: 1.0, Type: MatchExact}
	}

	qWords := strings.Fields(nq)

	// Level 1: the full normalized phrase as a whole-word match.
	// Level 2: the first up to 4 words joined.
	phrases := []string{nq}
	if len(qWords) > 4 {
		phrases = append(phrases, strings.Join(qWords[:4], " "))
	}
	for _, phrase := range phrases {
		re := wholePhrasePattern(phrase)
		if re.MatchString(nt) {
			if float64(len(phrase)) < 0.8*float64(len(nq)) {
				// Confidence floor for phrase matches covering under
				// 80% of the query.
				return TitleMatch{OK: true, Confidence: 0.8, Type: MatchPartial}
			}
			return TitleMatch{OK: true, Confidence: 0.95, Type: MatchExact}
		}
	}

	// Level 3: individual long words.
	qLong := longWords(nq)
	titleWordSet := make(map[string]bool)
	for _, w := range wordPattern.FindAllString(nt, -1) {
		titleWordSet[w] = true
	}

	if len(qWords) >= 3 && len(qLong) > 0 {
		matched := 0
		qSet := make(map[string]bool, len(qLong))
		for _, w := range qLong {
			qSet[w] = true
			if titleWordSet[w] {
				matched++
			}
		}
		ratio := float64(matched) / float64(len(qLong))
		if ratio >= 0.9 && !hasConflictingWords(nt, qSet) {
			return TitleMatch{OK: true, Confidence: ratio, Type: MatchWords}
		}
		return TitleMatch{}
	}

	if len(qWords) == 2 {
		if titleWordSet[qWords[0]] && titleWordSet[qWords[1]] {
			return TitleMatch{OK: true, Confidence: 1.0, Type: MatchWords}
		}
	}

	return TitleMatch{}
}

// hasConflictingWords reports whether the title carries long words that
// belong neither to the query nor to the known release vocabulary. Such
// words usually mean a different show with overlapping title words.
func hasConflictingWords(normalizedTitle string, queryWords map[string]bool) bool {
	for _, w := range longWords(normalizedTitle) {
		if queryWords[w] || releaseTokens[w] {
			continue
		}
		if isNumeric(w) {
			continue
		}
		return true
	}
	return false
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func wholePhrasePattern(phrase string) *regexp.Regexp {
	words := strings.Fields(phrase)
	escaped := make([]string, len(words))
	for i, w := range words {
		escaped[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b` + strings.Join(escaped, `\s+`) + `\b`)
}
