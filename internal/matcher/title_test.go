package matcher

import "testing"

func TestMatchTitleExact(t *testing.T) {
	m := MatchTitle("The Matrix", "the matrix")
	if !m.OK || m.Confidence != 1.0 || m.Type != MatchExact {
		t.Errorf("identical normalized titles: got %+v", m)
	}
}

func TestMatchTitlePhrase(t *testing.T) {
	tests := []struct {
		query string
		title string
		ok    bool
	}{
		{"The Matrix", "The.Matrix.1999.1080p.BluRay.x264-SPARKS", true},
		{"Breaking Bad", "Breaking.Bad.S01.1080p.Dublado", true},
		{"Breaking Bad", "Better.Call.Saul.S01.1080p", false},
		{"Cidade de Deus", "Cidade.de.Deus.2002.1080p.Nacional", true},
		{"Dark", "Dark.S01.Complete.720p.WEB-DL", true},
	}

	for _, tt := range tests {
		m := MatchTitle(tt.query, tt.title)
		if m.OK != tt.ok {
			t.Errorf("MatchTitle(%q, %q).OK = %v, want %v", tt.query, tt.title, m.OK, tt.ok)
		}
		if tt.ok && m.Confidence < 0.8 {
			t.Errorf("MatchTitle(%q, %q) confidence %.2f below 0.8", tt.query, tt.title, m.Confidence)
		}
	}
}

func TestMatchTitleWordRatio(t *testing.T) {
	// >=3 query words, all long words present but out of phrase order, no
	// conflicting extras.
	m := MatchTitle("Todo Mundo Odeia o Chris", "Chris.Todo.Mundo.Odeia.S01.720p")
	if !m.OK {
		t.Fatalf("word-ratio match failed: %+v", m)
	}
	if m.Confidence < 0.9 {
		t.Errorf("word-ratio confidence %.2f, want >= 0.9", m.Confidence)
	}
	if m.Type != MatchWords {
		t.Errorf("match type = %s, want %s", m.Type, MatchWords)
	}
}

func TestMatchTitleConflictingWords(t *testing.T) {
	// A different show sharing words with the query must be rejected when it
	// carries unexpected long words.
	m := MatchTitle("Planeta dos Macacos a Guerra", "Reino.do.Planeta.dos.Macacos.2024.1080p")
	if m.OK {
		t.Errorf("conflicting extra word accepted: %+v", m)
	}
}

func TestMatchTitleTwoWords(t *testing.T) {
	m := MatchTitle("Breaking Bad", "bad breaking 720p")
	if !m.OK || m.Confidence != 1.0 {
		t.Errorf("two-word out-of-order match: got %+v", m)
	}
}

func TestPromoRejection(t *testing.T) {
	promos := []string{
		"The.Matrix.1999.1080p.www.site.com",
		"Breaking Bad S01 [telegram channel]",
		"Movie.2020.XXX.Parody",
	}
	for _, title := range promos {
		if m := MatchTitle("The Matrix", title); m.OK && title == promos[0] {
			t.Errorf("promotional title accepted: %q", title)
		}
		if !ContainsPromo(title) {
			t.Errorf("ContainsPromo(%q) = false", title)
		}
	}
}
