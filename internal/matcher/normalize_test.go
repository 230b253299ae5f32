package matcher

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Matrix", "matrix"},
		{"Breaking.Bad.S01E01", "breaking bad s01e01"},
		{"O Auto da Compadecida", "auto compadecida"},
		{"Cidade    de  Deus", "cidade deus"},
		{"Amélie", "amelie"},
		{"João e Maria", "joao maria"},
		{"[BR] Filme—Teste (2020)", "br filme teste 2020"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLongWords(t *testing.T) {
	got := longWords("breaking bad s01 temporada")
	want := []string{"breaking", "temporada"}
	if len(got) != len(want) {
		t.Fatalf("longWords returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("longWords[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
