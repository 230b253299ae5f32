package providers

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gostremiobr/gostremiobr/internal/models"
	"github.com/gostremiobr/gostremiobr/pkg/logger"
)

const indexerBody = `{
	"results": [
		{
			"title": "Breaking.Bad.S01.1080p.Dublado",
			"magnet_link": "magnet:?xt=urn:btih:c12fe1c06bba254a9dc9f519b335aa7c1367a88a&dn=bb",
			"seed_count": 42,
			"leech_count": 7,
			"size": "1.5 GB",
			"date": "2024-01-01"
		},
		{
			"title": "broken entry",
			"magnet_link": "not-a-magnet",
			"seed_count": 1,
			"leech_count": 0,
			"size": "",
			"date": ""
		}
	],
	"count": 2
}`

func TestIndexerSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Breaking Bad" {
			t.Errorf("q = %q", got)
		}
		if got := r.URL.Query().Get("category"); got != "series" {
			t.Errorf("category = %q", got)
		}
		if got := r.URL.Query().Get("season"); got != "1" {
			t.Errorf("season = %q", got)
		}
		if got := r.URL.Query().Get("filter_results"); got != "true" {
			t.Errorf("filter_results = %q", got)
		}
		w.Write([]byte(indexerBody))
	}))
	defer srv.Close()

	p := NewIndexer([]string{srv.URL}, srv.Client(), logger.New())
	candidates, err := p.Search("Breaking Bad", models.ContentSeries, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1 (invalid magnet dropped)", len(candidates))
	}

	c := candidates[0]
	if c.InfoHash != "c12fe1c06bba254a9dc9f519b335aa7c1367a88a" {
		t.Errorf("hash = %q", c.InfoHash)
	}
	if c.Seeders != 42 || c.Leechers != 7 {
		t.Errorf("seeders/leechers = %d/%d", c.Seeders, c.Leechers)
	}
	if c.Size != int64(1.5*float64(1<<30)) {
		t.Errorf("size = %d", c.Size)
	}
}

func TestIndexerStickyFailover(t *testing.T) {
	var badHits int32
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&badHits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(indexerBody))
	}))
	defer good.Close()

	p := NewIndexer([]string{bad.URL, good.URL}, &http.Client{}, logger.New())

	candidates, err := p.Search("Breaking Bad", models.ContentMovie, 0)
	if err != nil {
		t.Fatalf("failover search: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates after failover", len(candidates))
	}

	// The pointer advanced permanently: a second search must not touch the
	// dead mirror again.
	if _, err := p.Search("Breaking Bad", models.ContentMovie, 0); err != nil {
		t.Fatalf("second search: %v", err)
	}
	if hits := atomic.LoadInt32(&badHits); hits != 1 {
		t.Errorf("dead mirror hit %d times, want 1", hits)
	}
}

func TestIndexerMirrorsExhausted(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	p := NewIndexer([]string{bad.URL, bad.URL}, &http.Client{}, logger.New())
	if _, err := p.Search("anything", models.ContentMovie, 0); err == nil {
		t.Fatal("expected error once both mirrors failed")
	}
}
