package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gostremiobr/gostremiobr/internal/errors"
	"github.com/gostremiobr/gostremiobr/internal/models"
	"github.com/gostremiobr/gostremiobr/pkg/logger"
	"github.com/gostremiobr/gostremiobr/pkg/realdebrid"
)

const testHash = "c12fe1c06bba254a9dc9f519b335aa7c1367a88a"

func testMagnet() string {
	return "magnet:?xt=urn:btih:" + testHash + "&dn=Movie.2020.1080p"
}

func newTestRealDebrid(baseURL string) *RealDebrid {
	rd := NewRealDebrid(realdebrid.NewClientWithBaseURL(baseURL), logger.New())
	rd.retryDelay = 50 * time.Millisecond
	return rd
}

func TestAddMagnetValidationSkipsNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	rd := newTestRealDebrid(srv.URL)
	_, err := rd.AddMagnet("key", "magnet:?dn=Movie.2020.1080p.without.hash")
	if !errors.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if calls != 0 {
		t.Errorf("network called %d times for invalid magnet", calls)
	}
}

func TestAddMagnetRetriesOn429(t *testing.T) {
	var (
		mu    sync.Mutex
		times []time.Time
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		times = append(times, time.Now())
		n := len(times)
		mu.Unlock()

		if n <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error":"too_many_requests","error_code":33}`)
			return
		}
		fmt.Fprint(w, `{"id":"TORID","uri":"https://real-debrid.com/torrents/TORID"}`)
	}))
	defer srv.Close()

	rd := newTestRealDebrid(srv.URL)
	id, err := rd.AddMagnet("key", testMagnet())
	if err != nil {
		t.Fatalf("AddMagnet after retries: %v", err)
	}
	if id != "TORID" {
		t.Errorf("id = %q", id)
	}

	if len(times) != 3 {
		t.Fatalf("made %d attempts, want 3", len(times))
	}
	gap1 := times[1].Sub(times[0])
	gap2 := times[2].Sub(times[1])
	if gap1 < 40*time.Millisecond {
		t.Errorf("first backoff %v, want >= base delay", gap1)
	}
	if gap2 < gap1+gap1/2 {
		t.Errorf("second backoff %v not roughly double the first (%v)", gap2, gap1)
	}
}

func TestAuthErrorNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"bad_token","error_code":8}`)
	}))
	defer srv.Close()

	rd := newTestRealDebrid(srv.URL)
	_, err := rd.AddMagnet("bad-key", testMagnet())
	if !errors.IsAuth(err) {
		t.Fatalf("err = %v, want auth error", err)
	}
	if calls != 1 {
		t.Errorf("401 retried: %d calls", calls)
	}
}

func TestGetStreamLinkForFile(t *testing.T) {
	var unrestricted string
	mux := http.NewServeMux()
	mux.HandleFunc("/torrents/info/TORID", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"id": "TORID",
			"hash": "`+testHash+`",
			"status": "downloaded",
			"progress": 100,
			"files": [
				{"id": 1, "path": "/Show.S01E01.mkv", "bytes": 100, "selected": 1},
				{"id": 2, "path": "/extras/behind.mkv", "bytes": 10, "selected": 0},
				{"id": 3, "path": "/Show.S01E02.mkv", "bytes": 100, "selected": 1}
			],
			"links": ["https://rd/link-e01", "https://rd/link-e02"]
		}`)
	})
	mux.HandleFunc("/unrestrict/link", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		unrestricted = r.FormValue("link")
		fmt.Fprint(w, `{"download":"https://direct/file.mkv","filename":"file.mkv"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	rd := newTestRealDebrid(srv.URL)

	// File 3 is the second selected file, so it maps to the second link.
	url, err := rd.GetStreamLinkForFile("key", "TORID", 3)
	if err != nil {
		t.Fatalf("GetStreamLinkForFile: %v", err)
	}
	if url != "https://direct/file.mkv" {
		t.Errorf("url = %q", url)
	}
	if unrestricted != "https://rd/link-e02" {
		t.Errorf("unrestricted link = %q, want the second link", unrestricted)
	}

	// File 2 was never selected.
	if _, err := rd.GetStreamLinkForFile("key", "TORID", 2); err == nil {
		t.Error("unselected file produced a link")
	}
}

func TestProcessTorrentReusesExisting(t *testing.T) {
	added := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/torrents", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":"EXISTING","hash":"`+testHash+`","status":"downloaded","progress":100}]`)
	})
	mux.HandleFunc("/torrents/info/EXISTING", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"EXISTING","hash":"`+testHash+`","status":"downloaded","progress":100,"files":[],"links":[]}`)
	})
	mux.HandleFunc("/torrents/addMagnet", func(w http.ResponseWriter, r *http.Request) {
		added++
		fmt.Fprint(w, `{"id":"NEW"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	rd := newTestRealDebrid(srv.URL)
	processed, err := rd.ProcessTorrent("key", testMagnet())
	if err != nil {
		t.Fatalf("ProcessTorrent: %v", err)
	}
	if processed.ID != "EXISTING" || processed.Added || !processed.Ready {
		t.Errorf("processed = %+v", processed)
	}
	if processed.Status != models.StatusDownloaded {
		t.Errorf("status = %v", processed.Status)
	}
	if added != 0 {
		t.Errorf("magnet re-added %d times for a known hash", added)
	}
}

func TestProcessTorrentAddsUnknown(t *testing.T) {
	selected := ""
	mux := http.NewServeMux()
	mux.HandleFunc("/torrents", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("/torrents/addMagnet", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"NEW"}`)
	})
	mux.HandleFunc("/torrents/selectFiles/NEW", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		selected = r.FormValue("files")
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/torrents/info/NEW", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"NEW","hash":"`+testHash+`","status":"downloading","progress":12.5,"files":[],"links":[]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	rd := newTestRealDebrid(srv.URL)
	processed, err := rd.ProcessTorrent("key", testMagnet())
	if err != nil {
		t.Fatalf("ProcessTorrent: %v", err)
	}
	if processed.ID != "NEW" || !processed.Added || processed.Ready {
		t.Errorf("processed = %+v", processed)
	}
	if processed.Status != models.StatusDownloading || processed.Progress != 12.5 {
		t.Errorf("status/progress = %v/%v", processed.Status, processed.Progress)
	}
	if selected != "all" {
		t.Errorf("selected files = %q, want all", selected)
	}
}
