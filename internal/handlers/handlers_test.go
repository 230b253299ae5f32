package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gostremiobr/gostremiobr/internal/cache"
	"github.com/gostremiobr/gostremiobr/internal/config"
	"github.com/gostremiobr/gostremiobr/internal/database"
	"github.com/gostremiobr/gostremiobr/internal/models"
	"github.com/gostremiobr/gostremiobr/internal/services"
	"github.com/gostremiobr/gostremiobr/pkg/logger"
)

func newTestRouter(t *testing.T) (*gin.Engine, database.Database) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewBoltDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	c := cache.New(100, time.Hour)
	cfg := &config.Config{}
	log := logger.New()

	container := &services.Container{
		Streams: services.NewStreamService(nil, nil, nil, nil, db, c, cfg, log),
		Cache:   c,
		DB:      db,
		Config:  cfg,
		Logger:  log,
	}

	router := gin.New()
	New(container, cfg).RegisterRoutes(router)
	return router, db
}

func TestParseStreamID(t *testing.T) {
	tests := []struct {
		contentType string
		rawID       string
		ok          bool
		season      int
		episode     int
	}{
		{"movie", "tt0133093", true, 0, 0},
		{"movie", "tt0133093.json", true, 0, 0},
		{"series", "tt0903747:1:2", true, 1, 2},
		{"series", "tt0903747:1:2.json", true, 1, 2},
		{"series", "tt0903747", false, 0, 0},
		{"movie", "kitsu:1234", false, 0, 0},
		{"channel", "tt0133093", false, 0, 0},
	}

	for _, tt := range tests {
		q, ok := parseStreamID(tt.contentType, tt.rawID)
		if ok != tt.ok {
			t.Errorf("parseStreamID(%q, %q) ok = %v, want %v", tt.contentType, tt.rawID, ok, tt.ok)
			continue
		}
		if ok && (q.Season != tt.season || q.Episode != tt.episode) {
			t.Errorf("parseStreamID(%q, %q) = %+v", tt.contentType, tt.rawID, q)
		}
	}
}

func TestManifestRoute(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/manifest.json", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var manifest models.Manifest
	if err := json.Unmarshal(w.Body.Bytes(), &manifest); err != nil {
		t.Fatalf("decoding manifest: %v", err)
	}
	if manifest.ID == "" || manifest.Name == "" {
		t.Errorf("manifest incomplete: %+v", manifest)
	}
	if len(manifest.Resources) == 0 || manifest.Resources[0] != "stream" {
		t.Errorf("resources = %v", manifest.Resources)
	}
}

func TestStreamRouteUnsupportedID(t *testing.T) {
	router, _ := newTestRouter(t)

	conf := base64.StdEncoding.EncodeToString([]byte(`{"RD_API_KEY":"key"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/"+conf+"/stream/movie/kitsu:1234.json", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with empty streams", w.Code)
	}
	var resp models.StreamsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Streams == nil || len(resp.Streams) != 0 {
		t.Errorf("streams = %v, want rendered empty list", resp.Streams)
	}
}

func TestCatalogAddAndDelete(t *testing.T) {
	router, db := newTestRouter(t)

	body, _ := json.Marshal(map[string]string{
		"magnet": "magnet:?xt=urn:btih:c12fe1c06bba254a9dc9f519b335aa7c1367a88a&dn=Matrix",
		"title":  "The Matrix 1080p",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/catalog/tt0133093", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d: %s", w.Code, w.Body.String())
	}
	if found, _ := db.FindMagnets("tt0133093"); len(found) != 1 {
		t.Fatalf("stored %d magnets, want 1", len(found))
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/catalog/tt0133093", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	if found, _ := db.FindMagnets("tt0133093"); len(found) != 0 {
		t.Errorf("magnets remain after delete: %d", len(found))
	}
}

func TestCatalogAddRejectsBadInput(t *testing.T) {
	router, _ := newTestRouter(t)

	// Invalid magnet URI.
	body, _ := json.Marshal(map[string]string{"magnet": "http://example.com"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/catalog/tt0133093", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad magnet status = %d", w.Code)
	}

	// Invalid content id.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/catalog/not-an-id", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d", w.Code)
	}
}

func TestDecodeUserConfig(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(`{"RD_API_KEY":"secret"}`))
	decoded := decodeUserConfig(encoded)
	if decoded["RD_API_KEY"] != "secret" {
		t.Errorf("decoded = %v", decoded)
	}
	if decodeUserConfig("not-base64!!") != nil {
		t.Error("garbage configuration decoded to non-nil map")
	}
}
