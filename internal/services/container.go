// Package services implements the application's service layer: the debrid
// resolver, season resolver, title lookup and the stream orchestrator.
package services

import (
	"github.com/gostremiobr/gostremiobr/internal/cache"
	"github.com/gostremiobr/gostremiobr/internal/config"
	"github.com/gostremiobr/gostremiobr/internal/constants"
	"github.com/gostremiobr/gostremiobr/internal/database"
	"github.com/gostremiobr/gostremiobr/internal/providers"
	"github.com/gostremiobr/gostremiobr/pkg/httputil"
	"github.com/gostremiobr/gostremiobr/pkg/logger"
	"github.com/gostremiobr/gostremiobr/pkg/realdebrid"
)

// Container holds the constructed services for dependency injection.
type Container struct {
	Streams *StreamService
	Debrid  DebridService
	Titles  TitleService
	Seasons *SeasonResolver
	Cache   *cache.TTLCache
	DB      database.Database
	Config  *config.Config
	Logger  logger.Logger
}

// NewContainer wires the full service graph from the configuration.
func NewContainer(cfg *config.Config, db database.Database, log logger.Logger) *Container {
	c := cache.New(cfg.CacheSize, constants.StreamTTLDefault)

	scrapeClient := httputil.NewScrapeClient(constants.ScrapeTimeout)
	apiClient := httputil.NewHTTPClient(constants.SearchTimeout)

	provs := []providers.Provider{
		providers.NewComando(scrapeClient, log),
		providers.NewBluDV(scrapeClient, log),
		providers.NewRedeTorrent(apiClient, log),
		providers.NewIndexer(cfg.IndexerMirrors, apiClient, log),
	}

	debrid := NewRealDebrid(realdebrid.NewClient(), log)
	titles := NewTMDB(apiClient, c, db, log)
	seasons := NewSeasonResolver(debrid, c, log)
	streams := NewStreamService(provs, debrid, titles, seasons, db, c, cfg, log)

	return &Container{
		Streams: streams,
		Debrid:  debrid,
		Titles:  titles,
		Seasons: seasons,
		Cache:   c,
		DB:      db,
		Config:  cfg,
		Logger:  log,
	}
}
