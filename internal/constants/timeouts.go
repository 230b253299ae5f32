// Package constants defines timeout values and cache lifetimes used throughout
// the application.
package constants

import "time"

// Timeouts for external operations.
const (
	// Request timeout for the entire stream request
	RequestTimeout = 30 * time.Second

	// Search timeout for a single source adapter call
	SearchTimeout = 15 * time.Second

	// Timeout for scrape detail-page fetches
	ScrapeTimeout = 10 * time.Second

	// Timeout for Real-Debrid API calls
	DebridTimeout = 60 * time.Second

	// Base delay for the debrid retry backoff (doubled per attempt)
	DebridRetryBaseDelay = 1 * time.Second

	// Maximum attempts per outbound debrid call
	DebridMaxAttempts = 3

	// Delay between candidate resolution batches
	ResolveBatchDelay = 500 * time.Millisecond
)

// Cache lifetimes. The stream cache TTL is chosen per entry from the
// aggregate readiness of the streams it holds.
const (
	StreamTTLDownloaded  = 6 * time.Hour
	StreamTTLDownloading = 15 * time.Minute
	StreamTTLError       = 5 * time.Minute
	StreamTTLDefault     = 5 * time.Minute

	TorrentCacheTTL = 30 * time.Minute
	SeasonCacheTTL  = 6 * time.Hour
	SearchCacheTTL  = 30 * time.Minute
	TitleCacheTTL   = 24 * time.Hour

	CacheSweepInterval = 1 * time.Hour
)
