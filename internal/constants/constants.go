// Package constants defines application-wide constants and default values.
package constants

const (
	// Addon metadata
	AddonID          = "gostremiobr.stremio.addon"
	AddonVersion     = "1.0.0"
	AddonName        = "GoStremioBR"
	AddonDescription = "Brazilian torrent addon with Comando, BluDV, RedeTorrent and Real-Debrid integration"

	// Default configuration values
	DefaultPort     = "5000"
	DefaultLogLevel = "info"

	// Cache settings
	DefaultCacheSize = 1000

	// Rate limiting
	TMDBRateLimit       = 20 // requests per second
	TMDBRateBurst       = 5  // burst capacity
	RealDebridRateLimit = 10 // requests per second
	RealDebridRateBurst = 2  // burst capacity
)

// DefaultQualities lists the quality tiers served by default, in priority order.
var DefaultQualities = []string{
	"2160p",
	"1080p",
	"720p",
	"480p",
	"HD",
	"SD",
}
