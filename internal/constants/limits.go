// Package constants defines numerical limits and conversion factors.
package constants

// Limits and counts for various operations.
const (
	// Concurrent candidate resolutions per batch against the debrid service
	ResolveBatchSize = 2

	// Candidates kept per quality tier after ranking
	CandidatesPerTier = 3

	// Total candidates handed to the debrid resolver after ranking
	MaxRankedCandidates = 10

	// Final stream list cap
	MaxStreams = 15

	// Page size when scanning the debrid account's existing torrents
	DebridListPageSize = 100

	// Pages fetched from the posts-API source per search
	PostsPages = 2

	// Conversion factors
	BytesToGB = 1024 * 1024 * 1024
)
