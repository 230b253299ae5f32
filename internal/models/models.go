// Package models defines the data structures shared across the application.
package models

import "time"

// ContentType distinguishes movie and series requests.
type ContentType string

const (
	ContentMovie  ContentType = "movie"
	ContentSeries ContentType = "series"
)

// Quality is the closed set of quality tiers used for ranking and display.
// HD and SD are fallback tiers used when no specific resolution marker is found.
type Quality string

const (
	Quality2160p Quality = "2160p"
	Quality1080p Quality = "1080p"
	Quality720p  Quality = "720p"
	Quality480p  Quality = "480p"
	Quality360p  Quality = "360p"
	QualityHD    Quality = "HD"
	QualitySD    Quality = "SD"
)

// StreamQuery is an immutable description of one stream request.
type StreamQuery struct {
	Type      ContentType
	ID        string // IMDB id, e.g. tt0903747
	Season    int
	Episode   int
	APIKey    string // Real-Debrid API key
	TitleHint string // optional, skips the title lookup when set
}

// Candidate is one raw or ranked search result. Two candidates with the same
// info hash are the same torrent regardless of title text.
type Candidate struct {
	Title      string
	Magnet     string
	InfoHash   string
	Seeders    int
	Leechers   int
	Size       int64
	Quality    Quality
	Provider   string
	Language   string
	Season     int
	Relevance  int
	Confidence float64
}

// TorrentStatus is the state machine for a torrent submitted to the
// debrid service.
type TorrentStatus int

const (
	StatusQueued TorrentStatus = iota
	StatusDownloading
	StatusDownloaded
	StatusError
)

// String returns the wire-level readiness string exposed to clients.
func (s TorrentStatus) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusDownloading:
		return "downloading"
	case StatusDownloaded:
		return "downloaded"
	default:
		return "error"
	}
}

// ParseTorrentStatus maps the debrid service's status strings onto the
// closed enum. Virus, dead and magnet_error are terminal error states.
func ParseTorrentStatus(raw string) TorrentStatus {
	switch raw {
	case "queued", "magnet_conversion", "waiting_files_selection":
		return StatusQueued
	case "downloading", "uploading", "compressing":
		return StatusDownloading
	case "downloaded":
		return StatusDownloaded
	default:
		return StatusError
	}
}

// TorrentFile is one file inside a resolved torrent.
type TorrentFile struct {
	ID       int
	Path     string
	Bytes    int64
	Selected bool
}

// ResolvedTorrent is the debrid service's view of a submitted torrent.
type ResolvedTorrent struct {
	ID       string
	InfoHash string
	Status   TorrentStatus
	Progress float64
	Files    []TorrentFile
	Links    []string
}

// EpisodeFile is a torrent file with its parsed season/episode numbers.
type EpisodeFile struct {
	File    TorrentFile
	Season  int
	Episode int
}

// SeasonEntry is a fully downloaded season torrent's file list, keyed by
// (contentID, season) and reused across per-episode requests while fresh.
type SeasonEntry struct {
	TorrentID  string
	MagnetHash string
	Files      []EpisodeFile
	InsertedAt time.Time
}

// StreamResult is one playable stream handed back to the caller.
type StreamResult struct {
	Name       string // display name carrying provider and quality tag
	Title      string // descriptive name: size, filename
	URL        string // direct play URL
	Quality    Quality
	BingeGroup string // groups multi-episode results from the same season
	Status     TorrentStatus
}

// CuratedMagnet is a catalog entry mapping a content id to a known-good magnet.
type CuratedMagnet struct {
	ContentID string
	Magnet    string
	Title     string
	AddedAt   time.Time
}

// ProcessedTorrent summarizes a composite debrid submission.
type ProcessedTorrent struct {
	ID       string
	Added    bool
	Ready    bool
	Status   TorrentStatus
	Progress float64
}
