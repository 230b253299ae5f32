package cache

import "fmt"

// Key schemes for the layered caches. Stream and season keys embed the
// content id first so a catalog change can invalidate them by prefix.

// StreamKey identifies a cached stream list for one request.
func StreamKey(contentType, contentID string, season, episode int) string {
	if season > 0 || episode > 0 {
		return fmt.Sprintf("streams:%s:%s:%d:%d", contentID, contentType, season, episode)
	}
	return fmt.Sprintf("streams:%s:%s", contentID, contentType)
}

// StreamKeyPrefix covers every stream key for a content id.
func StreamKeyPrefix(contentID string) string {
	return fmt.Sprintf("streams:%s:", contentID)
}

// SeasonKey identifies a cached SeasonEntry.
func SeasonKey(contentID string, season int) string {
	return fmt.Sprintf("season:%s:%d", contentID, season)
}

// SeasonKeyPrefix covers every season entry for a content id.
func SeasonKeyPrefix(contentID string) string {
	return fmt.Sprintf("season:%s:", contentID)
}

// TorrentKey identifies a resolved torrent by its info hash.
func TorrentKey(infoHash string) string {
	return fmt.Sprintf("torrent:%s", infoHash)
}

// SearchKey identifies a cached provider search.
func SearchKey(provider, query string, season int) string {
	return fmt.Sprintf("search:%s:%s:%d", provider, query, season)
}

// TitleKey identifies a cached title lookup.
func TitleKey(contentID string) string {
	return fmt.Sprintf("title:%s", contentID)
}
