// Package magnet handles magnet URI validation and info-hash extraction.
// The lower-cased info hash is the identity key for torrents everywhere in
// the application.
package magnet

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const minMagnetLength = 20

var btihRegex = regexp.MustCompile(`xt=urn:btih:([a-zA-Z0-9]+)`)

// Valid reports whether the string looks like a usable magnet URI:
// the magnet:? prefix, a minimum length and a btih hash component.
func Valid(uri string) bool {
	if len(uri) < minMagnetLength || !strings.HasPrefix(uri, "magnet:?") {
		return false
	}
	return btihRegex.MatchString(uri)
}

// Hash extracts the lower-cased info hash from a magnet URI.
func Hash(uri string) (string, error) {
	matches := btihRegex.FindStringSubmatch(uri)
	if len(matches) < 2 {
		return "", fmt.Errorf("magnet URI has no btih hash: %s", truncate(uri, 64))
	}
	return strings.ToLower(matches[1]), nil
}

// Build assembles a minimal magnet URI from a hash and display name.
func Build(hash, name string) string {
	return fmt.Sprintf("magnet:?xt=urn:btih:%s&dn=%s", strings.ToLower(hash), url.QueryEscape(name))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
