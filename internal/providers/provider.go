// Package providers implements the torrent sources: two HTML-scrape sites,
// a WordPress posts-API site and an aggregating indexer with mirror
// failover. Adapters are isolated from each other; a failing adapter
// returns an error and zero candidates, never a panic.
package providers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gostremiobr/gostremiobr/internal/models"
)

// Provider is a single torrent source.
type Provider interface {
	Name() string
	Search(query string, contentType models.ContentType, targetSeason int) ([]models.Candidate, error)
}

var sizeRegex = regexp.MustCompile(`(?i)([\d.,]+)\s*(tb|gb|mb|kb|b)`)

var sizeUnits = map[string]float64{
	"b":  1,
	"kb": 1 << 10,
	"mb": 1 << 20,
	"gb": 1 << 30,
	"tb": 1 << 40,
}

// parseSize converts a human-readable size such as "1.5 GB" or "700,5 MB"
// into bytes. Unparseable input yields zero.
func parseSize(s string) int64 {
	m := sizeRegex.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	num := strings.ReplaceAll(m[1], ",", ".")
	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	return int64(value * sizeUnits[strings.ToLower(m[2])])
}
