// Package database persists the curated magnet catalog and resolved titles.
package database

import "github.com/gostremiobr/gostremiobr/internal/models"

// Database is the persistence surface used by the services layer.
type Database interface {
	StoreMagnet(m models.CuratedMagnet) error
	FindMagnets(contentID string) ([]models.CuratedMagnet, error)
	DeleteMagnet(contentID, infoHash string) error
	DeleteMagnets(contentID string) (int, error)

	StoreTitle(contentID, title string) error
	GetTitle(contentID string) (string, bool, error)

	Close() error
}
