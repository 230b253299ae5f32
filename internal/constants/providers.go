package constants

// Provider name constants for consistent usage across internal packages
const (
	ProviderComando     = "comando"
	ProviderBluDV       = "bludv"
	ProviderRedeTorrent = "redetorrent"
	ProviderIndexer     = "indexer"
)
