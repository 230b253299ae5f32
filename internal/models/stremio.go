package models

// Stremio addon protocol payloads.

type Manifest struct {
	ID            string        `json:"id"`
	Version       string        `json:"version"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Types         []string      `json:"types"`
	Resources     []string      `json:"resources"`
	Catalogs      []Catalog     `json:"catalogs"`
	IDPrefixes    []string      `json:"idPrefixes,omitempty"`
	BehaviorHints BehaviorHints `json:"behaviorHints"`
}

type Catalog struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BehaviorHints struct {
	Configurable          bool `json:"configurable"`
	ConfigurationRequired bool `json:"configurationRequired"`
}

// Stream is one playable entry in a stream response.
type Stream struct {
	Name          string              `json:"name"`
	Title         string              `json:"title,omitempty"`
	URL           string              `json:"url,omitempty"`
	BehaviorHints StreamBehaviorHints `json:"behaviorHints,omitempty"`
}

type StreamBehaviorHints struct {
	BingeGroup  string `json:"bingeGroup,omitempty"`
	NotWebReady bool   `json:"notWebReady,omitempty"`
}

// StreamsResponse is the body of a stream resource reply. Streams is always
// rendered, empty list included.
type StreamsResponse struct {
	Streams []Stream `json:"streams"`
}
