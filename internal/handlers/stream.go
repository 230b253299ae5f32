package handlers

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gostremiobr/gostremiobr/internal/config"
	"github.com/gostremiobr/gostremiobr/internal/models"
)

var (
	imdbIDRegex  = regexp.MustCompile(`^tt\d+$`)
	episodeRegex = regexp.MustCompile(`^(tt\d+):(\d+):(\d+)$`)
)

// handleStream answers a Stremio stream request. Every failure path
// answers 200 with an empty stream list; Stremio treats error statuses as
// addon breakage.
func (h *Handler) handleStream(c *gin.Context) {
	userConfig := decodeUserConfig(c.Param("configuration"))
	cfg := config.CreateFromUserData(userConfig, h.config)

	query, ok := parseStreamID(c.Param("type"), c.Param("id"))
	if !ok {
		h.services.Logger.Debugf("[StreamHandler] unsupported id %q", c.Param("id"))
		c.JSON(http.StatusOK, models.StreamsResponse{Streams: []models.Stream{}})
		return
	}
	query.APIKey = cfg.RDAPIKey

	results := h.services.Streams.GetStreams(query)

	streams := make([]models.Stream, 0, len(results))
	for _, r := range results {
		streams = append(streams, models.Stream{
			Name:  r.Name,
			Title: r.Title,
			URL:   r.URL,
			BehaviorHints: models.StreamBehaviorHints{
				BingeGroup: r.BingeGroup,
			},
		})
	}
	c.JSON(http.StatusOK, models.StreamsResponse{Streams: streams})
}

// parseStreamID maps a Stremio content id onto a stream query. Movies are
// bare IMDB ids; series episodes are id:season:episode.
func parseStreamID(contentType, rawID string) (models.StreamQuery, bool) {
	rawID = strings.TrimSuffix(rawID, ".json")

	switch models.ContentType(contentType) {
	case models.ContentMovie:
		if imdbIDRegex.MatchString(rawID) {
			return models.StreamQuery{Type: models.ContentMovie, ID: rawID}, true
		}
	case models.ContentSeries:
		if m := episodeRegex.FindStringSubmatch(rawID); m != nil {
			season, _ := strconv.Atoi(m[2])
			episode, _ := strconv.Atoi(m[3])
			return models.StreamQuery{
				Type:    models.ContentSeries,
				ID:      m[1],
				Season:  season,
				Episode: episode,
			}, true
		}
	}
	return models.StreamQuery{}, false
}
