package providers

import (
	"net/http"

	"github.com/gostremiobr/gostremiobr/internal/constants"
	"github.com/gostremiobr/gostremiobr/pkg/logger"
)

const bludvBaseURL = "https://bludv.xyz"

// NewBluDV builds the scrape adapter for the BluDV release site.
func NewBluDV(client *http.Client, log logger.Logger) *ScrapeProvider {
	return newScrapeProvider(constants.ProviderBluDV, scrapeScheme{
		BaseURL:       bludvBaseURL,
		SearchPath:    "/?s=%s",
		ItemSelector:  "div.post .title a, article .title a",
		TitleSelector: "div.post .title h1, h1.title",
		SizeSelector:  ".content strong:contains('Tamanho')",
		Language:      "pt-BR",
	}, client, log)
}
