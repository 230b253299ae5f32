package providers

import (
	"net/http"

	"github.com/gostremiobr/gostremiobr/internal/constants"
	"github.com/gostremiobr/gostremiobr/pkg/logger"
)

const comandoBaseURL = "https://comando.la"

// NewComando builds the scrape adapter for the Comando release site.
func NewComando(client *http.Client, log logger.Logger) *ScrapeProvider {
	return newScrapeProvider(constants.ProviderComando, scrapeScheme{
		BaseURL:       comandoBaseURL,
		SearchPath:    "/?s=%s",
		ItemSelector:  "article h2.entry-title a, article .entry-title a",
		TitleSelector: "h1.entry-title",
		SizeSelector:  ".entry-content strong:contains('Tamanho')",
		Language:      "pt-BR",
	}, client, log)
}
