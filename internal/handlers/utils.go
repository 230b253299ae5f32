package handlers

import (
	"encoding/base64"
	"encoding/json"
)

// decodeUserConfig parses the base64 JSON configuration segment of a
// Stremio URL. Garbage decodes to nil, which means "no overrides".
func decodeUserConfig(encoded string) map[string]interface{} {
	var userConfig map[string]interface{}
	if data, err := base64.StdEncoding.DecodeString(encoded); err == nil {
		json.Unmarshal(data, &userConfig)
	}
	return userConfig
}
