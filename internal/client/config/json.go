package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/healthlog/internal/flagx"
)

// JsonConfig is the DTO for reading the optional JSON configuration file.
type JsonConfig struct {
	ServerBaseURL string `json:"server_base_url"`
	StoragePath   string `json:"storage_path"`
}

// parseJson overlays values from the JSON file named by -c/-config, if any.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ServerBaseURL != "" {
		config.ServerBaseURL = c.ServerBaseURL
	}
	if c.StoragePath != "" {
		config.StoragePath = c.StoragePath
	}
}
