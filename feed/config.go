// Package feed implements a reconnecting websocket client that keeps
// a cache.MarketCache up to date with live option/equity quotes.
// Adapted from the reference SDK's root client.go/config.go: same
// backoff-array reconnect loop and heartbeat ticker, re-themed from
// OPRA binary wire frames to this engine's JSON quote messages.
package feed

import (
	"encoding/json"
	"log"
	"os"
	"strings"
)

// Config is the feed connection's static configuration, loaded the
// same way the reference SDK's Config is: JSON file first, then an
// environment-variable fallback for the API key, with log.Fatal on an
// unrecoverable misconfiguration.
type Config struct {
	ApiKey string
	WSUrl  string
}

// LoadConfig reads filename relative to the working directory and
// fills in ApiKey from INTRINIO_API_KEY when the file omits it.
func LoadConfig(filename string) Config {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	path := wd + string(os.PathSeparator) + filename
	log.Printf("feed - loading configuration from: %s\n", path)
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Fatal(err)
	}
	if strings.TrimSpace(cfg.ApiKey) == "" {
		cfg.ApiKey = os.Getenv("INTRINIO_API_KEY")
		if strings.TrimSpace(cfg.ApiKey) == "" {
			log.Fatal("feed - a valid API key must be provided (config file or INTRINIO_API_KEY)")
		}
	}
	if strings.TrimSpace(cfg.WSUrl) == "" {
		log.Fatal("feed - config must specify a WSUrl")
	}
	return cfg
}
