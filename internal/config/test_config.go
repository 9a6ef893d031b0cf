package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.Database = DatabaseConfig{
		Path:    ":memory:",
		Timeout: 1 * time.Second,
	}
	cfg.Feeds.HTTPTimeout = 2 * time.Second
	cfg.Feeds.RefreshInterval = 1 * time.Minute
	cfg.Feeds.UserAgent = "homepage-test/1.0"
	cfg.Feeds.AllowPrivate = true
	cfg.Ticker.MessageSource = ""
	cfg.Content.ListPath = ""
	cfg.Log.Level = "off"
	return cfg
}
