package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Archive: ArchiveConfig{
			Source:      "testdata/archive.json",
			HTTPTimeout: 5 * time.Second,
			UserAgent:   "kako-test/1.0",
		},
		UI:      defaultConfig().UI,
		Search:  defaultConfig().Search,
		Keys:    defaultConfig().Keys,
		Logging: LoggingConfig{Level: "off"},
	}
}
