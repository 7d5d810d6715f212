package config

import "time"

// Config holds runtime settings for the to-do CLI.
type Config struct {
	ServerEndpointAddr  string
	LocalDBPath         string
	OnlineCheckInterval time.Duration
	CountdownTick       time.Duration
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.LocalDBPath = "gophtodo.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.CountdownTick = time.Second
}

// LoadConfig applies defaults, then the JSON file (if any), then
// command-line flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
