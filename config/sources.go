package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SourcesConfig describes every external source the service polls.
// Loaded from a YAML file so sources can be added without a rebuild.
type SourcesConfig struct {
	Reddit   RedditConfig  `yaml:"reddit"`
	RSS      RSSConfig     `yaml:"rss"`
	Channels ChannelConfig `yaml:"channels"`
}

// RedditConfig lists the subreddits to poll and shared listing settings.
type RedditConfig struct {
	Enabled    bool              `yaml:"enabled"`
	Subreddits []SubredditSource `yaml:"subreddits"`
	Settings   RedditSettings    `yaml:"settings"`
}

type SubredditSource struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type RedditSettings struct {
	Limit     int           `yaml:"limit"`
	Sort      string        `yaml:"sort"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// RSSConfig lists the feeds to poll.
type RSSConfig struct {
	Enabled  bool         `yaml:"enabled"`
	Feeds    []FeedSource `yaml:"feeds"`
	Settings HTTPSettings `yaml:"settings"`
}

type FeedSource struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// ChannelConfig lists public messaging channels polled through a JSON
// mirror endpoint.
type ChannelConfig struct {
	Enabled  bool            `yaml:"enabled"`
	Channels []ChannelSource `yaml:"channels"`
	Settings HTTPSettings    `yaml:"settings"`
}

type ChannelSource struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	APIURL string `yaml:"api_url"`
}

type HTTPSettings struct {
	Limit     int           `yaml:"limit"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// LoadSources reads and parses the sources YAML file.
func LoadSources(path string) (*SourcesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var cfg SourcesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}

	return &cfg, nil
}
