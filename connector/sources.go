package connector

import (
	"log"

	"github.com/MaleyDenis/infoBro/config"
)

// RegisterSources populates a registry from the sources file: one
// connector per subreddit, feed and channel, in file order.
func RegisterSources(registry *Registry, cfg *config.SourcesConfig) error {
	if cfg.Reddit.Enabled {
		for _, src := range cfg.Reddit.Subreddits {
			if err := registry.Register(NewReddit(src, cfg.Reddit.Settings)); err != nil {
				return err
			}
		}
	}

	if cfg.RSS.Enabled {
		for _, src := range cfg.RSS.Feeds {
			if err := registry.Register(NewRSS(src, cfg.RSS.Settings)); err != nil {
				return err
			}
		}
	}

	if cfg.Channels.Enabled {
		for _, src := range cfg.Channels.Channels {
			if err := registry.Register(NewChannel(src, cfg.Channels.Settings)); err != nil {
				return err
			}
		}
	}

	log.Printf("Registered %d connectors", len(registry.All()))
	return nil
}
