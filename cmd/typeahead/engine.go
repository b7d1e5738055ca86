package main

import (
	"fmt"

	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/dictionary"
	"github.com/bastiangx/typeahead/pkg/remote"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/gomodule/redigo/redis"
	"github.com/spf13/cobra"
)

// loadConfig resolves the --config flag into a Config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, used, err := config.LoadConfigWithPriority(path)
	if err != nil {
		return nil, err
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(used))
	return cfg, nil
}

// newEngine wires the Redis backed remote index into a completion engine.
// The returned pool must be closed by the caller.
func newEngine(cmd *cobra.Command, cfg *config.Config) (*suggest.Engine, *redis.Pool, error) {
	pool := remote.NewRedisPool(cfg.RedisOptions())
	index := remote.NewRedisIndex(pool, cfg.Remote.Key)
	client := remote.NewClient(index, cfg.Remote.Window, cfg.Remote.Marker)
	engine := suggest.NewEngine(client, cfg.EngineOptions())

	seed, _ := cmd.Flags().GetString("words")
	if seed == "" {
		return engine, pool, nil
	}
	words, err := dictionary.TextSource{Path: seed}.Load(cmd.Context())
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to seed local words: %w", err)
	}
	for _, w := range words {
		engine.AddWord(w)
	}
	log.Debugf("Seeded %d local words from %s", len(words), seed)
	return engine, pool, nil
}
