package main

import (
	"errors"
	"fmt"

	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/dictionary"
	"github.com/bastiangx/typeahead/pkg/remote"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func defineBuildIndexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build-index",
		Short: "Expand a corpus into prefixes and write them to the Redis index",
		Long: `The 'build-index' command loads every given corpus, cleans each entry into a
term, and writes all prefixes of every term plus the terminated term to the
configured Redis sorted set.`,
		Args: cobra.NoArgs,
		RunE: runBuildIndex,
	}
	cmd.Flags().StringSlice("text", nil, "Text corpus files, one entry per line")
	cmd.Flags().StringSlice("json", nil, "JSON corpus files holding an array of objects")
	cmd.Flags().String("field", "name", "Object field read from JSON corpora")
	cmd.Flags().String("sqlite", "", "SQLite database to read entries from")
	cmd.Flags().String("query", "SELECT name FROM items", "Single column query run against --sqlite")
	cmd.Flags().Bool("reset", false, "Delete the existing index before writing")
	cmd.Flags().Int("prefix-size", 0, "Longest plain prefix per term (default from config)")
	return cmd
}

func buildSources(cmd *cobra.Command) []dictionary.Source {
	var sources []dictionary.Source
	texts, _ := cmd.Flags().GetStringSlice("text")
	for _, p := range texts {
		sources = append(sources, dictionary.TextSource{Path: p})
	}
	jsons, _ := cmd.Flags().GetStringSlice("json")
	field, _ := cmd.Flags().GetString("field")
	for _, p := range jsons {
		sources = append(sources, dictionary.JSONSource{Path: p, Field: field})
	}
	if db, _ := cmd.Flags().GetString("sqlite"); db != "" {
		query, _ := cmd.Flags().GetString("query")
		sources = append(sources, dictionary.SQLiteSource{Path: db, Query: query})
	}
	return sources
}

func runBuildIndex(cmd *cobra.Command, args []string) error {
	sources := buildSources(cmd)
	if len(sources) == 0 {
		return errors.New("no corpus given, use --text, --json or --sqlite")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	pool := remote.NewRedisPool(cfg.RedisOptions())
	defer pool.Close()
	index := remote.NewRedisIndex(pool, cfg.Remote.Key)

	if reset, _ := cmd.Flags().GetBool("reset"); reset {
		if err := index.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("failed to reset index: %w", err)
		}
		log.Infof("Cleared index '%s'", cfg.Remote.Key)
	}

	prefixSize, _ := cmd.Flags().GetInt("prefix-size")
	if prefixSize <= 0 {
		prefixSize = cfg.Builder.PrefixSize
	}
	stats, err := dictionary.NewBuilder(prefixSize, cfg.Remote.Marker).Build(cmd.Context(), index, sources...)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d terms (%d members) into '%s' in %v\n",
		stats.Terms, stats.Members, cfg.Remote.Key, stats.Duration)
	return nil
}

func defineConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or reset the config file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file in use",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, _ := cmd.Flags().GetString("config")
				_, used, err := config.LoadConfigWithPriority(path)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), config.GetActiveConfigPath(used))
				return nil
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Overwrite the default config file with built-in defaults",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.RebuildConfigFile()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
				return nil
			},
		},
	)
	return cmd
}
