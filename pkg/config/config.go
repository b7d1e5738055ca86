/*
Package config manages TOML config for the typeahead services.
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/remote"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Remote  RemoteConfig  `toml:"remote"`
	Builder BuilderConfig `toml:"builder"`
	Server  ServerConfig  `toml:"server"`
	CLI     CliConfig     `toml:"cli"`
}

// EngineConfig tunes the hybrid completion engine.
type EngineConfig struct {
	Limit             int `toml:"limit"`
	MinPrefix         int `toml:"min_prefix"`
	FuzzyDistance     int `toml:"fuzzy_distance"`
	FuzzyMaxWords     int `toml:"fuzzy_max_words"`
	FuzzyMaxQuery     int `toml:"fuzzy_max_query"`
	RemoteTimeoutMs   int `toml:"remote_timeout_ms"`
	CoverageCacheSize int `toml:"coverage_cache_size"`
}

// RemoteConfig points at the Redis sorted set holding the prefix index.
type RemoteConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Key      string `toml:"key"`
	Window   int    `toml:"window"`
	Marker   string `toml:"marker"`
	MaxIdle  int    `toml:"max_idle"`
}

// BuilderConfig holds index build options.
type BuilderConfig struct {
	PrefixSize int `toml:"prefix_size"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit  int    `toml:"max_limit"`
	MaxPrefix int    `toml:"max_prefix"`
	HTTPAddr  string `toml:"http_addr"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit    int  `toml:"default_limit"`
	DefaultNoFilter bool `toml:"default_no_filter"`
}

// GetConfigDir returns the directory config.toml lives in:
// [os.UserConfigDir]/typeahead when that location exists or can be created,
// otherwise the directory of the running binary. It never creates anything;
// InitConfig makes the directory when it writes the default file.
func GetConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err == nil {
		dir := filepath.Join(base, "typeahead")
		if utils.DirWritable(dir) || (!utils.FileExists(dir) && utils.DirWritable(base)) {
			return dir, nil
		}
		log.Debugf("Config directory %s is not writable", dir)
	} else {
		log.Debugf("No user config directory: %v", err)
	}

	execDir, err := utils.ExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/typeahead/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	opts := suggest.DefaultOptions()
	return &Config{
		Engine: EngineConfig{
			Limit:             opts.Limit,
			MinPrefix:         opts.MinPrefix,
			FuzzyDistance:     opts.FuzzyDistance,
			FuzzyMaxWords:     opts.FuzzyMaxWords,
			FuzzyMaxQuery:     opts.FuzzyMaxQuery,
			RemoteTimeoutMs:   int(opts.RemoteTimeout / time.Millisecond),
			CoverageCacheSize: opts.CoverageSize,
		},
		Remote: RemoteConfig{
			Addr:    "localhost:6379",
			Key:     remote.DefaultKey,
			Window:  remote.DefaultWindow,
			Marker:  remote.DefaultMarker,
			MaxIdle: 4,
		},
		Builder: BuilderConfig{
			PrefixSize: 10,
		},
		Server: ServerConfig{
			MaxLimit:  64,
			MaxPrefix: 60,
		},
		CLI: CliConfig{
			DefaultLimit: 5,
		},
	}
}

// EngineOptions converts the engine section into suggest.Options.
func (c *Config) EngineOptions() suggest.Options {
	opts := suggest.DefaultOptions()
	opts.Limit = c.Engine.Limit
	opts.MinPrefix = c.Engine.MinPrefix
	opts.FuzzyDistance = c.Engine.FuzzyDistance
	opts.FuzzyMaxWords = c.Engine.FuzzyMaxWords
	opts.FuzzyMaxQuery = c.Engine.FuzzyMaxQuery
	opts.RemoteTimeout = time.Duration(c.Engine.RemoteTimeoutMs) * time.Millisecond
	opts.CoverageSize = c.Engine.CoverageCacheSize
	return opts
}

// RedisOptions converts the remote section into pool options.
func (c *Config) RedisOptions() remote.RedisOptions {
	return remote.RedisOptions{
		Addr:     c.Remote.Addr,
		Password: c.Remote.Password,
		DB:       c.Remote.DB,
		MaxIdle:  c.Remote.MaxIdle,
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Keys missing from the file keep their
// default values.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.DecodeTOMLFile(configPath, config); err != nil {
		log.Warnf("%v. Attempting partial recovery...", err)
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse salvages whatever typed values it can find section by
// section.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.DecodeTOMLTable(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.Table(tempConfig, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.Table(tempConfig, "remote"); ok {
		extractRemoteConfig(section, &config.Remote)
	}
	if section, ok := utils.Table(tempConfig, "builder"); ok {
		if val, ok := utils.Value[int](section, "prefix_size"); ok {
			config.Builder.PrefixSize = val
		}
	}
	if section, ok := utils.Table(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.Table(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	ints := map[string]*int{
		"limit":               &engine.Limit,
		"min_prefix":          &engine.MinPrefix,
		"fuzzy_distance":      &engine.FuzzyDistance,
		"fuzzy_max_words":     &engine.FuzzyMaxWords,
		"fuzzy_max_query":     &engine.FuzzyMaxQuery,
		"remote_timeout_ms":   &engine.RemoteTimeoutMs,
		"coverage_cache_size": &engine.CoverageCacheSize,
	}
	for key, dst := range ints {
		if val, ok := utils.Value[int](data, key); ok {
			*dst = val
		}
	}
}

func extractRemoteConfig(data map[string]any, r *RemoteConfig) {
	if val, ok := utils.Value[string](data, "addr"); ok {
		r.Addr = val
	}
	if val, ok := utils.Value[string](data, "password"); ok {
		r.Password = val
	}
	if val, ok := utils.Value[int](data, "db"); ok {
		r.DB = val
	}
	if val, ok := utils.Value[string](data, "key"); ok {
		r.Key = val
	}
	if val, ok := utils.Value[int](data, "window"); ok {
		r.Window = val
	}
	if val, ok := utils.Value[string](data, "marker"); ok {
		r.Marker = val
	}
	if val, ok := utils.Value[int](data, "max_idle"); ok {
		r.MaxIdle = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.Value[int](data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.Value[int](data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := utils.Value[string](data, "http_addr"); ok {
		server.HTTPAddr = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.Value[int](data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.Value[bool](data, "default_no_filter"); ok {
		cli.DefaultNoFilter = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return "", err
	}
	return defaultPath, SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.AbsPath(configPath)
}

// SaveConfig writes config to configPath, replacing any existing file.
func SaveConfig(config *Config, configPath string) error {
	return utils.WriteTOMLFile(configPath, config)
}
