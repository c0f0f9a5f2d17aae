// Package config loads tool configuration from YAML, .env files and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration settings.
type Config struct {
	// Site configuration
	Site SiteConfig `yaml:"site" mapstructure:"site"`

	// Repository the notebooks live in
	Repo RepoConfig `yaml:"repo" mapstructure:"repo"`

	// GitHub API configuration
	GitHub GitHubConfig `yaml:"github" mapstructure:"github"`

	// History cache configuration
	Cache CacheConfig `yaml:"cache" mapstructure:"cache"`

	// Export settings
	Export ExportConfig `yaml:"export" mapstructure:"export"`

	// Preview server settings
	Server ServerConfig `yaml:"server" mapstructure:"server"`
}

type SiteConfig struct {
	// Dir is the root of the rendered static site.
	Dir string `yaml:"dir" mapstructure:"dir"`
	// TableMarker is the class identifying exportable tables.
	TableMarker string `yaml:"table_marker" mapstructure:"table_marker"`
}

type RepoConfig struct {
	// Slug is the owner/repository identifier.
	Slug string `yaml:"slug" mapstructure:"slug"`
	// Branch is the live branch launch links point at.
	Branch string `yaml:"branch" mapstructure:"branch"`
	// HistoryPath is the tracking file whose commit history stands in for
	// the whole notebook set.
	HistoryPath string `yaml:"history_path" mapstructure:"history_path"`
}

type GitHubConfig struct {
	Token     string `yaml:"token" mapstructure:"token"`
	RateLimit int    `yaml:"rate_limit" mapstructure:"rate_limit"` // Requests per second
}

type CacheConfig struct {
	Path string        `yaml:"path" mapstructure:"path"`
	TTL  time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

type ExportConfig struct {
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
	Workers   int    `yaml:"workers" mapstructure:"workers"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// Default returns default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Site: SiteConfig{
			Dir:         "docs",
			TableMarker: "dataframe",
		},
		Repo: RepoConfig{
			Slug:        "Deutsche-Digitale-Bibliothek/ddblabs-statistics",
			Branch:      "main",
			HistoryPath: "history.json",
		},
		GitHub: GitHubConfig{
			RateLimit: 5,
		},
		Cache: CacheConfig{
			Path: filepath.Join(homeDir, ".ddbstats", "history.db"),
			TTL:  6 * time.Hour,
		},
		Export: ExportConfig{
			OutputDir: "exports",
			Workers:   4,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8090",
		},
	}
}

// Load loads configuration from file, falling back to defaults for missing
// values.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("site", cfg.Site)
	v.SetDefault("repo", cfg.Repo)
	v.SetDefault("github", cfg.GitHub)
	v.SetDefault("cache", cfg.Cache)
	v.SetDefault("export", cfg.Export)
	v.SetDefault("server", cfg.Server)

	v.SetEnvPrefix("DDBSTATS")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".ddbstats")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".ddbstats"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence.
func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}
}

// applyEnvOverrides applies well-known environment variables that take
// precedence over the config file.
func applyEnvOverrides(cfg *Config) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}
	if dir := os.Getenv("DDBSTATS_SITE_DIR"); dir != "" {
		cfg.Site.Dir = dir
	}
}

// ResolveToken returns the GitHub token to use: the environment or config
// file first, the OS keyring second. An empty result means anonymous
// access.
func (c *Config) ResolveToken() string {
	if c.GitHub.Token != "" {
		return c.GitHub.Token
	}
	token, err := NewKeyringManager().GetToken()
	if err != nil {
		return ""
	}
	return token
}
