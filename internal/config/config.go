// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JakeFAU/news-scraper/internal/cache"
	"github.com/JakeFAU/news-scraper/internal/scrape"
	"github.com/JakeFAU/news-scraper/internal/sink"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server     ServerConfig            `mapstructure:"server"`
	Scrape     ScrapeConfig            `mapstructure:"scrape"`
	Classifier scrape.ClassifierConfig `mapstructure:"classifier"`
	HTTP       HTTPConfig              `mapstructure:"http"`
	Cache      CacheConfig             `mapstructure:"cache"`
	DB         DBConfig                `mapstructure:"db"`
	PubSub     PubSubConfig            `mapstructure:"pubsub"`
	Output     sink.LocalConfig        `mapstructure:"output"`
	GCS        sink.GCSConfig          `mapstructure:"gcs"`
	Logging    LoggingConfig           `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	RequestTimeout string   `mapstructure:"request_timeout"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ScrapeConfig governs default pipeline behavior.
type ScrapeConfig struct {
	Limit          int    `mapstructure:"limit"`
	Concurrency    int    `mapstructure:"concurrency"`
	RestrictDomain bool   `mapstructure:"restrict_domain"`
	UserAgent      string `mapstructure:"user_agent"`
	IgnoreRobots   bool   `mapstructure:"ignore_robots"`
}

// HTTPConfig configures outbound fetch timeouts.
type HTTPConfig struct {
	SeedTimeoutSeconds  int `mapstructure:"seed_timeout_seconds"`
	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds"`
}

// CacheConfig controls the payload cache store.
type CacheConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	TTLHours int               `mapstructure:"ttl_hours"`
	Redis    cache.RedisConfig `mapstructure:"redis"`
}

// DBConfig controls the optional run-history database.
type DBConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
	Table   string `mapstructure:"table"`
}

// PubSubConfig holds metadata for completion-event publishing.
type PubSubConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NEWS_SCRAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout", "90s")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("scrape.limit", 20)
	v.SetDefault("scrape.concurrency", 8)
	v.SetDefault("scrape.restrict_domain", true)
	v.SetDefault("scrape.user_agent", "news-scraper/1.0 (+http://github.com/JakeFAU/news-scraper)")
	v.SetDefault("scrape.ignore_robots", false)
	v.SetDefault("http.seed_timeout_seconds", 25)
	v.SetDefault("http.fetch_timeout_seconds", 15)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl_hours", 24)
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("db.enabled", false)
	v.SetDefault("db.table", "scrape_runs")
	v.SetDefault("pubsub.enabled", false)
	v.SetDefault("output.base_dir", "output")
	v.SetDefault("logging.development", false)
}

// Validate checks invariants the rest of the service relies on.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Scrape.Limit <= 0 {
		return fmt.Errorf("scrape.limit must be positive")
	}
	if c.Scrape.Concurrency <= 0 {
		return fmt.Errorf("scrape.concurrency must be positive")
	}
	if c.Cache.Enabled && c.Cache.TTLHours <= 0 {
		return fmt.Errorf("cache.ttl_hours must be positive when cache is enabled")
	}
	if c.DB.Enabled && c.DB.DSN == "" {
		return fmt.Errorf("db.dsn is required when db is enabled")
	}
	if c.PubSub.Enabled && (c.PubSub.ProjectID == "" || c.PubSub.TopicName == "") {
		return fmt.Errorf("pubsub.project_id and pubsub.topic_name are required when pubsub is enabled")
	}
	if _, err := time.ParseDuration(c.Server.RequestTimeout); err != nil {
		return fmt.Errorf("server.request_timeout: %w", err)
	}
	return nil
}

// RequestTimeout returns the parsed overall per-request budget.
func (c Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.RequestTimeout)
	if err != nil {
		return 90 * time.Second
	}
	return d
}

// CacheTTL returns the configured payload TTL.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// SeedTimeout returns the seed crawl timeout.
func (c Config) SeedTimeout() time.Duration {
	return time.Duration(c.HTTP.SeedTimeoutSeconds) * time.Second
}

// FetchTimeout returns the per-candidate fetch timeout.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.FetchTimeoutSeconds) * time.Second
}
