package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	RabbitMQ   RabbitMQConfig   `yaml:"rabbitmq"`
	Source     SourceConfig     `yaml:"source"`
	Crawl      CrawlConfig      `yaml:"crawl"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	State      StateConfig      `yaml:"state"`
	API        APIConfig        `yaml:"api"`
	LogLevel   string           `yaml:"log_level" validate:"oneof=debug info warn error"`
}

type RabbitMQConfig struct {
	Enabled    bool   `yaml:"enabled"`
	URL        string `yaml:"url" validate:"required_if=Enabled true"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"gt=0"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname" validate:"required"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// SourceConfig selects the marketplace and how its pages are fetched.
type SourceConfig struct {
	Name              string        `yaml:"name" validate:"oneof=mercadolibre lamudi"`
	BaseURL           string        `yaml:"base_url" validate:"omitempty,url"`
	UserAgent         string        `yaml:"user_agent"`
	Timeout           time.Duration `yaml:"timeout" validate:"gt=0"`
	RequestsPerMinute int           `yaml:"requests_per_minute" validate:"gte=0"`
	FetchMode         string        `yaml:"fetch_mode" validate:"oneof=static browser"`
}

type CrawlConfig struct {
	Schedule              string        `yaml:"schedule"`
	RunOnStart            bool          `yaml:"run_on_start"`
	MaxSearches           int           `yaml:"max_searches" validate:"gte=0"`
	Shuffle               bool          `yaml:"shuffle"`
	MaxPagesPerDescriptor int           `yaml:"max_pages_per_descriptor" validate:"gt=0"`
	PageDelay             time.Duration `yaml:"page_delay"`
	DescriptorDelay       time.Duration `yaml:"descriptor_delay"`
	RateLimitCooldown     time.Duration `yaml:"rate_limit_cooldown"`
	RateLimitPolicy       string        `yaml:"rate_limit_policy" validate:"oneof=skip retry"`
	RateLimitRetries      int           `yaml:"rate_limit_retries" validate:"gte=0"`
}

type EnrichmentConfig struct {
	Schedule       string        `yaml:"schedule"`
	RunOnStart     bool          `yaml:"run_on_start"`
	Limit          int           `yaml:"limit" validate:"gt=0"`
	BatchSize      int           `yaml:"batch_size" validate:"gt=0"`
	BatchDelay     time.Duration `yaml:"batch_delay"`
	ItemDelay      time.Duration `yaml:"item_delay"`
	OnlyRecent     bool          `yaml:"only_recent"`
	RecentWindow   time.Duration `yaml:"recent_window"`
	StuckThreshold time.Duration `yaml:"stuck_threshold"`
}

// StateConfig picks where run state is kept.
type StateConfig struct {
	Backend     string `yaml:"backend" validate:"oneof=file bolt postgres"`
	Dir         string `yaml:"dir"`
	BoltPath    string `yaml:"bolt_path"`
	HistorySize int    `yaml:"history_size" validate:"gt=0"`
}

type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr" validate:"required_if=Enabled true"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "listing_crawler"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "listings"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "listing_events"
	}
	if c.Source.Name == "" {
		c.Source.Name = "mercadolibre"
	}
	if c.Source.UserAgent == "" {
		c.Source.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = 45 * time.Second
	}
	if c.Source.RequestsPerMinute == 0 {
		c.Source.RequestsPerMinute = 20
	}
	if c.Source.FetchMode == "" {
		c.Source.FetchMode = "static"
	}
	if c.Crawl.Schedule == "" {
		c.Crawl.Schedule = "0 2 * * *"
	}
	if c.Crawl.MaxSearches == 0 {
		c.Crawl.MaxSearches = 50
	}
	if c.Crawl.MaxPagesPerDescriptor == 0 {
		c.Crawl.MaxPagesPerDescriptor = 5
	}
	if c.Crawl.PageDelay == 0 {
		c.Crawl.PageDelay = 1 * time.Second
	}
	if c.Crawl.DescriptorDelay == 0 {
		c.Crawl.DescriptorDelay = 2 * time.Second
	}
	if c.Crawl.RateLimitCooldown == 0 {
		c.Crawl.RateLimitCooldown = 12 * time.Second
	}
	if c.Crawl.RateLimitPolicy == "" {
		c.Crawl.RateLimitPolicy = "retry"
	}
	if c.Crawl.RateLimitPolicy == "retry" && c.Crawl.RateLimitRetries == 0 {
		c.Crawl.RateLimitRetries = 1
	}
	if c.Enrichment.Schedule == "" {
		c.Enrichment.Schedule = "0 */2 * * *"
	}
	if c.Enrichment.Limit == 0 {
		c.Enrichment.Limit = 100
	}
	if c.Enrichment.BatchSize == 0 {
		c.Enrichment.BatchSize = 10
	}
	if c.Enrichment.BatchDelay == 0 {
		c.Enrichment.BatchDelay = 5 * time.Second
	}
	if c.Enrichment.ItemDelay == 0 {
		c.Enrichment.ItemDelay = 2 * time.Second
	}
	if c.Enrichment.RecentWindow == 0 {
		c.Enrichment.RecentWindow = 7 * 24 * time.Hour
	}
	if c.Enrichment.StuckThreshold == 0 {
		c.Enrichment.StuckThreshold = 2 * time.Hour
	}
	if c.State.Backend == "" {
		c.State.Backend = "file"
	}
	if c.State.Dir == "" {
		c.State.Dir = "."
	}
	if c.State.BoltPath == "" {
		c.State.BoltPath = "crawler-state.db"
	}
	if c.State.HistorySize == 0 {
		c.State.HistorySize = 30
	}
	if c.API.Addr == "" {
		c.API.Addr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
