package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Console    ConsoleConfig    `yaml:"console"`
	Backend    BackendConfig    `yaml:"backend"`
	Database   DatabaseConfig   `yaml:"database"`
	Server     ServerConfig     `yaml:"server"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ConsoleConfig holds the menu and polling settings of the console itself.
type ConsoleConfig struct {
	ID               int           `yaml:"id"`
	WindowSize       int           `yaml:"window_size"`
	ScrollMode       string        `yaml:"scroll_mode"`
	Column           int           `yaml:"column"`
	PollIntervalMs   int           `yaml:"poll_interval_ms"`
	PollInterval     time.Duration `yaml:"-"`
	IdlePolls        int           `yaml:"idle_polls"`
	ButtonQueueDepth int           `yaml:"button_queue_depth"`
}

// BackendConfig describes where call and department records are fetched from.
type BackendConfig struct {
	BaseURL         string        `yaml:"base_url"`
	CallsPath       string        `yaml:"calls_path"`
	DepartmentsPath string        `yaml:"departments_path"`
	HTTPProxy       string        `yaml:"http_proxy"`
	TimeoutSeconds  int           `yaml:"timeout_seconds"`
	Timeout         time.Duration `yaml:"-"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	Breaker         BreakerConfig `yaml:"breaker"`
	MDNS            MDNSConfig    `yaml:"mdns"`
}

// BreakerConfig configures the circuit breaker around backend fetches.
type BreakerConfig struct {
	MaxFailures     uint32 `yaml:"max_failures"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	IntervalSeconds int    `yaml:"interval_seconds"`
}

// MDNSConfig controls backend discovery on the local network.
type MDNSConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Instance       string `yaml:"instance"`
	Service        string `yaml:"service"`
	Domain         string `yaml:"domain"`
	Scheme         string `yaml:"scheme"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// DatabaseConfig holds the connection settings of the persistence layer.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"`
}

// ServerConfig holds the HTTP panel server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// TelemetryConfig holds the websocket telemetry settings.
type TelemetryConfig struct {
	Enabled         bool          `yaml:"enabled"`
	URL             string        `yaml:"url"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"`
	WriteTimeoutMs  int           `yaml:"write_timeout_ms"`
}

// PushConfig holds the VAPID keys for web push call alerts.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills unset values. Values mirror the firmware constants.
func (cfg *Config) applyDefaults() {
	if cfg.Console.WindowSize <= 0 {
		cfg.Console.WindowSize = 4
	}
	if cfg.Console.ScrollMode == "" {
		cfg.Console.ScrollMode = "page"
	}
	if cfg.Console.Column <= 0 {
		cfg.Console.Column = 5
	}
	if cfg.Console.PollIntervalMs <= 0 {
		cfg.Console.PollIntervalMs = 500
	}
	cfg.Console.PollInterval = time.Duration(cfg.Console.PollIntervalMs) * time.Millisecond
	if cfg.Console.IdlePolls <= 0 {
		cfg.Console.IdlePolls = 15
	}
	if cfg.Console.ButtonQueueDepth <= 0 {
		cfg.Console.ButtonQueueDepth = 8
	}

	if cfg.Backend.CallsPath == "" {
		cfg.Backend.CallsPath = "/getCalls"
	}
	if cfg.Backend.DepartmentsPath == "" {
		cfg.Backend.DepartmentsPath = "/getUsers"
	}
	if cfg.Backend.TimeoutSeconds <= 0 {
		cfg.Backend.TimeoutSeconds = 5
	}
	cfg.Backend.Timeout = time.Duration(cfg.Backend.TimeoutSeconds) * time.Second
	if cfg.Backend.MaxBodyBytes <= 0 {
		cfg.Backend.MaxBodyBytes = 64 << 10
	}
	if cfg.Backend.Breaker.MaxFailures == 0 {
		cfg.Backend.Breaker.MaxFailures = 3
	}
	if cfg.Backend.Breaker.TimeoutSeconds <= 0 {
		cfg.Backend.Breaker.TimeoutSeconds = 30
	}
	if cfg.Backend.Breaker.IntervalSeconds <= 0 {
		cfg.Backend.Breaker.IntervalSeconds = 60
	}
	if cfg.Backend.MDNS.Instance == "" {
		cfg.Backend.MDNS.Instance = "AndonESP-Backend"
	}
	if cfg.Backend.MDNS.Service == "" {
		cfg.Backend.MDNS.Service = "_http._tcp"
	}
	if cfg.Backend.MDNS.Domain == "" {
		cfg.Backend.MDNS.Domain = "local."
	}
	if cfg.Backend.MDNS.Scheme == "" {
		cfg.Backend.MDNS.Scheme = "http"
	}
	if cfg.Backend.MDNS.TimeoutSeconds <= 0 {
		cfg.Backend.MDNS.TimeoutSeconds = 2
	}

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:andon.db"
	}
	if cfg.Database.MaxOpenConns <= 0 {
		cfg.Database.MaxOpenConns = 1
	}
	if cfg.Database.MaxIdleConns <= 0 {
		cfg.Database.MaxIdleConns = 1
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 2
	}

	if cfg.Telemetry.IntervalSeconds <= 0 {
		cfg.Telemetry.IntervalSeconds = 1
	}
	cfg.Telemetry.Interval = time.Duration(cfg.Telemetry.IntervalSeconds) * time.Second
	if cfg.Telemetry.WriteTimeoutMs <= 0 {
		cfg.Telemetry.WriteTimeoutMs = 2000
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}
}
