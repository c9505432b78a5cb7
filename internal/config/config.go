package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the full service configuration, loaded from a TOML file.
type Config struct {
	Server          ServerConfig          `toml:"server"`
	Database        DatabaseConfig        `toml:"database"`
	Logs            LogsConfig            `toml:"logs"`
	Metrics         MetricsConfig         `toml:"metrics"`
	SettingsService SettingsServiceConfig `toml:"settings_service"`
	PaymentGateway  PaymentGatewayConfig  `toml:"payment_gateway"`
	Notifier        NotifierConfig        `toml:"notifier"`
	Booking         BookingConfig         `toml:"booking"`
	Sweeper         SweeperConfig         `toml:"sweeper"`
}

// ServerConfig holds HTTP server settings. Timeouts are in seconds.
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN builds the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig holds logger settings.
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig holds prometheus settings.
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// SettingsServiceConfig holds the establishment settings provider endpoint.
// Timeout is in seconds.
type SettingsServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// PaymentGatewayConfig holds the PIX charge provider settings. Timeout is in
// seconds, RetryBaseDelayMS in milliseconds. ChargeTTLMinutes bounds how long
// an unpaid deposit holds a slot.
type PaymentGatewayConfig struct {
	URL              string `toml:"url"`
	APIKey           string `toml:"api_key"`
	Timeout          int    `toml:"timeout"`
	MaxRetries       int    `toml:"max_retries"`
	RetryBaseDelayMS int    `toml:"retry_base_delay_ms"`
	ChargeTTLMinutes int    `toml:"charge_ttl_minutes"`
}

// NotifierConfig holds the notification dispatcher endpoint. Timeout is in
// seconds.
type NotifierConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// BookingConfig bounds availability queries.
type BookingConfig struct {
	MaxRangeDays int `toml:"max_range_days"`
}

// SweeperConfig drives the expired-transaction sweep.
type SweeperConfig struct {
	IntervalSeconds int `toml:"interval_seconds"`
}

// Load reads and validates the configuration file.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if cfg.Database.Host == "" {
		return nil, fmt.Errorf("config: database.host is required")
	}
	if cfg.SettingsService.URL == "" {
		return nil, fmt.Errorf("config: settings_service.url is required")
	}
	if cfg.PaymentGateway.URL == "" {
		return nil, fmt.Errorf("config: payment_gateway.url is required")
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "booking-service"
	}
	if cfg.SettingsService.Timeout == 0 {
		cfg.SettingsService.Timeout = 5
	}
	if cfg.PaymentGateway.Timeout == 0 {
		cfg.PaymentGateway.Timeout = 10
	}
	if cfg.PaymentGateway.MaxRetries == 0 {
		cfg.PaymentGateway.MaxRetries = 3
	}
	if cfg.PaymentGateway.RetryBaseDelayMS == 0 {
		cfg.PaymentGateway.RetryBaseDelayMS = 200
	}
	if cfg.PaymentGateway.ChargeTTLMinutes == 0 {
		cfg.PaymentGateway.ChargeTTLMinutes = 30
	}
	if cfg.Notifier.Timeout == 0 {
		cfg.Notifier.Timeout = 5
	}
	if cfg.Booking.MaxRangeDays == 0 {
		cfg.Booking.MaxRangeDays = 62
	}
	if cfg.Sweeper.IntervalSeconds == 0 {
		cfg.Sweeper.IntervalSeconds = 60
	}
}
