package config

import (
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/BurntSushi/toml"
)

var (
	// ErrInvalidConfig возвращается, когда конфигурация не прошла валидацию
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Backend   BackendConfig   `toml:"backend"`
	Database  DatabaseConfig  `toml:"database"`
	Redis     RedisConfig     `toml:"redis"`
	Payment   PaymentConfig   `toml:"payment"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BackendConfig настройки REST бэкенда аренды автомобилей
type BackendConfig struct {
	URL       string  `toml:"url"`
	Timeout   int     `toml:"timeout"`    // секунды
	RateLimit float64 `toml:"rate_limit"` // запросов в секунду, 0 = без ограничения
	Burst     int     `toml:"burst"`
}

// DatabaseConfig настройки PostgreSQL (журнал оплат и ключи идемпотентности)
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN формирует строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// RedisConfig настройки кэша листингов (машины и промоакции провайдера)
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      int    `toml:"ttl"` // секунды
}

// PaymentConfig настройки поллера статуса оплаты
type PaymentConfig struct {
	PollIntervalSeconds        int    `toml:"poll_interval_seconds"`
	DirectRedirectDelaySeconds int    `toml:"direct_redirect_delay_seconds"`
	PolledRedirectDelaySeconds int    `toml:"polled_redirect_delay_seconds"`
	MaxPollerLifetimeMinutes   int    `toml:"max_poller_lifetime_minutes"`
	RedirectTo                 string `toml:"redirect_to"`
}

// RateLimitConfig ограничение входящих запросов на один IP
type RateLimitConfig struct {
	Enabled           bool `toml:"enabled"`
	RequestsPerMinute int  `toml:"requests_per_minute"`
	Burst             int  `toml:"burst"`

	// TrustedProxies подсети прокси (CIDR), которым разрешено передавать
	// адрес клиента в X-Forwarded-For и X-Real-IP
	TrustedProxies []string `toml:"trusted_proxies"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "car-rental-gateway",
		},
		Backend: BackendConfig{
			URL:     "http://localhost:5000/api/v1",
			Timeout: 10,
			Burst:   20,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "car_rental_gateway",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  30,
		},
		Payment: PaymentConfig{
			PollIntervalSeconds:        5,
			DirectRedirectDelaySeconds: 3,
			PolledRedirectDelaySeconds: 5,
			MaxPollerLifetimeMinutes:   15,
			RedirectTo:                 "/dashboard",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 200,
			Burst:             50,
		},
	}
}

// Load читает конфигурацию из TOML файла поверх значений по умолчанию
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}
	if c.Backend.URL == "" {
		return fmt.Errorf("%w: backend.url is required", ErrInvalidConfig)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("%w: backend.timeout must be positive", ErrInvalidConfig)
	}
	if c.Backend.RateLimit < 0 {
		return fmt.Errorf("%w: backend.rate_limit must not be negative", ErrInvalidConfig)
	}
	if c.Payment.PollIntervalSeconds <= 0 {
		return fmt.Errorf("%w: payment.poll_interval_seconds must be positive", ErrInvalidConfig)
	}
	if c.Payment.DirectRedirectDelaySeconds < 0 || c.Payment.PolledRedirectDelaySeconds < 0 {
		return fmt.Errorf("%w: payment redirect delays must not be negative", ErrInvalidConfig)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("%w: rate_limit.requests_per_minute must be positive", ErrInvalidConfig)
	}
	for _, cidr := range c.RateLimit.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return fmt.Errorf("%w: rate_limit.trusted_proxies: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}
