package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	PaymentsTopic      string   `yaml:"payments_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	SlotDurationMinutes int    `yaml:"slot_duration_minutes"`
	VenueTimezone       string `yaml:"venue_timezone"`
	ReferenceCacheTTL   int    `yaml:"reference_cache_ttl_seconds"`
	CreateRetries       int    `yaml:"create_retries"`
	StoreTimeoutSeconds int    `yaml:"store_timeout_seconds"`
}

type WorkerConfig struct {
	ExpirationSweepMinutes int `yaml:"expiration_sweep_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Booking.SlotDurationMinutes == 0 {
		c.Booking.SlotDurationMinutes = 120
	}
	if c.Booking.VenueTimezone == "" {
		c.Booking.VenueTimezone = "UTC"
	}
	if c.Booking.CreateRetries == 0 {
		c.Booking.CreateRetries = 3
	}
	if c.Booking.StoreTimeoutSeconds == 0 {
		c.Booking.StoreTimeoutSeconds = 5
	}
	if c.Worker.ExpirationSweepMinutes == 0 {
		c.Worker.ExpirationSweepMinutes = 5
	}
}
