package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	// Queue holds the help queue and duty tuning.
	Queue struct {
		Horizon       string `yaml:"horizon" env:"QUEUE_HORIZON"`
		TimeZone      string `yaml:"time_zone" env:"QUEUE_TIME_ZONE"`
		OffDutyBuffer string `yaml:"off_duty_buffer" env:"QUEUE_OFF_DUTY_BUFFER"`
	} `yaml:"queue"`

	SMTP struct {
		Host     string `yaml:"host" env:"SMTP_HOST"`
		Port     int    `yaml:"port" env:"SMTP_PORT"`
		Username string `yaml:"username" env:"SMTP_USERNAME"`
		Password string `yaml:"password" env:"SMTP_PASSWORD"`
		From     string `yaml:"from" env:"SMTP_FROM"`
	} `yaml:"smtp"`

	Roster struct {
		URL     string `yaml:"url" env:"ROSTER_URL"`
		Timeout string `yaml:"timeout" env:"ROSTER_TIMEOUT"`
	} `yaml:"roster"`

	Telemetry struct {
		ReporterKey string `yaml:"reporter_key" env:"TELEMETRY_REPORTER_KEY"`
	} `yaml:"telemetry"`
}

// LoadConfig loads configuration from a .env file, a YAML file and environment variables,
// later sources overriding earlier ones.
func LoadConfig(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "labdesk"
	config.Database.SSLMode = "disable"
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.JWT.AccessTokenExpiration = "12h"
	config.JWT.Issuer = "labdesk"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Queue.Horizon = "3h"
	config.Queue.TimeZone = "America/New_York"
	config.Queue.OffDutyBuffer = "1m"

	config.SMTP.Port = 587
	config.SMTP.From = "labdesk@localhost"

	config.Roster.Timeout = "5s"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"jwt.access_token_expiration": config.JWT.AccessTokenExpiration,
		"database.conn_max_lifetime":  config.Database.ConnMaxLifetime,
		"queue.horizon":               config.Queue.Horizon,
		"queue.off_duty_buffer":       config.Queue.OffDutyBuffer,
		"roster.timeout":              config.Roster.Timeout,
	}
	for name, value := range durations {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}

	if _, err := time.LoadLocation(config.Queue.TimeZone); err != nil {
		return fmt.Errorf("invalid queue.time_zone: %w", err)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// QueueHorizon returns the live queue window. Values are validated on load.
func (c *Config) QueueHorizon() time.Duration {
	d, _ := time.ParseDuration(c.Queue.Horizon)
	return d
}

// OffDutyBuffer returns how far in the past a closed duty session ends.
func (c *Config) OffDutyBuffer() time.Duration {
	d, _ := time.ParseDuration(c.Queue.OffDutyBuffer)
	return d
}

// AccessTokenTTL returns the JWT access token lifetime.
func (c *Config) AccessTokenTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.AccessTokenExpiration)
	return d
}

// RosterTimeout returns the HTTP timeout for roster lookups.
func (c *Config) RosterTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Roster.Timeout)
	return d
}

// Location returns the configured time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Queue.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
