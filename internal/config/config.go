package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/equilix/equilix/internal/ports"
)

// Config represents application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Proposal ProposalConfig
	Redis    RedisConfig
	Logging  LoggingConfig
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Environment  string
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MaxConnections int
	ConnectTimeout time.Duration
}

// RedisConfig represents Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// ProposalConfig represents test proposal source configuration
type ProposalConfig struct {
	Provider    string
	APIKey      string
	Model       string
	TimeoutMs   int
	EnableCache bool
	CacheTTLMin int
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			Environment:  getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnvInt("DB_PORT", 5432),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", ""),
			DBName:         getEnv("DB_NAME", "equilix"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxConnections: getEnvInt("DB_MAX_CONNECTIONS", 20),
			ConnectTimeout: getEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
		},
		Proposal: ProposalConfig{
			Provider:    getEnv("PROPOSAL_PROVIDER", "mock"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Model:       getEnv("PROPOSAL_MODEL", "gpt-4o-mini"),
			TimeoutMs:   getEnvInt("PROPOSAL_TIMEOUT_MS", 15000),
			EnableCache: getEnvBool("PROPOSAL_ENABLE_CACHE", false),
			CacheTTLMin: getEnvInt("PROPOSAL_CACHE_TTL_MIN", 60),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Proposal.Provider == "openai" && c.Proposal.APIKey == "" && c.Server.Environment == "production" {
		return fmt.Errorf("OPENAI_API_KEY is required for the openai provider in production")
	}
	return nil
}

// GetDatabaseURL returns the database connection string
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// ToProposalConfig converts the proposal section to the ports contract
func (c *Config) ToProposalConfig() ports.ProposalConfig {
	return ports.ProposalConfig{
		Provider:    c.Proposal.Provider,
		APIKey:      c.Proposal.APIKey,
		Model:       c.Proposal.Model,
		TimeoutMs:   c.Proposal.TimeoutMs,
		EnableCache: c.Proposal.EnableCache,
		CacheTTLMin: c.Proposal.CacheTTLMin,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
