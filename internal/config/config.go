package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the infra manager.
// It is built once at startup and handed to each adapter constructor.
type Config struct {
	// HTTP listener
	HTTPHost string `env:"HTTP_HOST" validate:"required"`
	HTTPPort string `env:"HTTP_PORT" validate:"required,numeric"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat string `env:"LOG_FORMAT" validate:"oneof=json console"`

	// Containers listed by GET /services must carry this name prefix
	ContainerPrefix string `env:"CONTAINER_PREFIX" validate:"required"`

	// .env file the values were loaded from; empty when only the environment was used
	EnvFile string

	Postgres PostgresConfig
	Redis    RedisConfig
	Minio    MinioConfig
	Qdrant   QdrantConfig
	MongoDB  MongoDBConfig
}

type PostgresConfig struct {
	Host         string  `env:"POSTGRES_HOST" validate:"required"`
	Port         int     `env:"POSTGRES_PORT" validate:"min=1,max=65535"`
	User         string  `env:"POSTGRES_USER" validate:"required"`
	Password     string  `env:"POSTGRES_PASSWORD"`
	DefaultDB    string  `env:"POSTGRES_DEFAULT_DB" validate:"required"`
	ProtectedDBs NameSet `env:"POSTGRES_PROTECTED_DBS"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" validate:"required"`
	Port     int    `env:"REDIS_PORT" validate:"min=1,max=65535"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" validate:"min=0"`
}

type MinioConfig struct {
	Endpoint         string  `env:"MINIO_ENDPOINT" validate:"required,url"`
	ConsoleURL       string  `env:"MINIO_CONSOLE_URL" validate:"omitempty,url"`
	AccessKey        string  `env:"MINIO_ACCESS_KEY" validate:"required"`
	SecretKey        string  `env:"MINIO_SECRET_KEY" validate:"required"`
	ProtectedBuckets NameSet `env:"MINIO_PROTECTED_BUCKETS"`
}

type QdrantConfig struct {
	Host         string `env:"QDRANT_HOST" validate:"required"`
	RESTPort     int    `env:"QDRANT_REST_PORT" validate:"min=1,max=65535"`
	GRPCPort     int    `env:"QDRANT_GRPC_PORT" validate:"min=1,max=65535"`
	DashboardURL string `env:"QDRANT_DASHBOARD_URL" validate:"omitempty,url"`
	APIKey       string `env:"QDRANT_API_KEY"`
}

type MongoDBConfig struct {
	Host         string  `env:"MONGODB_HOST" validate:"required"`
	Port         int     `env:"MONGODB_PORT" validate:"min=1,max=65535"`
	User         string  `env:"MONGODB_USER"`
	Password     string  `env:"MONGODB_PASSWORD"`
	AuthSource   string  `env:"MONGODB_AUTH_SOURCE"`
	ProtectedDBs NameSet `env:"MONGODB_PROTECTED_DBS"`
}

// System catalogs that can never be dropped, whatever the environment says.
var (
	postgresSystemDBs = []string{"postgres", "template0", "template1"}
	mongoSystemDBs    = []string{"admin", "config", "local"}
)

var validate = newValidator()

// newValidator reports fields by their environment variable name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("env")
	})
	return v
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	// Try multiple .env locations
	envPaths := []string{
		".env",
		"../.env",
		"/app/.env", // Docker
	}

	envFile := ""
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			envFile = path
			break
		}
	}

	config, err := FromEnv()
	if err != nil {
		return nil, err
	}
	config.EnvFile = envFile

	return config, nil
}

// FromEnv builds the configuration from the current process environment only.
func FromEnv() (*Config, error) {
	config := &Config{
		HTTPHost: getEnvOrDefault("HTTP_HOST", "0.0.0.0"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8888"),

		LogLevel:  strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json")),

		ContainerPrefix: getEnvOrDefault("CONTAINER_PREFIX", "infra-"),

		Postgres: PostgresConfig{
			Host:      getEnvOrDefault("POSTGRES_HOST", "127.0.0.1"),
			Port:      parseIntOrDefault("POSTGRES_PORT", 54321),
			User:      getEnvOrDefault("POSTGRES_USER", "admin"),
			Password:  getEnvOrDefault("POSTGRES_PASSWORD", "password"),
			DefaultDB: getEnvOrDefault("POSTGRES_DEFAULT_DB", "main_db"),
			ProtectedDBs: NewNameSet(postgresSystemDBs...).
				Union(ParseNameSet(os.Getenv("POSTGRES_PROTECTED_DBS"))),
		},

		Redis: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "127.0.0.1"),
			Port:     parseIntOrDefault("REDIS_PORT", 63791),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       parseIntOrDefault("REDIS_DB", 0),
		},

		Minio: MinioConfig{
			Endpoint:   getEnvOrDefault("MINIO_ENDPOINT", "http://127.0.0.1:9000"),
			ConsoleURL: getEnvOrDefault("MINIO_CONSOLE_URL", "http://127.0.0.1:9001"),
			AccessKey:  getEnvOrDefault("MINIO_ACCESS_KEY", "admin"),
			SecretKey:  getEnvOrDefault("MINIO_SECRET_KEY", "password123"),

			// No system buckets; empty unless the deployment names some
			ProtectedBuckets: ParseNameSet(os.Getenv("MINIO_PROTECTED_BUCKETS")),
		},

		Qdrant: QdrantConfig{
			Host:         getEnvOrDefault("QDRANT_HOST", "127.0.0.1"),
			RESTPort:     parseIntOrDefault("QDRANT_REST_PORT", 6333),
			GRPCPort:     parseIntOrDefault("QDRANT_GRPC_PORT", 6334),
			DashboardURL: getEnvOrDefault("QDRANT_DASHBOARD_URL", "http://127.0.0.1:6333/dashboard"),
			APIKey:       os.Getenv("QDRANT_API_KEY"),
		},

		MongoDB: MongoDBConfig{
			Host:       getEnvOrDefault("MONGODB_HOST", "127.0.0.1"),
			Port:       parseIntOrDefault("MONGODB_PORT", 27018),
			User:       getEnvOrDefault("MONGODB_USER", "admin"),
			Password:   getEnvOrDefault("MONGODB_PASSWORD", "password"),
			AuthSource: getEnvOrDefault("MONGODB_AUTH_SOURCE", "admin"),
			ProtectedDBs: NewNameSet(mongoSystemDBs...).
				Union(ParseNameSet(os.Getenv("MONGODB_PROTECTED_DBS"))),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that required configuration is present and well formed.
// Errors name the environment variable that needs fixing.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%s is invalid (%s)", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	for _, name := range postgresSystemDBs {
		if !c.Postgres.ProtectedDBs.Contains(name) {
			return fmt.Errorf("POSTGRES_PROTECTED_DBS must include system database %q", name)
		}
	}
	for _, name := range mongoSystemDBs {
		if !c.MongoDB.ProtectedDBs.Contains(name) {
			return fmt.Errorf("MONGODB_PROTECTED_DBS must include system database %q", name)
		}
	}

	return nil
}

// ListenAddr is the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.HTTPHost, c.HTTPPort)
}

// Helper functions
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
