package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendCassandra = "cassandra"
	BackendSQLite    = "sqlite"
)

// Config is the explicit configuration object passed to component
// constructors at composition time; nothing reads the environment after
// Load returns.
type Config struct {
	Env  string
	Host string
	Port int

	StoreBackend string
	SQLiteDSN    string

	CassandraHosts       []string
	CassandraPort        int
	CassandraKeyspace    string
	CassandraConsistency string
	CassandraTimeout     time.Duration

	CORSOrigins []string
	LogLevel    string

	DefaultPageSize  int
	MaxPageSize      int
	MaxContentLength int
}

// Load reads configuration from the environment with sane local-dev
// defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8000)
	v.SetDefault("STORE_BACKEND", BackendCassandra)
	v.SetDefault("SQLITE_DSN", "file:messenger.db")
	v.SetDefault("CASSANDRA_HOSTS", "localhost")
	v.SetDefault("CASSANDRA_PORT", 9042)
	v.SetDefault("CASSANDRA_KEYSPACE", "messenger")
	v.SetDefault("CASSANDRA_CONSISTENCY", "QUORUM")
	v.SetDefault("CASSANDRA_TIMEOUT_MS", 5000)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DEFAULT_PAGE_SIZE", 20)
	v.SetDefault("MAX_PAGE_SIZE", 100)
	v.SetDefault("MAX_CONTENT_LENGTH", 5000)

	cfg := &Config{
		Env:  v.GetString("APP_ENV"),
		Host: v.GetString("HTTP_HOST"),
		Port: v.GetInt("HTTP_PORT"),

		StoreBackend: v.GetString("STORE_BACKEND"),
		SQLiteDSN:    v.GetString("SQLITE_DSN"),

		CassandraHosts:       splitList(v.GetString("CASSANDRA_HOSTS")),
		CassandraPort:        v.GetInt("CASSANDRA_PORT"),
		CassandraKeyspace:    v.GetString("CASSANDRA_KEYSPACE"),
		CassandraConsistency: v.GetString("CASSANDRA_CONSISTENCY"),
		CassandraTimeout:     time.Duration(v.GetInt("CASSANDRA_TIMEOUT_MS")) * time.Millisecond,

		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		LogLevel:    v.GetString("LOG_LEVEL"),

		DefaultPageSize:  v.GetInt("DEFAULT_PAGE_SIZE"),
		MaxPageSize:      v.GetInt("MAX_PAGE_SIZE"),
		MaxContentLength: v.GetInt("MAX_CONTENT_LENGTH"),
	}

	switch cfg.StoreBackend {
	case BackendCassandra, BackendSQLite:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg, nil
}

// Development reports whether the process runs in development mode.
func (c *Config) Development() bool {
	return c.Env == "development"
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
