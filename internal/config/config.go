package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"gopkg.in/yaml.v3"
)

const envPrefix = "ADMINQL_"

type Config struct {
	// Addr is the listen address of serve
	Addr string   `yaml:"addr"`
	DB   DBConfig `yaml:"db"`
	// LogQueries logs every statement
	LogQueries bool `yaml:"logQueries"`
	// SlowQuery logs statements slower than it, 0 disables
	SlowQuery time.Duration `yaml:"slowQuery"`
	Tracing   Tracing       `yaml:"tracing"`
}

type DBConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type Tracing struct {
	// Exporter is "", "jaeger" or "zipkin"
	Exporter    string `yaml:"exporter"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"serviceName"`
}

func Default() Config {
	return Config{
		Addr: ":8080",
		DB: DBConfig{
			Driver: "sqlite3",
			DSN:    "file:adminql?mode=memory&cache=shared",
		},
		Tracing: Tracing{
			ServiceName: "adminql",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies the
// ADMINQL_* environment variables. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Addr = getenv("ADDR", c.Addr)
	c.DB.Driver = getenv("DB_DRIVER", c.DB.Driver)
	c.DB.DSN = getenv("DB_DSN", c.DB.DSN)
	c.Tracing.Exporter = getenv("TRACING_EXPORTER", c.Tracing.Exporter)
	c.Tracing.Endpoint = getenv("TRACING_ENDPOINT", c.Tracing.Endpoint)
	c.Tracing.ServiceName = getenv("TRACING_SERVICE_NAME", c.Tracing.ServiceName)
	if v := getenv("LOG_QUERIES", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %sLOG_QUERIES: %w", envPrefix, err)
		}
		c.LogQueries = b
	}
	if v := getenv("SLOW_QUERY", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %sSLOW_QUERY: %w", envPrefix, err)
		}
		c.SlowQuery = d
	}
	return nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(envPrefix + key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

// Validate checks the driver name and that the DSN parses for it.
func (c Config) Validate() error {
	switch c.DB.Driver {
	case "mysql":
		if _, err := mysql.ParseDSN(c.DB.DSN); err != nil {
			return fmt.Errorf("config: mysql dsn: %w", err)
		}
	case "postgres":
		if strings.HasPrefix(c.DB.DSN, "postgres://") || strings.HasPrefix(c.DB.DSN, "postgresql://") {
			if _, err := pq.ParseURL(c.DB.DSN); err != nil {
				return fmt.Errorf("config: postgres dsn: %w", err)
			}
		}
	case "sqlite3":
		if c.DB.DSN == "" {
			return fmt.Errorf("config: sqlite3 dsn is empty")
		}
	default:
		return fmt.Errorf("config: unsupported driver %q", c.DB.Driver)
	}
	switch c.Tracing.Exporter {
	case "":
	case "jaeger", "zipkin":
		if c.Tracing.Endpoint == "" {
			return fmt.Errorf("config: %s exporter needs an endpoint", c.Tracing.Exporter)
		}
	default:
		return fmt.Errorf("config: unsupported tracing exporter %q", c.Tracing.Exporter)
	}
	return nil
}
