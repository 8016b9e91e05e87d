package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config captures the runtime configuration for the frontend and the
// development catalog service. Values come from an optional YAML file with
// environment variables taking precedence.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Display  DisplayConfig  `yaml:"display"`
	Logging  LoggingConfig  `yaml:"logging"`
	Session  SessionConfig  `yaml:"session"`
	Database DatabaseConfig `yaml:"database"`
	AI       AIConfig       `yaml:"ai"`
}

// ServerConfig configures the HTTP listeners.
type ServerConfig struct {
	Addr        string `yaml:"addr" env:"SERVER_ADDR"`
	CatalogAddr string `yaml:"catalog_addr" env:"CATALOG_ADDR" env-default:":8081"`
}

// CatalogConfig points the frontend at the remote catalog service.
// An empty APIURL is not a load error: every view reports it instead.
type CatalogConfig struct {
	APIURL  string        `yaml:"api_url" env:"API_URL"`
	Timeout time.Duration `yaml:"timeout" env:"FETCH_TIMEOUT" env-default:"0s"`
}

// DisplayConfig controls how dates are rendered.
type DisplayConfig struct {
	Timezone   string `yaml:"timezone" env:"DISPLAY_TIMEZONE" env-default:"UTC"`
	DateLayout string `yaml:"date_layout" env:"DATE_LAYOUT" env-default:"1/2/2006"`
}

// Location resolves Timezone, falling back to UTC. Load has already
// rejected unknown zones.
func (d DisplayConfig) Location() *time.Location {
	loc, err := time.LoadLocation(firstNonEmpty(d.Timezone, "UTC"))
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// SessionConfig controls the session cookie.
type SessionConfig struct {
	Lifetime     time.Duration `yaml:"lifetime" env:"SESSION_LIFETIME" env-default:"12h"`
	CookieName   string        `yaml:"cookie_name" env:"SESSION_COOKIE_NAME" env-default:"formulary_session"`
	CookieDomain string        `yaml:"cookie_domain" env:"SESSION_COOKIE_DOMAIN"`
	CookieSecure Flag          `yaml:"cookie_secure" env:"SESSION_COOKIE_SECURE" env-default:"false"`
}

// DatabaseConfig contains the development catalog database settings.
type DatabaseConfig struct {
	URL             string        `yaml:"-" env:"DATABASE_URL"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DATABASE_MAX_IDLE_CONNS"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"DATABASE_MAX_OPEN_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DATABASE_CONN_MAX_LIFETIME"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" env:"DATABASE_CONN_MAX_IDLE_TIME"`
	UseMock         Flag          `yaml:"use_mock" env:"DATABASE_USE_MOCK" env-default:"false"`
}

// AIConfig configures the verbalization model.
type AIConfig struct {
	APIKey  string        `yaml:"-" env:"OPENAI_API_KEY"`
	Model   string        `yaml:"model" env:"OPENAI_MODEL"`
	BaseURL string        `yaml:"base_url" env:"OPENAI_BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"OPENAI_TIMEOUT" env-default:"90s"`
}

// Flag is a boolean setting. An empty value, such as an exported but blank
// environment variable, reads as false.
type Flag bool

// UnmarshalText parses the strconv.ParseBool forms and the empty string.
func (f *Flag) UnmarshalText(text []byte) error {
	value := strings.TrimSpace(string(text))
	if value == "" {
		*f = false
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	*f = Flag(parsed)
	return nil
}

// Load builds a Config from the environment, reading path first when it is
// not empty.
func Load(path string) (Config, error) {
	cfg := Config{}

	if strings.TrimSpace(path) != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	cfg.Server.Addr = firstNonEmpty(cfg.Server.Addr, os.Getenv("ADDR"), ":8080")
	cfg.Database.URL = firstNonEmpty(cfg.Database.URL, os.Getenv("DB_URL"))
	cfg.Catalog.APIURL = strings.TrimSpace(cfg.Catalog.APIURL)

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("server address must not be empty")
	}
	if cfg.Catalog.Timeout < 0 {
		return Config{}, fmt.Errorf("fetch timeout must not be negative")
	}

	if _, err := time.LoadLocation(firstNonEmpty(cfg.Display.Timezone, "UTC")); err != nil {
		return Config{}, fmt.Errorf("display timezone: %w", err)
	}

	return cfg, nil
}

// Usage returns a description of the recognised environment variables.
func Usage() string {
	text, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return text
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
