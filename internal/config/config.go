// Package config loads and validates pipeline configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs, loaded from an optional YAML file
// and RADOVI_* environment variables.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Site    SiteConfig    `mapstructure:"site"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	DB      DBConfig      `mapstructure:"db"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// AppConfig carries the deployment designation.
type AppConfig struct {
	Env string `mapstructure:"env"`
}

// SiteConfig describes the target listing site.
type SiteConfig struct {
	Origin      string `mapstructure:"origin"`
	ListingPath string `mapstructure:"listing_path"`
	UserAgent   string `mapstructure:"user_agent"`
	Referer     string `mapstructure:"referer"`
	MaxPages    int    `mapstructure:"max_pages"`
}

// HTTPConfig configures per-request fetch timeouts.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// DBConfig controls access to the Postgres record store.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ServerConfig controls the HTTP trigger server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from an optional file path plus the environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RADOVI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("site.origin", "https://stup.ferit.hr")
	v.SetDefault("site.listing_path", "/zavrsni-radovi/")
	v.SetDefault("site.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/123 Safari/537.36")
	v.SetDefault("site.referer", "https://stup.ferit.hr/")
	v.SetDefault("site.max_pages", 6)
	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("db.host", "127.0.0.1")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "radovi")
	v.SetDefault("db.user", "postgres")
	// Registered empty so the RADOVI_DB_PASSWORD env var is picked up.
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values before any network or database activity.
func (c Config) Validate() error {
	if c.Site.Origin == "" {
		return fmt.Errorf("site.origin must be set")
	}
	if c.Site.MaxPages <= 0 {
		return fmt.Errorf("site.max_pages must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.App.Env == "production" && c.DB.Password == "" {
		return fmt.Errorf("db.password must be set when app.env is production")
	}
	return nil
}

// FetchTimeout returns the per-request fetch timeout as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// DSN assembles the pgx connection string for the record store.
func (c DBConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Name,
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else {
		u.User = url.User(c.User)
	}
	if c.SSLMode != "" {
		q := url.Values{}
		q.Set("sslmode", c.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}
