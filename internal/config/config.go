package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Session SessionConfig `mapstructure:"session"`
	OIDC    OIDCConfig    `mapstructure:"oidc"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Log     LogConfig     `mapstructure:"log"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Notion  NotionConfig  `mapstructure:"notion"`
	Site    SiteConfig    `mapstructure:"site"`
	CORS    CORSConfig    `mapstructure:"cors"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port    string    `mapstructure:"port"`
	BaseURL string    `mapstructure:"base_url"` // public origin used in sitemap and canonical links
	TLS     TLSConfig `mapstructure:"tls"`
}

// TLSConfig holds TLS-specific configuration.
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

// DBConfig holds database-specific configuration.
type DBConfig struct {
	Driver string `mapstructure:"driver"` // "mysql" or "sqlite"
	DSN    string `mapstructure:"dsn"`
}

// SessionConfig holds session-specific configuration.
type SessionConfig struct {
	Lifetime int `mapstructure:"lifetime"` // hours
}

// OIDCConfig holds OIDC client configuration.
type OIDCConfig struct {
	IssuerURL    string `mapstructure:"issuer_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// Enabled reports whether an identity provider has been configured.
func (c OIDCConfig) Enabled() bool {
	return c.IssuerURL != "" && c.ClientID != ""
}

// AuthConfig lists the identities granted the staff role on startup.
type AuthConfig struct {
	Admins []string `mapstructure:"admins"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // e.g., "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // e.g., "json", "console"
}

// CacheConfig holds the SQLite response cache configuration.
type CacheConfig struct {
	FilePath string        `mapstructure:"file_path"`
	TTL      time.Duration `mapstructure:"ttl"` // zero disables caching of post listings
}

// NotionConfig holds the content database credentials and fetch tuning.
type NotionConfig struct {
	Token             string  `mapstructure:"token"`
	DatabaseID        string  `mapstructure:"database_id"`
	PageSize          int     `mapstructure:"page_size"`
	Concurrency       int     `mapstructure:"concurrency"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// Locale pairs a URL segment with the BCP 47 tag used for language matching.
type Locale struct {
	Code string `mapstructure:"code"` // e.g. "hk"
	Tag  string `mapstructure:"tag"`  // e.g. "zh-HK"
}

// SiteConfig holds the locale layout of the site.
type SiteConfig struct {
	Locales        []Locale `mapstructure:"locales"`
	DefaultLocale  string   `mapstructure:"default_locale"`
	FallbackLocale string   `mapstructure:"fallback_locale"`
}

// Codes returns the configured locale codes in declaration order.
func (c SiteConfig) Codes() []string {
	codes := make([]string, len(c.Locales))
	for i, l := range c.Locales {
		codes[i] = l.Code
	}
	return codes
}

// CORSConfig holds the origins allowed to post to the JSON API.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "site.db")
	v.SetDefault("session.lifetime", 24*30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("cache.file_path", "cache.db")
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("notion.page_size", 100)
	v.SetDefault("notion.concurrency", 4)
	v.SetDefault("notion.requests_per_second", 3)
	v.SetDefault("site.locales", []map[string]string{
		{"code": "en", "tag": "en"},
		{"code": "hk", "tag": "zh-HK"},
		{"code": "tw", "tag": "zh-TW"},
	})
	v.SetDefault("site.default_locale", "en")
	v.SetDefault("site.fallback_locale", "en")
	v.SetDefault("cors.allowed_origins", []string{"*"})

	// Set up viper to read from config file
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/marketing-site/")
	v.AddConfigPath("$HOME/.marketing-site")

	// Attempt to read the config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return nil, err
		}
		// Config file not found; proceed with defaults and env vars
	}

	// Set up viper to read from environment variables
	v.SetEnvPrefix("SITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal the config into the Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
