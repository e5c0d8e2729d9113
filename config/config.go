// Package config loads server settings. Environment variables (including
// those from .env) beat the optional config file, which beats the defaults.
package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	Port     int            `mapstructure:"port"`
	Database DatabaseConfig `mapstructure:"database"`
	Uploads  UploadsConfig  `mapstructure:"uploads"`
	S3       S3Config       `mapstructure:"s3"`
	CORS     CORSConfig     `mapstructure:"cors"`
	UI       UIConfig       `mapstructure:"ui"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Log      LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// UploadsConfig selects where photos go. Backend is "local" or "s3".
type UploadsConfig struct {
	Backend  string `mapstructure:"backend"`
	Dir      string `mapstructure:"dir"`
	MaxBytes int64  `mapstructure:"max_bytes"`
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Prefix    string `mapstructure:"prefix"`
	PublicURL string `mapstructure:"public_url"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// UIConfig drives the HTML pages. An empty APIBase means the pages call the
// API on their own origin.
type UIConfig struct {
	APIBase     string `mapstructure:"api_base"`
	DefaultLang string `mapstructure:"default_lang"`
}

type WorkerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Interval    time.Duration `mapstructure:"interval"`
	BatchSize   int           `mapstructure:"batch_size"`
	Concurrency int           `mapstructure:"concurrency"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

var defaults = map[string]any{
	"port":                 8000,
	"database.driver":      "sqlite",
	"database.dsn":         "database.db",
	"uploads.backend":      BackendLocal,
	"uploads.dir":          "uploads",
	"uploads.max_bytes":    10 << 20,
	"s3.bucket":            "",
	"s3.region":            "us-east-1",
	"s3.prefix":            "",
	"s3.public_url":        "",
	"cors.allowed_origins": []string{"http://localhost:5173", "http://127.0.0.1:5173"},
	"ui.api_base":          "",
	"ui.default_lang":      "ja",
	"worker.enabled":       true,
	"worker.interval":      time.Minute,
	"worker.batch_size":    200,
	"worker.concurrency":   4,
	"log.level":            "info",
	"log.development":      false,
}

// Keys whose env var does not follow the KEY_PATH naming.
var envAliases = map[string]string{
	"database.dsn":    "DATABASE_URL",
	"database.driver": "DB_DRIVER",
}

// New returns a viper instance carrying the defaults and env bindings.
func New() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		_ = v.BindEnv(key, env)
	}
	return v
}

// Load reads .env (if present), then cfgFile (if set) and the environment.
func Load(cfgFile string) (*Config, error) {
	_ = godotenv.Load()

	v := New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return Decode(v)
}

// Decode unmarshals v into a Config and checks it.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	hooks := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			trimSpaces,
		)
	})
	if err := v.Unmarshal(&cfg, hooks); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// trimSpaces cleans list entries split from "a, b".
func trimSpaces(_, _ reflect.Type, data any) (any, error) {
	items, ok := data.([]string)
	if !ok {
		return data, nil
	}
	out := items[:0:0]
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	switch c.Uploads.Backend {
	case BackendLocal:
	case BackendS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("uploads.backend is s3 but s3.bucket is empty")
		}
	default:
		return fmt.Errorf("unknown uploads backend %q", c.Uploads.Backend)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
