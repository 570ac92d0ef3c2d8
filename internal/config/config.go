package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"movie-nexus-api/internal/validation"
)

// ConfigPathEnvVar names the env var pointing at an optional YAML config file.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPath is used when CONFIG_PATH is unset.
const DefaultConfigPath = "config.yaml"

// Config holds all configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	DB        DBConfig        `koanf:"db"`
	Redis     RedisConfig     `koanf:"redis"`
	Cache     CacheConfig     `koanf:"cache"`
	Auth      AuthConfig      `koanf:"auth"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Log       LogConfig       `koanf:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `koanf:"port" validate:"required,numeric"`
	AppName         string        `koanf:"app_name"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	SwaggerPath     string        `koanf:"swagger_path"`
}

// DBConfig holds PostgreSQL configuration.
type DBConfig struct {
	Host         string `koanf:"host" validate:"required"`
	Port         int    `koanf:"port" validate:"gt=0,lte=65535"`
	User         string `koanf:"user" validate:"required"`
	Password     string `koanf:"password"`
	Name         string `koanf:"name" validate:"required"`
	SSLMode      string `koanf:"sslmode" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	SSLRootCert  string `koanf:"sslrootcert"`
	MaxOpenConns int    `koanf:"max_open_conns" validate:"gt=0"`
	MaxIdleConns int    `koanf:"max_idle_conns" validate:"gte=0"`
}

// DSN returns the PostgreSQL connection string.
func (d DBConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
	if d.SSLRootCert != "" {
		dsn += fmt.Sprintf(" sslrootcert=%s", d.SSLRootCert)
	}
	return dsn
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Addr      string        `koanf:"addr" validate:"required_if=Enabled true"`
	Password  string        `koanf:"password"`
	DB        int           `koanf:"db" validate:"gte=0"`
	OpTimeout time.Duration `koanf:"op_timeout" validate:"gt=0"`
}

// CacheConfig holds the TTL of every cached read path.
type CacheConfig struct {
	RecommendationsTTL time.Duration `koanf:"recommendations_ttl" validate:"gt=0"`
	SimilarTTL         time.Duration `koanf:"similar_ttl" validate:"gt=0"`
	TrendingTTL        time.Duration `koanf:"trending_ttl" validate:"gt=0"`
	StatsTTL           time.Duration `koanf:"stats_ttl" validate:"gt=0"`
	DetailTTL          time.Duration `koanf:"detail_ttl" validate:"gt=0"`
	ListTTL            time.Duration `koanf:"list_ttl" validate:"gt=0"`
	MatchScoreTTL      time.Duration `koanf:"match_score_ttl" validate:"gt=0"`
	// LocalTTL bounds how long the in-process tier may serve an entry another node invalidated.
	LocalTTL  time.Duration `koanf:"local_ttl" validate:"gt=0"`
	LocalSize int           `koanf:"local_size" validate:"gt=0"`
}

// AuthConfig holds bearer-token verification settings.
type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret" validate:"required,min=8"`
	Issuer    string `koanf:"issuer"`
}

// RateLimitConfig holds the per-IP request budget.
type RateLimitConfig struct {
	Enabled   bool `koanf:"enabled"`
	Max       int  `koanf:"max" validate:"gt=0"`
	WindowSec int  `koanf:"window_sec" validate:"gt=0"`
}

// TMDBConfig holds TMDB API configuration.
type TMDBConfig struct {
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			AppName:         "Movie Nexus API",
			ShutdownTimeout: 10 * time.Second,
			SwaggerPath:     "docs/swagger.yaml",
		},
		DB: DBConfig{
			Host:         "localhost",
			Port:         5432,
			User:         "postgres",
			Password:     "postgres",
			Name:         "movie_nexus",
			SSLMode:      "disable",
			MaxOpenConns: 25,
			MaxIdleConns: 10,
		},
		Redis: RedisConfig{
			Enabled:   true,
			Addr:      "127.0.0.1:6379",
			OpTimeout: 200 * time.Millisecond,
		},
		Cache: CacheConfig{
			RecommendationsTTL: 15 * time.Minute,
			SimilarTTL:         24 * time.Hour,
			TrendingTTL:        time.Hour,
			StatsTTL:           15 * time.Minute,
			DetailTTL:          30 * time.Minute,
			ListTTL:            5 * time.Minute,
			MatchScoreTTL:      15 * time.Minute,
			LocalTTL:           30 * time.Second,
			LocalSize:          10000,
		},
		Auth: AuthConfig{
			JWTSecret: "dev-secret-change-me",
		},
		RateLimit: RateLimitConfig{
			Enabled:   true,
			Max:       100,
			WindowSec: 60,
		},
		TMDB: TMDBConfig{
			BaseURL: "https://api.themoviedb.org/3",
			Timeout: 15 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration in layers: defaults, then an optional YAML file,
// then environment variables (a .env file is loaded into the environment first).
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validation.Struct(c)
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if _, err := os.Stat(DefaultConfigPath); err == nil {
		return DefaultConfigPath
	}
	return ""
}

// envAliases maps env names that do not follow the SECTION_FIELD shape.
var envAliases = map[string]string{
	"db_name":     "db.name",
	"server_port": "server.port",
	"jwt_secret":  "auth.jwt_secret",
	"jwt_issuer":  "auth.issuer",
}

// envSections maps env prefixes to config sections. Longer prefixes come first.
var envSections = []struct{ prefix, section string }{
	{"rate_limit_", "rate_limit"},
	{"server_", "server"},
	{"db_", "db"},
	{"redis_", "redis"},
	{"cache_", "cache"},
	{"auth_", "auth"},
	{"tmdb_", "tmdb"},
	{"log_", "log"},
}

// envTransformFunc turns DB_HOST into db.host and CACHE_SIMILAR_TTL into cache.similar_ttl.
// Unrelated variables map to "" and are skipped.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	if path, ok := envAliases[key]; ok {
		return path
	}
	for _, s := range envSections {
		if rest, ok := strings.CutPrefix(key, s.prefix); ok && rest != "" {
			return s.section + "." + rest
		}
	}
	return ""
}
