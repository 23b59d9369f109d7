package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Draft storage backends understood by the guide CLI.
const (
	DraftBackendFile     = "file"
	DraftBackendRedis    = "redis"
	DraftBackendPostgres = "postgres"
)

// DefaultAPIURL is used when GUIDE_API_URL is not set.
const DefaultAPIURL = "http://localhost:8000"

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Render   RenderConfig
	Guide    GuideConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// RenderConfig configures the PDF rendering service.
type RenderConfig struct {
	StorageDir       string
	FileTTL          time.Duration
	CleanupInterval  time.Duration
	SignedURLSecret  string
	SignedURLTTL     time.Duration
	MaxSectionLength int
}

// GuideConfig configures the authoring workflow client.
type GuideConfig struct {
	APIURL           string
	StorageKey       string
	DraftBackend     string
	DraftDir         string
	RestoredDuration time.Duration
	ExampleFile      string
	RequestTimeout   time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	maxSection := v.GetInt("RENDER_MAX_SECTION_LENGTH")
	if maxSection <= 0 {
		maxSection = 20000
	}
	cfg.Render = RenderConfig{
		StorageDir:       v.GetString("RENDER_STORAGE_DIR"),
		FileTTL:          parseDuration(v.GetString("RENDER_FILE_TTL"), 24*time.Hour),
		CleanupInterval:  parseDuration(v.GetString("RENDER_CLEANUP_INTERVAL"), time.Hour),
		SignedURLSecret:  v.GetString("RENDER_SIGNED_URL_SECRET"),
		SignedURLTTL:     parseDuration(v.GetString("RENDER_SIGNED_URL_TTL"), 24*time.Hour),
		MaxSectionLength: maxSection,
	}

	cfg.Guide = GuideConfig{
		APIURL:           NormalizeBaseURL(v.GetString("GUIDE_API_URL")),
		StorageKey:       v.GetString("GUIDE_STORAGE_KEY"),
		DraftBackend:     strings.ToLower(strings.TrimSpace(v.GetString("GUIDE_DRAFT_BACKEND"))),
		DraftDir:         v.GetString("GUIDE_DRAFT_DIR"),
		RestoredDuration: parseDuration(v.GetString("GUIDE_RESTORED_DURATION"), 3*time.Second),
		ExampleFile:      v.GetString("GUIDE_EXAMPLE_FILE"),
		RequestTimeout:   parseDuration(v.GetString("GUIDE_REQUEST_TIMEOUT"), 30*time.Second),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8000)
	v.SetDefault("API_PREFIX", "/api/research")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "research_guide")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("RENDER_STORAGE_DIR", "./documents")
	v.SetDefault("RENDER_FILE_TTL", "24h")
	v.SetDefault("RENDER_CLEANUP_INTERVAL", "1h")
	v.SetDefault("RENDER_SIGNED_URL_SECRET", "")
	v.SetDefault("RENDER_SIGNED_URL_TTL", "24h")
	v.SetDefault("RENDER_MAX_SECTION_LENGTH", 20000)

	v.SetDefault("GUIDE_API_URL", DefaultAPIURL)
	v.SetDefault("GUIDE_STORAGE_KEY", "research-guide-v1")
	v.SetDefault("GUIDE_DRAFT_BACKEND", DraftBackendFile)
	v.SetDefault("GUIDE_DRAFT_DIR", "./.research-guide")
	v.SetDefault("GUIDE_RESTORED_DURATION", "3s")
	v.SetDefault("GUIDE_EXAMPLE_FILE", "")
	v.SetDefault("GUIDE_REQUEST_TIMEOUT", "30s")
}

// NormalizeBaseURL applies the local fallback and strips trailing slashes.
func NormalizeBaseURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultAPIURL
	}
	return strings.TrimRight(trimmed, "/")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

