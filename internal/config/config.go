package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting the server needs, loaded from
// environment variables with sensible defaults for local development.
type Config struct {
	AppPort string

	DatabaseURL string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	GoogleClientID  string
	YouTubeAPIKey   string

	CacheBackend string // "memory" or "redis"
	RedisAddr    string
	RedisDB      int

	AMQPURL string // empty disables event publishing

	UploadDir     string
	UploadBaseURL string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment via Viper.
func Load() *Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_URL", "host=localhost user=mixtape password=mixtape dbname=mixtape port=5432 sslmode=disable")
	viper.SetDefault("JWT_SECRET", "change-me-in-production")
	viper.SetDefault("ACCESS_TOKEN_TTL", "168h")  // 7 days
	viper.SetDefault("REFRESH_TOKEN_TTL", "720h") // 30 days
	viper.SetDefault("CACHE_BACKEND", "memory")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("UPLOAD_BASE_URL", "/uploads")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.AutomaticEnv()

	return &Config{
		AppPort:         viper.GetString("APP_PORT"),
		DatabaseURL:     viper.GetString("DATABASE_URL"),
		JWTSecret:       viper.GetString("JWT_SECRET"),
		AccessTokenTTL:  viper.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL: viper.GetDuration("REFRESH_TOKEN_TTL"),
		GoogleClientID:  viper.GetString("GOOGLE_CLIENT_ID"),
		YouTubeAPIKey:   viper.GetString("YOUTUBE_API_KEY"),
		CacheBackend:    viper.GetString("CACHE_BACKEND"),
		RedisAddr:       viper.GetString("REDIS_ADDR"),
		RedisDB:         viper.GetInt("REDIS_DB"),
		AMQPURL:         viper.GetString("AMQP_URL"),
		UploadDir:       viper.GetString("UPLOAD_DIR"),
		UploadBaseURL:   viper.GetString("UPLOAD_BASE_URL"),
		LogLevel:        viper.GetString("LOG_LEVEL"),
		LogFormat:       viper.GetString("LOG_FORMAT"),
	}
}
