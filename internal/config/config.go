package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort      string
	DBDriver        string
	DatabaseDSN     string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BcryptCost      int
	ProfileCacheTTL time.Duration
	AllowedOrigins  string
	SwaggerHost     string
	ResetDB         bool
}

const defaultMySQLDSN = "user:password@tcp(localhost:3306)/aits?charset=utf8mb4&parseTime=True&loc=Local"

// Load builds Config from environment with sensible defaults.
// A local .env file is honoured when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		DBDriver:        getEnv("DB_DRIVER", "mysql"),
		DatabaseDSN:     getEnv("DATABASE_DSN", defaultMySQLDSN),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		RedisPass:       os.Getenv("REDIS_PASSWORD"),
		JWTSecret:       getEnv("JWT_SECRET", "change-me"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		BcryptCost:      getEnvInt("BCRYPT_COST", 10),
		ProfileCacheTTL: getEnvDuration("PROFILE_CACHE_TTL", 5*time.Minute),
		AllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "*"),
		SwaggerHost:     os.Getenv("SWAGGER_HOST"),
		ResetDB:         os.Getenv("RESET_DB") == "true",
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}
