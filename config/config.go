package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port                string
	BindAddress         string
	DBHost              string
	DBPort              string
	DBUser              string
	DBPassword          string
	DBName              string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	JWTSecret           string
	TokenTTL            time.Duration
	LogLevel            string
	LogFormat           string
	AllowedOrigins      []string
	LeaderboardTimezone string
	LeaderboardCacheTTL time.Duration
	GameSeed            uint64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using process environment")
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		BindAddress:         getEnv("BIND_ADDRESS", "localhost"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              getEnv("DB_USER", "numberhunt"),
		DBPassword:          getEnv("DB_PASSWORD", "numberhunt123"),
		DBName:              getEnv("DB_NAME", "numberhunt"),
		RedisHost:           getEnv("REDIS_HOST", "localhost"),
		RedisPort:           getEnv("REDIS_PORT", "6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		JWTSecret:           getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		TokenTTL:            getDuration("TOKEN_TTL", 7*24*time.Hour),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "console"),
		AllowedOrigins:      splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		LeaderboardTimezone: getEnv("LEADERBOARD_TIMEZONE", "UTC"),
		LeaderboardCacheTTL: getDuration("LEADERBOARD_CACHE_TTL", 5*time.Minute),
		GameSeed:            getSeed("GAME_SEED"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration accepts Go duration strings ("90s", "2h") or a plain number of seconds.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Warn().Str("key", key).Str("value", raw).Msg("invalid duration, using default")
	return defaultValue
}

// getSeed reads a fixed randomness seed. Unset or invalid means 0, which selects the
// runtime's global source.
func getSeed(key string) uint64 {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	seed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid seed, using unseeded randomness")
		return 0
	}
	return seed
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Location resolves the leaderboard reference clock. Unknown zones fall back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.LeaderboardTimezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", c.LeaderboardTimezone).Msg("unknown leaderboard timezone, using UTC")
		return time.UTC
	}
	return loc
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func InitRedis(cfg *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       0,
	})

	return client
}
