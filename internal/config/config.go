package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// postgres; an empty DBName runs the API on in-memory stores
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// redis; an empty RedisHost disables caching, rate limiting and the shared denylist
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	RedisPoolSize    int
	RedisPingTimeout time.Duration

	JWTSecret     string
	JWTIssuer     string
	TokenDuration time.Duration

	// logging
	LogLevel    string
	LogFile     string
	LogToStdout bool
	LogJSON     bool

	AllowedOrigins  []string
	RateLimit       int
	RateLimitWindow time.Duration

	SummaryDelay time.Duration
	SummaryTTL   time.Duration

	// Location decides what "today" is for every user.
	Location *time.Location
}

// Load reads the environment, after merging an optional .env file.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		RedisHost:      os.Getenv("REDIS_HOST"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTIssuer:      getEnv("JWT_ISSUER", "liftbook"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        os.Getenv("LOG_FILE"),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	var err error
	if cfg.TokenDuration, err = getDuration("TOKEN_DURATION", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = getDuration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.SummaryDelay, err = getDuration("SUMMARY_REFRESH_DELAY", 500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.SummaryTTL, err = getDuration("SUMMARY_CACHE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RedisPoolSize, err = getInt("REDIS_POOL_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.RedisPingTimeout, err = getDuration("REDIS_PING_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = getInt("RATE_LIMIT", 100); err != nil {
		return nil, err
	}
	if cfg.LogToStdout, err = getBool("LOG_TO_STDOUT", true); err != nil {
		return nil, err
	}
	if cfg.LogJSON, err = getBool("LOG_JSON", false); err != nil {
		return nil, err
	}

	cfg.Location, err = time.LoadLocation(getEnv("TZ", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TZ: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if c.TokenDuration <= 0 {
		return fmt.Errorf("TOKEN_DURATION must be positive")
	}
	if c.DBName != "" && c.DBUser == "" {
		return fmt.Errorf("DB_USER is required when DB_NAME is set")
	}
	return nil
}

func (c *Config) UsePostgres() bool {
	return c.DBName != ""
}

func (c *Config) UseRedis() bool {
	return c.RedisHost != ""
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
