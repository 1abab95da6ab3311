package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrSnakeDoc/scout/internal/domain"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	PlatformFile string // path to platforms.yaml (adapter definitions + trust table)

	// Search pipeline
	ResultTarget    int           // default total listings fetched across platforms
	ResultFloor     int           // minimum returned when enough candidates exist
	ResultCeiling   int           // maximum returned
	PlatformTimeout time.Duration // per-platform fetch budget
	OverallTimeout  time.Duration // whole fan-out budget

	// Scoring
	WeightTrust         float64 // blend weight for platform trust
	WeightRating        float64 // blend weight for rating
	WeightPrice         float64 // blend weight for price
	WeightReviews       float64 // blend weight for review count
	SimilarityThreshold float64 // minimum trained-mode cosine similarity
	TFIDFMaxFeatures    int     // vocabulary cap for the trained model

	// Background jobs
	RefreshSchedule string        // cron spec for catalog refresh (ex: "0 */6 * * *")
	RefreshQueries  []string      // seed queries scraped into the catalog
	AlertInterval   time.Duration // price-drop evaluation interval
	GCInterval      time.Duration // catalog garbage collection interval
	GCThreshold     time.Duration // age after which unseen catalog entries are dropped

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // initial wait between retries (grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// Price-drop notifications (optional, empty token disables them)
	TelegramToken  string
	TelegramChatID int64

	// HTTP access
	TrustProxy        bool // true => trust X-Forwarded-For headers
	RateLimitBurst    int  // token bucket burst per client IP
	RateLimitPerMin   int  // token refill per client IP per minute
	RateLimitDisabled bool // true => no rate limiting (dev/local)
}

func Load() *Config {
	// Best effort: a missing .env just means plain environment config.
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SCOUT_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SCOUT_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("SCOUT_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SCOUT_PRETTY_LOG", true),

		// Platform definitions
		PlatformFile: getenv("SCOUT_PLATFORM_FILE", "/app/platforms.yaml"),

		// Search pipeline
		ResultTarget:    getenvInt("SCOUT_RESULT_TARGET", 50),
		ResultFloor:     getenvInt("SCOUT_RESULT_FLOOR", 5),
		ResultCeiling:   getenvInt("SCOUT_RESULT_CEILING", 10),
		PlatformTimeout: mustDuration("SCOUT_PLATFORM_TIMEOUT", 6*time.Second),
		OverallTimeout:  mustDuration("SCOUT_OVERALL_TIMEOUT", 10*time.Second),

		// Scoring
		WeightTrust:         getenvFloat("SCOUT_WEIGHT_TRUST", 0.4),
		WeightRating:        getenvFloat("SCOUT_WEIGHT_RATING", 0.3),
		WeightPrice:         getenvFloat("SCOUT_WEIGHT_PRICE", 0.2),
		WeightReviews:       getenvFloat("SCOUT_WEIGHT_REVIEWS", 0.1),
		SimilarityThreshold: getenvFloat("SCOUT_SIMILARITY_THRESHOLD", 0.1),
		TFIDFMaxFeatures:    getenvInt("SCOUT_TFIDF_MAX_FEATURES", 5000),

		// Background jobs
		RefreshSchedule: getenv("SCOUT_REFRESH_SCHEDULE", "0 */6 * * *"),
		RefreshQueries:  splitAndTrim(getenv("SCOUT_REFRESH_QUERIES", "laptop,smartphone,headphones,shoes,watch")),
		AlertInterval:   mustDuration("SCOUT_ALERT_INTERVAL", time.Hour),
		GCInterval:      mustDuration("SCOUT_GC_INTERVAL", 24*time.Hour),
		GCThreshold:     mustDuration("SCOUT_GC_THRESHOLD", 30*24*time.Hour),

		// Redis settings
		RedisAddr:             requireEnv("SCOUT_REDIS_ADDR"),
		RedisUser:             getenv("SCOUT_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("SCOUT_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("SCOUT_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("SCOUT_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Notifications
		TelegramToken:  getenv("SCOUT_TELEGRAM_TOKEN", ""),
		TelegramChatID: getenvInt64("SCOUT_TELEGRAM_CHAT_ID", 0),

		// HTTP access
		TrustProxy:        mustBool("SCOUT_TRUST_PROXY", true),
		RateLimitBurst:    getenvInt("SCOUT_RATE_LIMIT_BURST", 10),
		RateLimitPerMin:   getenvInt("SCOUT_RATE_LIMIT_PER_MIN", 60),
		RateLimitDisabled: mustBool("SCOUT_RATE_LIMIT_DISABLED", false),
	}

	// Malformed configuration is a programming error: fail fast.
	if err := cfg.Weights().Validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: SCOUT_REDIS_PASSWORD is required when SCOUT_REDIS_PASSWORD_REQUIRED=true")
	}

	if cfg.ResultFloor <= 0 || cfg.ResultCeiling < cfg.ResultFloor {
		panic(fmt.Sprintf("❌ FATAL: invalid result bounds floor=%d ceiling=%d",
			cfg.ResultFloor, cfg.ResultCeiling))
	}

	return cfg
}

// Weights assembles the configured scoring weights as the domain type,
// which owns their validation rules.
func (c *Config) Weights() domain.Weights {
	return domain.Weights{
		Trust:   c.WeightTrust,
		Rating:  c.WeightRating,
		Price:   c.WeightPrice,
		Reviews: c.WeightReviews,
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.Trim(strings.TrimSpace(part), `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
