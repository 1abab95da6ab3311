package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/scout/internal/index"
	"github.com/MrSnakeDoc/scout/internal/logger"
	"github.com/MrSnakeDoc/scout/internal/search"
	redisstore "github.com/MrSnakeDoc/scout/internal/store/redis"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	Search      *search.Service  // the aggregation pipeline behind /search
	Store       *redisstore.Store // Redis persistence (history, trending, prices)
	Catalog     *index.Catalog   // in-memory catalog mirror + trained model
	RedisClient *redis.Client    // raw connection, health checks only

	RefreshTrigger chan struct{} // channel to trigger a manual catalog refresh

	TrustProxy        bool // true if running behind a trusted reverse proxy
	RateLimitBurst    int  // token bucket burst per client IP
	RateLimitPerMin   int  // token refill per client IP per minute
	RateLimitDisabled bool // true => no rate limiting (dev/local)
}
