package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	limiterstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

type RateLimitConfig struct {
	// RequestsPerPeriod is the number of requests admitted per Period
	// for a single client IP.
	RequestsPerPeriod int
	// Period defaults to one second.
	Period time.Duration
	Store  limiter.Store
}

// NewMemoryStore keeps counters in process memory. Counters reset on
// restart and are not shared across instances.
func NewMemoryStore() limiter.Store {
	return memory.NewStore()
}

// NewRedisStore shares counters across instances through Redis.
func NewRedisStore(redisURL string) (limiter.Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	return limiterredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:          "aisle_ratelimit",
		MaxRetry:        3,
		CleanUpInterval: time.Minute,
	})
}

func RateLimit(config RateLimitConfig) mux.MiddlewareFunc {
	period := config.Period
	if period <= 0 {
		period = time.Second
	}
	store := config.Store
	if store == nil {
		store = NewMemoryStore()
	}
	instance := limiter.New(store, limiter.Rate{
		Period: period,
		Limit:  int64(config.RequestsPerPeriod),
	})
	handler := limiterstdlib.NewMiddleware(instance)
	return func(next http.Handler) http.Handler {
		return handler.Handler(next)
	}
}
