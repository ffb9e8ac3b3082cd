package main

import (
	"fmt"
	"net/http"
	"time"

	"codeberg.org/algorave/errorstack/api/rest/errorstate"
	"codeberg.org/algorave/errorstack/api/rest/health"
	"codeberg.org/algorave/errorstack/api/websocket"
	"codeberg.org/algorave/errorstack/internal/config"
	"codeberg.org/algorave/errorstack/internal/errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) error {
	rateLimit, err := RateLimitMiddleware(server)
	if err != nil {
		return err
	}

	router.Use(CORSMiddleware(server.config))

	health.RegisterRoutes(router, server)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(rateLimit)

	{
		errorstate.RegisterRoutes(v1, server.chain, server.store, server.historyRoutes())
		websocket.RegisterRoutes(v1, server.hub)
	}

	router.NoRoute(proxyHandler(server.proxy))

	return nil
}

// returns an untyped nil when history is disabled so the handler can tell
func (s *Server) historyRoutes() errorstate.History {
	if s.history == nil {
		return nil
	}

	return s.history
}

func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if cfg.IsProduction() {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	}

	return cors.New(corsConfig)
}

// limits requests per client IP; counters live in redis when it is configured
func RateLimitMiddleware(server *Server) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(server.config.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", server.config.RateLimit, err)
	}

	var limiterStore limiter.Store = memory.NewStore()

	if server.mirror != nil {
		limiterStore, err = sredis.NewStoreWithOptions(server.mirror.Client(), limiter.StoreOptions{
			Prefix: server.config.RedisPrefix + ":limiter",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
		}
	}

	return mgin.NewMiddleware(
		limiter.New(limiterStore, rate),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			errors.TooManyRequests(c, "rate limit exceeded, try again later")
		}),
	), nil
}
