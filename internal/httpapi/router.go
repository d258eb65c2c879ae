// Package httpapi serves the daybook over JSON for the shop's front end.
package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/cleared-dev/daybook/internal/config"
	"github.com/cleared-dev/daybook/internal/daybook"
)

// NewRouter builds the gin engine serving svc. The service should resolve
// roles with daybook.ContextRoles so the role header takes effect.
func NewRouter(svc *daybook.Service, cfg config.ServerConfig, logger *slog.Logger) (*gin.Engine, error) {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	registerValidators()

	r := gin.New()
	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("setting trusted proxies: %w", err)
	}
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	if len(cfg.AllowedOrigins) > 0 {
		corsCfg := cors.Config{
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", RoleHeader},
			ExposeHeaders:    []string{RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}
		if slices.Contains(cfg.AllowedOrigins, "*") {
			corsCfg.AllowAllOrigins = true
		} else {
			corsCfg.AllowOrigins = cfg.AllowedOrigins
		}
		// cors.New panics on a bad config.
		if err := corsCfg.Validate(); err != nil {
			return nil, fmt.Errorf("allowed origins: %w", err)
		}
		r.Use(cors.New(corsCfg))
	}

	if cfg.RateLimit != "" {
		rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
		if err != nil {
			return nil, fmt.Errorf("parsing rate limit %q: %w", cfg.RateLimit, err)
		}
		r.Use(rateLimit(limiter.New(memory.NewStore(), rate)))
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	v1 := r.Group("/api/v1", withRole())
	registerDayRoutes(v1, svc)
	return r, nil
}

// NewServer wraps the router in an http.Server with conservative timeouts.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
