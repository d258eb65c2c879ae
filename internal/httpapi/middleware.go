package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ulule/limiter/v3"

	"github.com/cleared-dev/daybook/internal/daybook"
	"github.com/cleared-dev/daybook/internal/model"
)

// RoleHeader names the caller's role. Requests without it run as the
// configured default role.
const RoleHeader = "X-Daybook-Role"

// RequestIDHeader carries the generated request ID on every response.
const RequestIDHeader = "X-Request-ID"

type loggerKey struct{}

// requestLogger injects a request-scoped logger and logs each completed request.
func requestLogger(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()

		logger := base.With(
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), loggerKey{}, logger))

		c.Next()

		logger.Info("request completed",
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

// loggerFrom returns the request-scoped logger, or the default logger
// outside a request.
func loggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// rateLimit rejects clients that exceed the limiter's rate with 429.
func rateLimit(l *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		lc, err := l.Get(c.Request.Context(), ip)
		if err != nil {
			loggerFrom(c.Request.Context()).Error("rate limit check failed",
				slog.String("ip", ip), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Error: "internal server error"})
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lc.Remaining, 10))
		if lc.Reached {
			loggerFrom(c.Request.Context()).Warn("rate limit exceeded",
				slog.String("ip", ip), slog.Int64("limit", lc.Limit))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorBody{Error: "too many requests, try again later"})
			return
		}
		c.Next()
	}
}

// withRole stores the role named by RoleHeader in the request context.
func withRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(RoleHeader)
		if raw == "" {
			c.Next()
			return
		}
		role, err := model.ParseRole(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
		ctx := daybook.WithRole(c.Request.Context(), role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
