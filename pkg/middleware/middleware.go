package middleware

import (
	"net/http"
	"strings"

	"github.com/Astemirdum/inventory-loan-service/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

// XUserNameHeader is set by the authenticating gateway in front of the services.
const XUserNameHeader = "X-User-Name"

const userNameKey = "userName"

// UserName requires the upstream identity header and stores it in the echo context.
func UserName(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userName := strings.TrimSpace(c.Request().Header.Get(XUserNameHeader))
		if userName == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "X-User-Name header is required")
		}
		c.Set(userNameKey, userName)
		return next(c)
	}
}

func GetUserName(c echo.Context) string {
	userName, _ := c.Get(userNameKey).(string)
	return userName
}

func NewRateLimiter(rps rate.Limit) echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rps))
}

func RequestLoggerConfig(log *zap.Logger) middleware.RequestLoggerConfig {
	if log == nil {
		log = logger.NewLogger(logger.Log{LogLevel: zapcore.DebugLevel}, "echo")
	}
	c := middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		HandleError:  true,
		LogError:     true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := zapcore.InfoLevel
			if v.Error != nil {
				level = zapcore.ErrorLevel
			}
			log.Log(level, "request",
				zap.String("URI", v.URI),
				zap.String("Method", v.Method),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}
	return c
}
