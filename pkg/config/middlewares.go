package config

import (
	"github.com/anonto42/engagement/backend/internal/logs"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SetupMiddleware installs the global middleware: JSON request logging,
// panic recovery and CORS.
func SetupMiddleware(e *echo.Echo) {
	e.Logger = logs.Logger()
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := map[string]interface{}{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
			}
			level := "INFO"
			if v.Error != nil {
				fields["error"] = v.Error.Error()
				if v.Status >= 500 {
					level = "ERROR"
				}
			}
			logs.LogJSON(level, "request", fields)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
}
