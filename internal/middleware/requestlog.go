package middleware

import (
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/iliyamo/farm-biosecurity/internal/logger"
)

// RequestLogger writes one structured line per request.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
    return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
        LogMethod:   true,
        LogURI:      true,
        LogStatus:   true,
        LogLatency:  true,
        LogRemoteIP: true,
        LogError:    true,
        HandleError: true,
        LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
            kv := []interface{}{
                "method", v.Method,
                "uri", v.URI,
                "status", v.Status,
                "latency", v.Latency.String(),
                "remote_ip", v.RemoteIP,
                "user_id", userID(c),
            }
            switch {
            case v.Error != nil:
                log.Error("request", append(kv, "error", v.Error.Error())...)
            case v.Status >= 500:
                log.Error("request", kv...)
            default:
                log.Info("request", kv...)
            }
            return nil
        },
    })
}
