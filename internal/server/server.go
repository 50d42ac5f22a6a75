// Package server exposes a Store over HTTP so remote clients can read
// and write the logger's database. RemoteStore in internal/datastore is
// the matching client.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/zombiz/blitz/internal/datastore"
)

// Options configures the data server
type Options struct {
	// Token, when set, is required as a bearer token on every request
	Token string
}

// Build assembles the echo server around the given store. The caller
// owns starting and shutting it down.
func Build(store datastore.Store, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger())

	if opts.Token != "" {
		e.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			KeyLookup:  "header:Authorization",
			AuthScheme: "Bearer",
			Validator: func(key string, c echo.Context) (bool, error) {
				return key == opts.Token, nil
			},
		}))
	}

	e.GET("/api/ping", PingHandler())
	e.POST("/api/query", QueryHandler(store))
	e.POST("/api/upsert", UpsertHandler(store))

	return e
}

// requestLogger logs one line per request with server-side latency
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			begin := time.Now()
			err := next(c)
			slog.Info("Handled request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration", time.Since(begin),
				"error", err)
			return err
		}
	}
}

// PingHandler answers health checks from RemoteStore.Connect
func PingHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}
