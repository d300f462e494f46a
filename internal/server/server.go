// Package server exposes the tutor over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/abhisek/primemath/internal/curriculum"
	"github.com/abhisek/primemath/internal/store"
	"github.com/abhisek/primemath/internal/tutor"
)

// Tutor is the subset of tutor.Service the handlers need.
type Tutor interface {
	GenerateProblem(ctx context.Context) (*tutor.GeneratedProblem, error)
	GetHint(ctx context.Context, sessionID string, userAnswer *float64) (*tutor.Hint, error)
	SubmitAnswer(ctx context.Context, sessionID string, userAnswer float64) (*tutor.SubmissionResult, error)
	GetSession(ctx context.Context, sessionID string) (*store.Session, error)
	ListSubmissions(ctx context.Context, sessionID string) ([]store.Submission, error)
	Topics() []curriculum.Topic
	Grade() curriculum.Grade
}

// Options configures the HTTP server.
type Options struct {
	Logger *zap.Logger

	// CORSOrigin is the allowed origin; "*" allows any.
	CORSOrigin string

	// RequestTimeout bounds the model calls of a single request. Zero
	// means no deadline beyond the client's.
	RequestTimeout time.Duration

	// HealthCheck reports backend health for GET /health. Optional.
	HealthCheck func(ctx context.Context) error
}

// New builds the echo instance with middleware and routes.
func New(t Tutor, opts Options) *echo.Echo {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			log.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	origin := opts.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{origin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	h := NewProblemHandler(t, log, opts.RequestTimeout)

	e.GET("/health", healthHandler(opts.HealthCheck))

	api := e.Group("/api")
	api.POST("/math-problem", h.Generate)
	api.POST("/math-problem/submit", h.Submit)
	api.POST("/math-problem/hint", h.Hint)
	api.GET("/math-problem/:id", h.GetSession)
	api.GET("/math-problem/:id/submissions", h.ListSubmissions)
	api.GET("/topics", h.Topics)

	return e
}

func healthHandler(check func(ctx context.Context) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		if check != nil {
			if err := check(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
				})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{
			"status": "ok",
		})
	}
}
