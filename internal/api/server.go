/*
Package api serves the question answering engine over HTTP for a
presentation layer (dashboard, chat panel).

Routes:

	POST /v1/ask            {"question": "..."} -> answer, intent, path, sources
	GET  /v1/intent?q=...   -> {"intent": "..."}
	GET  /v1/index          -> index status
	POST /v1/index/rebuild  -> {"documents": n}
	GET  /v1/stats          -> usage totals, top apps, busiest hours
	GET  /healthz
	GET  /metrics           Prometheus exposition
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/khanglvm/focus-ask/internal/classify"
	"github.com/khanglvm/focus-ask/internal/engine"
	"github.com/khanglvm/focus-ask/internal/metrics"
	"github.com/khanglvm/focus-ask/internal/version"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Engine is the subset of *engine.Engine the server needs.
type Engine interface {
	Ask(ctx context.Context, question string) engine.Response
	Classify(question string) classify.Intent
	IndexStatus() engine.IndexStatus
	Rebuild(ctx context.Context) (int, error)
	Stats() engine.Stats
}

// Server is the HTTP front end.
type Server struct {
	echo   *echo.Echo
	engine Engine
}

// NewServer builds the router. m may be nil, which disables /metrics.
func NewServer(eng Engine, m *metrics.Metrics) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	httpLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		httpLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]string{"error": msg})
		}
	}

	s := &Server{echo: e, engine: eng}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"status": "ok", "build": version.Get()})
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	v1 := e.Group("/v1")
	v1.POST("/ask", s.ask)
	v1.GET("/intent", s.intent)
	v1.GET("/index", s.indexStatus)
	v1.POST("/index/rebuild", s.rebuild)
	v1.GET("/stats", s.stats)

	return s
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP API listening on %s", addr)
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	return nil
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) ask(c echo.Context) error {
	var req askRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Question == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "question required")
	}
	return c.JSON(http.StatusOK, s.engine.Ask(c.Request().Context(), req.Question))
}

func (s *Server) intent(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q required")
	}
	return c.JSON(http.StatusOK, map[string]string{"intent": string(s.engine.Classify(q))})
}

func (s *Server) indexStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.engine.IndexStatus())
}

func (s *Server) rebuild(c echo.Context) error {
	n, err := s.engine.Rebuild(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"documents": n})
}

func (s *Server) stats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.engine.Stats())
}
