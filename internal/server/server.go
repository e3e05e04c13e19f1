// Package server exposes the operator control surface over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/matheuskafuri/newsanchor/internal/conversation"
	"github.com/matheuskafuri/newsanchor/internal/feed"
	"github.com/matheuskafuri/newsanchor/internal/settings"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// refreshTimeout bounds a background refresh after a category change.
const refreshTimeout = 30 * time.Second

type Options struct {
	Engine   *feed.Engine
	Settings *settings.Store
	Syncer   *conversation.Synchronizer
	Registry *conversation.Registry
	// Runner drives conversations opened through /api/offer. Optional.
	Runner       conversation.Runner
	AllowOrigins []string
	Logger       *slog.Logger
}

type Server struct {
	echo     *echo.Echo
	engine   *feed.Engine
	settings *settings.Store
	syncer   *conversation.Synchronizer
	registry *conversation.Registry
	runner   conversation.Runner
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	bg     sync.WaitGroup
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		echo:     echo.New(),
		engine:   opts.Engine,
		settings: opts.Settings,
		syncer:   opts.Syncer,
		registry: opts.Registry,
		runner:   opts.Runner,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(requestLogger(logger))

	e.GET("/health", s.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.GET("/config", s.getConfig)
	api.POST("/config", s.updateConfig)
	api.GET("/news", s.getNews)
	api.POST("/news/refresh", s.refreshNews)
	api.GET("/prompt", s.getPrompt)
	api.POST("/offer", s.offer)
	api.GET("/conversations", s.listConversations)
	api.DELETE("/conversations/:id", s.closeConversation)

	return s
}

func (s *Server) Handler() http.Handler { return s.echo }

// Start serves on addr until Shutdown. It returns nil after a clean shutdown.
func (s *Server) Start(addr string) error {
	slog.Info("starting server", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, cancels background work and waits for
// it to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.echo.Shutdown(ctx)
	s.cancel()
	s.wait()
	return err
}

func (s *Server) wait() { s.bg.Wait() }

// Warm refreshes the active category in the background.
func (s *Server) Warm() {
	s.refreshInBackground(s.settings.Snapshot().NewsCategory)
}

func (s *Server) goBackground(fn func(ctx context.Context)) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		fn(s.ctx)
	}()
}

type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}
	if err := c.JSON(code, errorResponse{Status: "error", Error: msg}); err != nil {
		slog.Error("writing error response", "error", err)
	}
}
