package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/matheuskafuri/newsanchor/internal/cache"
	"github.com/matheuskafuri/newsanchor/internal/feed"
	"github.com/matheuskafuri/newsanchor/internal/prompt"
	"github.com/matheuskafuri/newsanchor/internal/settings"
)

type configResponse struct {
	NewsCategory   string             `json:"newsCategory"`
	Features       settings.Features  `json:"features"`
	LLMParams      settings.LLMParams `json:"llmParams"`
	AnchorStyle    string             `json:"anchorStyle"`
	CustomPrompt   string             `json:"customPrompt"`
	Categories     []string           `json:"categories"`
	LastNewsUpdate *time.Time         `json:"lastNewsUpdate"`
}

type configSummary struct {
	NewsCategory string            `json:"newsCategory"`
	AnchorStyle  string            `json:"anchorStyle"`
	Features     settings.Features `json:"features"`
}

type updateResponse struct {
	Status  string           `json:"status"`
	Applied settings.Applied `json:"applied"`
	Config  configSummary    `json:"config"`
}

type newsResponse struct {
	Category  string          `json:"category"`
	Articles  []cache.Article `json:"articles"`
	Source    string          `json:"source"`
	Tier      string          `json:"tier,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Speech    string          `json:"speech,omitempty"`
}

type refreshRequest struct {
	Category string `json:"category"`
}

type refreshResponse struct {
	Status    string    `json:"status"`
	Category  string    `json:"category"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	sourceLive   = "live"
	sourceCached = "cache/mock"
)

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":        "ok",
		"tiers":         s.engine.Tiers(),
		"conversations": len(s.registry.IDs()),
	})
}

func (s *Server) getConfig(c echo.Context) error {
	snap := s.settings.Snapshot()
	return c.JSON(http.StatusOK, configResponse{
		NewsCategory:   snap.NewsCategory,
		Features:       snap.Features,
		LLMParams:      snap.LLM,
		AnchorStyle:    snap.AnchorStyle,
		CustomPrompt:   snap.CustomPrompt,
		Categories:     feed.Categories,
		LastNewsUpdate: snap.LastNewsUpdate,
	})
}

func (s *Server) updateConfig(c echo.Context) error {
	var u settings.Update
	if err := c.Bind(&u); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid config payload")
	}

	applied := s.settings.Apply(u)
	if applied.CategoryChanged {
		s.refreshInBackground(*applied.NewsCategory)
	}
	n := s.syncer.SyncAll(s.registry)

	snap := s.settings.Snapshot()
	slog.Info("config updated", "category", snap.NewsCategory, "style", snap.AnchorStyle, "conversations_updated", n)
	return c.JSON(http.StatusOK, updateResponse{
		Status:  "ok",
		Applied: applied,
		Config: configSummary{
			NewsCategory: snap.NewsCategory,
			AnchorStyle:  snap.AnchorStyle,
			Features:     snap.Features,
		},
	})
}

// refreshInBackground re-fetches category and pushes the refreshed grounding
// to live conversations once it lands.
func (s *Server) refreshInBackground(category string) {
	s.goBackground(func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
		defer cancel()

		if _, err := s.engine.Refresh(ctx, category); err != nil {
			slog.Warn("background refresh failed", "category", category, "error", err)
			return
		}
		s.settings.MarkNewsUpdated(s.now())
		s.syncer.SyncAll(s.registry)
	})
}

func (s *Server) getNews(c echo.Context) error {
	snap := s.settings.Snapshot()
	category := c.QueryParam("category")
	if category == "" {
		category = snap.NewsCategory
	}
	category = feed.NormalizeCategory(category)

	resp := newsResponse{Category: category, Timestamp: s.now()}
	if snap.Features.LiveNews {
		articles, tier, err := s.engine.FetchLive(c.Request().Context(), category)
		if err == nil {
			if err := s.engine.Store(category, articles); err != nil {
				slog.Warn("caching live news", "category", category, "error", err)
			}
			s.settings.MarkNewsUpdated(resp.Timestamp)
			resp.Articles, resp.Source, resp.Tier = articles, sourceLive, tier
		} else {
			slog.Info("live news unavailable, serving cached", "category", category, "error", err)
		}
	}
	if resp.Source == "" {
		resp.Articles, resp.Source = s.engine.ReadCached(category), sourceCached
	}
	if c.QueryParam("format") == "speech" {
		resp.Speech = prompt.SpeechSummary(category, resp.Articles)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) refreshNews(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid refresh payload")
	}
	category := req.Category
	if category == "" {
		category = s.settings.Snapshot().NewsCategory
	}
	category = feed.NormalizeCategory(category)

	articles, err := s.engine.Refresh(c.Request().Context(), category)
	if err != nil {
		slog.Error("refreshing news", "category", category, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	now := s.now()
	s.settings.MarkNewsUpdated(now)
	s.syncer.SyncAll(s.registry)
	return c.JSON(http.StatusOK, refreshResponse{
		Status:    "ok",
		Category:  category,
		Count:     len(articles),
		Timestamp: now,
	})
}

func (s *Server) getPrompt(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"prompt": s.syncer.Prompt()})
}

// offer opens a conversation seeded with the current prompt and hands it to
// the runner. The conversation is closed when the runner returns.
func (s *Server) offer(c echo.Context) error {
	conv := s.registry.Open(s.syncer.Prompt())
	id := conv.ID()

	if s.runner != nil {
		s.goBackground(func(ctx context.Context) {
			defer s.registry.Close(id)
			if err := s.runner.Run(ctx, conv); err != nil {
				slog.Warn("conversation ended with error", "conversation", id, "error", err)
				return
			}
			slog.Info("conversation ended", "conversation", id)
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"id": id})
}

func (s *Server) listConversations(c echo.Context) error {
	ids := s.registry.IDs()
	return c.JSON(http.StatusOK, map[string]any{"conversations": ids, "count": len(ids)})
}

func (s *Server) closeConversation(c echo.Context) error {
	id := c.Param("id")
	if !s.registry.Close(id) {
		return echo.NewHTTPError(http.StatusNotFound, "conversation not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "id": id})
}
