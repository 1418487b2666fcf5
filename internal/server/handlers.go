package server

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/ilkoid/sably/pkg/config"
	"github.com/ilkoid/sably/pkg/recommend"
	"github.com/ilkoid/sably/pkg/s3storage"
	"github.com/ilkoid/sably/pkg/utils"
)

// serviceVersion отдаётся в корневом ответе и /status.
const serviceVersion = "1.0.0"

// Handlers — обработчики HTTP API поверх рекомендера.
type Handlers struct {
	cfg *config.AppConfig
	rec *recommend.Recommender
}

// NewHandlers создает обработчики API.
func NewHandlers(cfg *config.AppConfig, rec *recommend.Recommender) *Handlers {
	return &Handlers{cfg: cfg, rec: rec}
}

// recommendRequest — тело POST /recommend.
type recommendRequest struct {
	Input string `json:"input"`
	TopK  int    `json:"top_k"`
}

// Root описывает сервис и его маршруты.
func (h *Handlers) Root(c fiber.Ctx) error {
	return jsonSuccess(c, fiber.Map{
		"service": "sably",
		"version": serviceVersion,
		"endpoints": fiber.Map{
			"recommend": "POST /recommend, GET /recommend?input=...&top_k=...",
			"scores":    "GET /scores?input=...",
			"status":    "GET /status",
			"config":    "GET /config",
			"refresh":   "POST /refresh",
			"health":    "GET /health",
			"metrics":   "GET /metrics",
		},
	})
}

// Recommend обслуживает POST /recommend с JSON телом.
func (h *Handlers) Recommend(c fiber.Ctx) error {
	var req recommendRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	return h.serveRecommendation(c, req.Input, req.TopK)
}

// RecommendQuery обслуживает GET /recommend с параметрами запроса.
func (h *Handlers) RecommendQuery(c fiber.Ctx) error {
	input := c.Query("input")
	topK := fiber.Query[int](c, "top_k", 0)
	return h.serveRecommendation(c, input, topK)
}

func (h *Handlers) serveRecommendation(c fiber.Ctx, input string, topK int) error {
	if topK == 0 {
		topK = h.cfg.Recommend.DefaultTopK
	}

	start := time.Now()
	recs, err := h.rec.Recommend(input, topK)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrIndexNotLoaded):
			return jsonError(c, fiber.StatusServiceUnavailable, "emoji index is not loaded, call /refresh")
		case errors.Is(err, recommend.ErrEmptyIndex):
			return jsonError(c, fiber.StatusServiceUnavailable, "emoji index is empty")
		default:
			return jsonError(c, fiber.StatusBadRequest, err.Error())
		}
	}
	observeRecommend(start, recs)

	return jsonSuccess(c, fiber.Map{
		"input":       strings.TrimSpace(input),
		"top_k":       topK,
		"total_count": len(recs),
		"output":      recs,
		"algorithm_config": fiber.Map{
			"keyword_weight":      h.cfg.Algorithm.KeywordWeight,
			"semantic_weight":     h.cfg.Algorithm.SemanticWeight,
			"direct_match_bonus":  h.cfg.Algorithm.DirectMatchBonus,
			"emotion_match_bonus": h.cfg.Algorithm.EmotionMatchBonus,
		},
		"storage_info": fiber.Map{
			"bucket":      h.cfg.S3.Bucket,
			"endpoint":    h.cfg.S3.Endpoint,
			"root_prefix": h.cfg.Catalog.RootPrefix,
		},
	})
}

// Scores — диагностика скоринга: оценка каждой категории для текста,
// по убыванию. Показывает почему рекомендация выбрала то, что выбрала.
func (h *Handlers) Scores(c fiber.Ctx) error {
	input := c.Query("input")
	if strings.TrimSpace(input) == "" {
		return jsonError(c, fiber.StatusBadRequest, "input query parameter is required")
	}

	scores, err := h.rec.Scores(input)
	if err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "emoji index is not loaded, call /refresh")
	}
	return jsonSuccess(c, fiber.Map{
		"input":  input,
		"scores": scores,
	})
}

// Status отдаёт состояние индекса.
func (h *Handlers) Status(c fiber.Ctx) error {
	stats := h.rec.Stats()
	return jsonSuccess(c, fiber.Map{
		"version": serviceVersion,
		"loaded":  h.rec.Loaded(),
		"index":   stats,
	})
}

// Config отдаёт несекретную часть конфигурации.
// Ключи доступа и пароли наружу не выходят.
func (h *Handlers) Config(c fiber.Ctx) error {
	return jsonSuccess(c, fiber.Map{
		"s3": fiber.Map{
			"bucket":   h.cfg.S3.Bucket,
			"endpoint": h.cfg.S3.Endpoint,
		},
		"catalog": fiber.Map{
			"root_prefix": h.cfg.Catalog.RootPrefix,
			"extensions":  h.cfg.Catalog.Extensions,
			"cache_ttl":   h.cfg.Catalog.CacheTTL.String(),
		},
		"algorithm": fiber.Map{
			"keyword_weight":      h.cfg.Algorithm.KeywordWeight,
			"semantic_weight":     h.cfg.Algorithm.SemanticWeight,
			"direct_match_bonus":  h.cfg.Algorithm.DirectMatchBonus,
			"emotion_match_bonus": h.cfg.Algorithm.EmotionMatchBonus,
		},
		"recommend": fiber.Map{
			"default_top_k": h.cfg.Recommend.DefaultTopK,
			"min_top_k":     h.cfg.Recommend.MinTopK,
			"max_top_k":     h.cfg.Recommend.MaxTopK,
		},
	})
}

// Refresh форсирует перестройку индекса из хранилища.
func (h *Handlers) Refresh(c fiber.Ctx) error {
	err := h.rec.Refresh(c.Context(), true)
	if err != nil {
		refreshTotal.WithLabelValues("error").Inc()
		switch {
		case errors.Is(err, recommend.ErrRefreshThrottled):
			return jsonError(c, fiber.StatusTooManyRequests, err.Error())
		case errors.Is(err, s3storage.ErrListing):
			utils.Error("refresh failed: storage listing error", "error", err)
			return jsonError(c, fiber.StatusBadGateway, "storage listing failed: "+err.Error())
		default:
			utils.Error("refresh failed", "error", err)
			return jsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	refreshTotal.WithLabelValues("success").Inc()
	stats := h.rec.Stats()
	updateIndexGauges(stats)
	return jsonSuccess(c, fiber.Map{
		"refreshed": true,
		"index":     stats,
	})
}

// Health — проба живости для оркестратора.
func (h *Handlers) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"loaded": h.rec.Loaded(),
	})
}
