// Package server — HTTP API сервиса рекомендаций.
package server

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ilkoid/sably/pkg/config"
	"github.com/ilkoid/sably/pkg/recommend"
	"github.com/ilkoid/sably/pkg/utils"
)

// Server оборачивает Fiber-приложение с настроенными middleware.
type Server struct {
	App *fiber.App
	Cfg *config.AppConfig
}

// New собирает сервер: recover, CORS, Basic Auth, метрики, маршруты.
func New(cfg *config.AppConfig, rec *recommend.Recommender) *Server {
	registerMetrics()
	// Индекс мог быть загружен до старта сервера: гейджи не должны
	// показывать нули до первого /refresh
	if rec.Loaded() {
		updateIndexGauges(rec.Stats())
	}

	app := fiber.New(fiber.Config{
		AppName: "sably",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			return jsonError(c, code, message)
		},
	})

	app.Use(recover.New())
	app.Use(countRequests())

	if len(cfg.Server.CORSOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.Server.CORSOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		}))
	}

	app.Use(basicAuth(cfg.Server.Auth))

	h := NewHandlers(cfg, rec)
	app.Get("/", h.Root)
	app.Post("/recommend", h.Recommend)
	app.Get("/recommend", h.RecommendQuery)
	app.Get("/scores", h.Scores)
	app.Get("/status", h.Status)
	app.Get("/config", h.Config)
	app.Post("/refresh", h.Refresh)
	app.Get("/health", h.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return &Server{App: app, Cfg: cfg}
}

// Start слушает сконфигурированный адрес до ошибки или Shutdown.
func (s *Server) Start() error {
	utils.Info("http server starting", "listen", s.Cfg.Server.Listen)
	return s.App.Listen(s.Cfg.Server.Listen)
}

// Shutdown останавливает сервер, дожидаясь активных запросов.
func (s *Server) Shutdown() error {
	utils.Info("http server shutting down")
	return s.App.Shutdown()
}
