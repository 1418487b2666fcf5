package server

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ilkoid/sably/pkg/recommend"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sably_http_requests_total",
			Help: "HTTP requests by path and status code",
		},
		[]string{"path", "status"},
	)

	recommendDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sably_recommend_duration_seconds",
			Help:    "Latency of recommendation requests",
			Buckets: prometheus.DefBuckets,
		},
	)

	recommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sably_recommendations_total",
			Help: "Recommendations served by source",
		},
		[]string{"source"},
	)

	refreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sably_index_refresh_total",
			Help: "Index refresh attempts by outcome",
		},
		[]string{"outcome"},
	)

	indexCategories = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sably_index_categories",
			Help: "Categories in the current index",
		},
	)

	indexFiles = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sably_index_files",
			Help: "Files in the current index",
		},
	)
)

var metricsOnce sync.Once

// registerMetrics регистрирует метрики в глобальном регистре.
// Однократно: в тестах сервер создаётся несколько раз за процесс.
func registerMetrics() {
	metricsOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestsTotal,
			recommendDuration,
			recommendationsTotal,
			refreshTotal,
			indexCategories,
			indexFiles,
		)
	})
}

// countRequests считает все HTTP ответы по пути и статусу.
func countRequests() fiber.Handler {
	return func(c fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
		}
		httpRequestsTotal.WithLabelValues(c.Path(), strconv.Itoa(status)).Inc()
		return err
	}
}

// observeRecommend фиксирует длительность запроса и источники выдачи.
func observeRecommend(start time.Time, recs []recommend.Recommendation) {
	recommendDuration.Observe(time.Since(start).Seconds())
	for _, rec := range recs {
		recommendationsTotal.WithLabelValues(rec.Source).Inc()
	}
}

// updateIndexGauges выставляет гейджи по статистике текущего индекса.
func updateIndexGauges(stats recommend.Stats) {
	indexCategories.Set(float64(stats.TotalCategories))
	indexFiles.Set(float64(stats.TotalFiles))
}
