package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal - общее количество запросов
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Общее количество HTTP запросов",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration - длительность запросов
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Длительность HTTP запросов в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// RequestsInFlight - количество запросов в обработке
	RequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Текущее количество запросов в обработке",
		},
	)

	// OffersCreated - опубликованные оферты
	OffersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_offers_created_total",
			Help: "Количество опубликованных оферт",
		},
	)

	// ApplicationsSubmitted - поданные отклики
	ApplicationsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_applications_submitted_total",
			Help: "Количество поданных откликов",
		},
	)

	// AssignmentsCreated - назначения, созданные при принятии отклика
	AssignmentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_assignments_created_total",
			Help: "Количество созданных назначений",
		},
	)

	// AssignmentsFinalized - завершённые назначения
	AssignmentsFinalized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_assignments_finalized_total",
			Help: "Количество завершённых назначений",
		},
	)

	// AcceptConflicts - отказы конкурирующих принятий одной оферты
	AcceptConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_accept_conflicts_total",
			Help: "Количество конфликтов при одновременном принятии откликов",
		},
	)
)

// PrometheusMiddleware собирает метрики для HTTP запросов
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Увеличиваем счетчик запросов в обработке
		RequestsInFlight.Inc()
		defer RequestsInFlight.Dec()

		// Фиксируем время начала запроса
		start := time.Now()

		// Обрабатываем запрос
		c.Next()

		// Вычисляем длительность запроса
		duration := time.Since(start).Seconds()

		// Получаем статус код и эндпоинт
		status := strconv.Itoa(c.Writer.Status())
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		// Увеличиваем счетчик запросов
		RequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()

		// Добавляем длительность запроса
		RequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}
