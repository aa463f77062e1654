package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command errors by operation name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "p2psandbox_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ContentMutations counts content-service mutations by content type and action.
	ContentMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "p2psandbox_content_mutations_total",
		Help: "Total number of content mutations by content type and action",
	}, []string{"content_type", "action"})

	// EngagementToggles counts like/bookmark toggles by kind and resulting state.
	EngagementToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "p2psandbox_engagement_toggles_total",
		Help: "Total number of engagement toggles by kind and resulting state",
	}, []string{"kind", "state"})

	// StatsRecomputes counts user statistics recomputations.
	StatsRecomputes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "p2psandbox_stats_recomputes_total",
		Help: "Total number of user statistics recomputations",
	})
)

// InitMetrics creates the fiberprometheus middleware for HTTP-level metrics.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus handler as a Fiber middleware.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
