package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OptimizeRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flightapi_optimize_requests_total",
		Help: "Total number of /api/optimize requests",
	})
	OptimizeDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "flightapi_optimize_duration_ms",
		Help:    "Route optimization duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	OptimizeWaypoints = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "flightapi_optimize_waypoints",
		Help:    "Waypoint count per optimization request",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200},
	})
	OptimizeFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flightapi_optimize_fail_total",
		Help: "Total optimizations returning success=false",
	})
	PlanRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flightapi_plan_requests_total",
		Help: "Total number of /api/plan requests",
	})
	PlanDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "flightapi_plan_duration_ms",
		Help:    "Gap analysis duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	ZoneQueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flightapi_zone_queries_total",
		Help: "Restriction index queries by kind (point/batch/path/polygon)",
	}, []string{"kind"})
	ZoneHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flightapi_zone_hits_total",
		Help: "Point queries that collided with a restricted zone",
	})
	SurfaceOverrideTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flightapi_surface_override_total",
		Help: "Airport circle verdicts cleared by a precise surface re-test",
	})
	DIDFetchTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flightapi_did_fetch_total",
		Help: "Total DID prefecture dataset fetches",
	})
	DIDFetchFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flightapi_did_fetch_fail_total",
		Help: "DID dataset fetches that failed and fell back to safe default",
	})
	DIDFetchDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "flightapi_did_fetch_duration_ms",
		Help:    "DID dataset fetch duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	DIDCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flightapi_did_cache_hits_total",
		Help: "DID dataset cache hits (prefecture already loaded)",
	})
	DIDCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flightapi_did_cache_misses_total",
		Help: "DID dataset cache misses triggering a fetch",
	})
	RedisHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flightapi_redis_hits_total",
		Help: "Total redis verdict cache hits",
	})
	RedisMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flightapi_redis_misses_total",
		Help: "Total redis verdict cache misses",
	})
)

func init() {
	prometheus.MustRegister(OptimizeRequestsTotal)
	prometheus.MustRegister(OptimizeDurationMs)
	prometheus.MustRegister(OptimizeWaypoints)
	prometheus.MustRegister(OptimizeFailTotal)
	prometheus.MustRegister(PlanRequestsTotal)
	prometheus.MustRegister(PlanDurationMs)
	prometheus.MustRegister(ZoneQueriesTotal)
	prometheus.MustRegister(ZoneHitsTotal)
	prometheus.MustRegister(SurfaceOverrideTotal)
	prometheus.MustRegister(DIDFetchTotal)
	prometheus.MustRegister(DIDFetchFailTotal)
	prometheus.MustRegister(DIDFetchDurationMs)
	prometheus.MustRegister(DIDCacheHitsTotal)
	prometheus.MustRegister(DIDCacheMissesTotal)
	prometheus.MustRegister(RedisHitsTotal)
	prometheus.MustRegister(RedisMissesTotal)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：统一暴露注册指标到 /metrics 路径，供 Prometheus 抓取；在主入口挂载。
func Handler() http.Handler { return promhttp.Handler() }
