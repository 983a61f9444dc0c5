package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/onboarding-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests  *CounterVec
	apiLatency   *HistogramVec
	apiInflight  *Gauge
	sessionSaves *CounterVec
	storeLatency *HistogramVec
	validation   *CounterVec
	photoDeletes *CounterVec
	sqlStats     *GaugeVec
	redisUp      *Gauge
	redisPing    *Gauge

	scrapeInterval time.Duration
}

var latencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// New returns a metrics registry. scrapeInterval drives the pool and redis
// collectors; zero means 10s.
func New(scrapeInterval time.Duration) *Metrics {
	if scrapeInterval <= 0 {
		scrapeInterval = 10 * time.Second
	}
	return &Metrics{
		apiRequests:  NewCounterVec("onb_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency:   NewHistogramVec("onb_api_request_duration_seconds", "API request latency in seconds by method/route.", []string{"method", "route"}, latencyBuckets),
		apiInflight:  NewGauge("onb_api_inflight_requests", "In-flight API requests."),
		sessionSaves: NewCounterVec("onb_session_store_ops_total", "Session store operations by op/outcome.", []string{"op", "outcome"}),
		storeLatency: NewHistogramVec("onb_session_store_duration_seconds", "Session store latency by backend/op.", []string{"backend", "op"}, latencyBuckets),
		validation:   NewCounterVec("onb_validation_failures_total", "Rejected patches by top-level field of the first violation.", []string{"field"}),
		photoDeletes: NewCounterVec("onb_photo_deletes_total", "Photo deletions by backend/outcome.", []string{"backend", "outcome"}),
		sqlStats:     NewGaugeVec("onb_sql_pool", "SQL connection pool stats.", []string{"stat"}),
		redisUp:      NewGauge("onb_redis_up", "Redis reachability (1/0)."),
		redisPing:    NewGauge("onb_redis_ping_seconds", "Redis ping latency in seconds."),

		scrapeInterval: scrapeInterval,
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.sessionSaves, m.storeLatency, m.validation, m.photoDeletes,
		m.sqlStats, m.redisUp, m.redisPing,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, log *logger.Logger, addr string) error {
	if m == nil || strings.TrimSpace(addr) == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", m.WriteHTTP)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	if log != nil {
		log.Info("metrics server listening", "addr", addr)
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Add(1)
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Add(-1)
}

func (m *Metrics) ObserveStoreOp(backend, op, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.sessionSaves.Inc(op, outcome)
	m.storeLatency.Observe(dur.Seconds(), backend, op)
}

func (m *Metrics) StoreOpCount(op, outcome string) float64 {
	if m == nil {
		return 0
	}
	return m.sessionSaves.Value(op, outcome)
}

// IncValidationFailure counts a rejected patch under the top-level field of
// its headline violation ("products[2].name" counts as "products").
func (m *Metrics) IncValidationFailure(field string) {
	if m == nil {
		return
	}
	if i := strings.IndexAny(field, ".["); i >= 0 {
		field = field[:i]
	}
	if field == "" {
		field = "unknown"
	}
	m.validation.Inc(field)
}

func (m *Metrics) ValidationFailureCount(field string) float64 {
	if m == nil {
		return 0
	}
	return m.validation.Value(field)
}

func (m *Metrics) IncPhotoDelete(backend, outcome string) {
	if m == nil {
		return
	}
	m.photoDeletes.Inc(backend, outcome)
}

func (m *Metrics) StartSQLCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: sql stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.sqlStats.Set(float64(stats.OpenConnections), "open_connections")
				m.sqlStats.Set(float64(stats.InUse), "in_use")
				m.sqlStats.Set(float64(stats.Idle), "idle")
				m.sqlStats.Set(float64(stats.WaitCount), "wait_count")
				m.sqlStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb goredis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
