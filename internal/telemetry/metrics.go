package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики вычисления профилей.
var (
	// ComputePassesTotal — количество проходов вычисления профилей.
	ComputePassesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "persona_compute_passes_total",
		Help: "Total profile computation passes by anchor policy and outcome.",
	}, []string{"policy", "status"})

	// ComputeDuration — длительность прохода вычисления.
	ComputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "persona_compute_duration_seconds",
		Help:    "Duration of a full profile computation pass.",
		Buckets: prometheus.DefBuckets,
	})

	// CyclesDetectedTotal — обнаруженные циклы зависимостей.
	CyclesDetectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "persona_rule_cycles_detected_total",
		Help: "Total circular dependencies detected among composition rules.",
	})
)

// Метрики затухания воспоминаний.
var (
	// DecaySweepsTotal — количество проходов затухания.
	DecaySweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "persona_decay_sweeps_total",
		Help: "Total memory decay sweeps executed.",
	})

	// DecayedMemoriesTotal — воспоминания с обновлённой релевантностью.
	DecayedMemoriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "persona_decayed_memories_total",
		Help: "Total memories whose relevance was updated by a sweep.",
	})
)

// HTTP метрики.
var (
	// HTTPRequestsTotal — количество HTTP запросов.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "persona_http_requests_total",
		Help: "Total HTTP requests by method, path pattern and status code.",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration — длительность обработки HTTP запросов.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "persona_http_request_duration_seconds",
		Help:    "HTTP request handling duration.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// Метрики событий.
var (
	// EventsPublishedTotal — опубликованные события по типу.
	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "persona_events_published_total",
		Help: "Total events published to the message broker by type.",
	}, []string{"event"})

	// BusReconnectsTotal — успешные переподключения к шине событий.
	BusReconnectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "persona_bus_reconnects_total",
		Help: "Total successful event bus reconnects after a lost connection.",
	})
)
