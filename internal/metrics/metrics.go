// Package metrics exposes prometheus counters for the booking and search
// paths. Constructors accept a nil registerer and return no-op instances so
// core packages can be tested without a registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type BookingMetrics struct {
	confirmed prometheus.Counter
	rejected  *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	if reg == nil {
		return &BookingMetrics{} //nolint:exhaustruct
	}

	confirmed := prometheus.NewCounter(prometheus.CounterOpts{ //nolint:exhaustruct
		Name: "bookings_confirmed_total",
		Help: "Bookings admitted and persisted as confirmed.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{ //nolint:exhaustruct
		Name: "bookings_rejected_total",
		Help: "Booking requests rejected, by reason.",
	}, []string{"reason"})

	reg.MustRegister(confirmed, rejected)

	return &BookingMetrics{confirmed: confirmed, rejected: rejected}
}

func (m *BookingMetrics) IncConfirmed() {
	if m == nil || m.confirmed == nil {
		return
	}

	m.confirmed.Inc()
}

func (m *BookingMetrics) IncRejected(reason string) {
	if m == nil || m.rejected == nil {
		return
	}

	m.rejected.WithLabelValues(reason).Inc()
}

type SearchMetrics struct {
	served      prometheus.Counter
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

func NewSearchMetrics(reg prometheus.Registerer) *SearchMetrics {
	if reg == nil {
		return &SearchMetrics{} //nolint:exhaustruct
	}

	served := prometheus.NewCounter(prometheus.CounterOpts{ //nolint:exhaustruct
		Name: "searches_total",
		Help: "Search queries served.",
	})
	hits := prometheus.NewCounter(prometheus.CounterOpts{ //nolint:exhaustruct
		Name: "search_cache_hits_total",
		Help: "Search queries answered from the result cache.",
	})
	misses := prometheus.NewCounter(prometheus.CounterOpts{ //nolint:exhaustruct
		Name: "search_cache_misses_total",
		Help: "Search queries that recomputed over the indexes.",
	})

	reg.MustRegister(served, hits, misses)

	return &SearchMetrics{served: served, cacheHits: hits, cacheMisses: misses}
}

func (m *SearchMetrics) IncServed() {
	if m == nil || m.served == nil {
		return
	}

	m.served.Inc()
}

func (m *SearchMetrics) IncCacheHit() {
	if m == nil || m.cacheHits == nil {
		return
	}

	m.cacheHits.Inc()
}

func (m *SearchMetrics) IncCacheMiss() {
	if m == nil || m.cacheMisses == nil {
		return
	}

	m.cacheMisses.Inc()
}
