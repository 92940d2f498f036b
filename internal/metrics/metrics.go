// Package metrics exposes Prometheus instrumentation for core POS
// events. The library has no HTTP surface of its own, so collectors are
// registered on the default registry and exposition is left to the
// embedding application. Label-free counters keep cardinality at its
// floor; the interesting dimensions (dish, table) would be unbounded.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SalesRecorded counts order events recorded against catalog
	// dishes (one per line item added, regardless of quantity).
	SalesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_recorded_total",
		Help: "Total number of order events recorded against the catalog.",
	})

	// SessionsFinalized counts order sessions turned into history
	// entries.
	SessionsFinalized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_sessions_finalized_total",
		Help: "Total number of order sessions finalized into history.",
	})

	// CatalogSaves counts successful catalog-file writes.
	CatalogSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_catalog_saves_total",
		Help: "Total number of successful catalog saves.",
	})

	// CatalogLoads counts successful catalog-file reads.
	CatalogLoads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_catalog_loads_total",
		Help: "Total number of successful catalog loads.",
	})

	// DishesInCatalog gauges the current catalog size. Set by the
	// embedder after mutations; the library does not push it.
	DishesInCatalog = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pos_catalog_dishes",
		Help: "Current number of dishes in the catalog.",
	})
)
