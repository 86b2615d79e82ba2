package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed successfully",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order placements",
	}, []string{"reason"})

	OrderPlacementLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_placement_latency_seconds",
		Help:    "Latency of order placement transactions",
		Buckets: prometheus.DefBuckets,
	})

	StockTransfersCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_transfers_completed_total",
		Help: "Total number of completed stock requisition transfers",
	})

	StockTransfersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_transfers_failed_total",
		Help: "Total number of failed stock requisition transfers",
	}, []string{"reason"})

	StockTransferLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stock_transfer_latency_seconds",
		Help:    "Latency of requisition completion transactions",
		Buckets: prometheus.DefBuckets,
	})

	DepositsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "customer_deposits_total",
		Help: "Total number of customer balance deposits",
	})

	LowStockEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "low_stock_events_total",
		Help: "Total number of low-stock events emitted",
	})

	NotificationsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_created_total",
		Help: "Total number of notifications written",
	}, []string{"target_kind"})

	InventoryCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_cache_hits_total",
		Help: "Inventory quantity reads served from cache",
	})

	InventoryCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_cache_misses_total",
		Help: "Inventory quantity reads that fell through to the database",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
