package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	TradesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "market_trades_total",
		Help: "Committed stock trades by action and actor kind.",
	}, []string{"action", "actor"})

	StockConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_stock_conflicts_total",
		Help: "Stock reservations rejected on the InsufficientStock precondition.",
	})

	ProductPrice = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "market_product_price",
		Help: "Last committed market price per product.",
	}, []string{"product_id"})

	CryptoPrice = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "market_crypto_price",
		Help: "Last committed simulated crypto price per symbol.",
	}, []string{"symbol"})

	YieldAccrued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_yield_accrued_total",
		Help: "Total passive yield credited across all users.",
	})

	AccrualRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_accrual_runs_total",
		Help: "Completed per-user yield accrual tasks.",
	})
)
