// Package metrics exposes the gateway's operational counters over expvar,
// plus pprof, on a separate debug listener.
package metrics

import "expvar"

var (
	SessionConnects    = expvar.NewInt("session_connects")
	SessionDisconnects = expvar.NewInt("session_disconnects")
	OrdersSubmitted    = expvar.NewInt("orders_submitted")
	OrdersFailed       = expvar.NewInt("orders_failed")
	PortfolioReads     = expvar.NewInt("portfolio_reads")
	SummaryReads       = expvar.NewInt("summary_reads")
)
