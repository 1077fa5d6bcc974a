// Package metrics registers the Prometheus metrics for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersRegistered   prometheus.Counter
	GatheringsCreated prometheus.Counter
	ReceiptsCreated   prometheus.Counter
	ClaimsReplaced    prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "splitparty_users_registered_total",
			Help: "Total number of user accounts registered",
		}),
		GatheringsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "splitparty_gatherings_created_total",
			Help: "Total number of gatherings created",
		}),
		ReceiptsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "splitparty_receipts_created_total",
			Help: "Total number of receipts created",
		}),
		ClaimsReplaced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "splitparty_claims_replaced_total",
			Help: "Total number of claim replacement operations",
		}),
	}
}
