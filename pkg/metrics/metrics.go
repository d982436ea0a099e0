package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InvitesIssued counts invitations created, labelled by outcome (member|token).
	InvitesIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_invites_issued_total",
			Help: "Total number of invitations issued",
		},
		[]string{"kind"},
	)

	// InviteRedemptions counts token redemption attempts by result (success|invalid|already_member).
	InviteRedemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_invite_redemptions_total",
			Help: "Total number of invite token redemption attempts",
		},
		[]string{"result"},
	)

	// OrganizationIntents counts organization-creation intents by result.
	OrganizationIntents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_organization_intents_total",
			Help: "Total number of organization creation intents",
		},
		[]string{"result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roster_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
