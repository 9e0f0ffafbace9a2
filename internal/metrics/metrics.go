package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	ReactionToggles *prometheus.CounterVec
	CommentsCreated *prometheus.CounterVec
	FollowToggles   *prometheus.CounterVec
	HTTPResponses   *prometheus.CounterVec
}

// New creates the counters and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReactionToggles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_reaction_toggles_total",
				Help: "Total number of reaction toggles by subject, type and resulting state",
			},
			[]string{"subject", "type", "state"},
		),
		CommentsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_comments_created_total",
				Help: "Total number of created comments by depth",
			},
			[]string{"depth"},
		),
		FollowToggles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_follow_toggles_total",
				Help: "Total number of follow toggles by resulting state",
			},
			[]string{"state"},
		),
		HTTPResponses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_http_responses_total",
				Help: "Total number of HTTP responses by route and status",
			},
			[]string{"method", "route", "status"},
		),
	}

	reg.MustRegister(m.ReactionToggles)
	reg.MustRegister(m.CommentsCreated)
	reg.MustRegister(m.FollowToggles)
	reg.MustRegister(m.HTTPResponses)

	return m
}

func State(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func Depth(isReply bool) string {
	if isReply {
		return "reply"
	}
	return "root"
}
