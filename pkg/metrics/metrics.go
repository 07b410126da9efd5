package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "helpinghands", Name: "logins_total", Help: "Number of sign-in attempts by result."},
		[]string{"result"},
	)
	ProjectJoinsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "helpinghands", Name: "project_joins_total", Help: "Number of project join requests by result."},
		[]string{"result"},
	)
	ProjectsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "helpinghands", Name: "projects_created_total", Help: "Number of projects created."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "helpinghands", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "helpinghands", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(LoginsTotal)
	reg.MustRegister(ProjectJoinsTotal)
	reg.MustRegister(ProjectsCreatedTotal)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
