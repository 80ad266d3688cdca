package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	signIns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cgmis",
		Subsystem: "session",
		Name:      "sign_ins_total",
		Help:      "Sign-in attempts by outcome.",
	}, []string{"outcome"})

	signOuts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cgmis",
		Subsystem: "session",
		Name:      "sign_outs_total",
		Help:      "Sign-outs.",
	})

	purged = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cgmis",
		Subsystem: "session",
		Name:      "purged_total",
		Help:      "Persisted sessions removed on read, by reason.",
	}, []string{"reason"})

	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cgmis",
		Subsystem: "session",
		Name:      "registrations_total",
		Help:      "Registration attempts by outcome.",
	}, []string{"outcome"})
)
