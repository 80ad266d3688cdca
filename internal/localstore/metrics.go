package localstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var publishFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "cgmis",
	Subsystem: "localstore",
	Name:      "publish_failures_total",
	Help:      "Committed writes whose change notification could not be published.",
})
