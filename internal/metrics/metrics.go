package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeValue = "value"
	OutcomeNull  = "null"
	OutcomeNaN   = "nan"
)

var (
	ValuesGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "colgen",
		Name:      "values_generated_total",
		Help:      "generated column values by type family and outcome",
	}, []string{"family", "outcome"})

	RowsGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "colgen",
		Name:      "rows_generated_total",
		Help:      "generated rows",
	})

	SampleDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "colgen",
		Name:      "sample_duration_seconds",
		Help:      "duration of one sample session",
		Buckets:   prometheus.DefBuckets,
	}, []string{"format"})

	BatchSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "colgen",
		Name:      "batch_rows",
		Help:      "rows per batch handed to a sink",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})
)

func init() {
	prometheus.MustRegister(ValuesGenerated)
	prometheus.MustRegister(RowsGenerated)
	prometheus.MustRegister(SampleDuration)
	prometheus.MustRegister(BatchSize)
}

// Outcome classifies a generated value for ValuesGenerated.
func Outcome(isNull, isNaN bool) string {
	switch {
	case isNull:
		return OutcomeNull
	case isNaN:
		return OutcomeNaN
	default:
		return OutcomeValue
	}
}
