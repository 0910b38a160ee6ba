// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metric

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NanosecondsBuckets spans sub-microsecond map hits through slow disk writes.
var NanosecondsBuckets = []float64{
	float64(100 * time.Nanosecond),
	float64(time.Microsecond),
	float64(10 * time.Microsecond),
	float64(100 * time.Microsecond),
	float64(time.Millisecond),
	float64(10 * time.Millisecond),
	float64(100 * time.Millisecond),
	float64(time.Second),
	// anything larger than a second will be bucketed together
}

// NewNanosecondsLatencyMetric returns a histogram observing the latency of
// [name] calls in nanoseconds.
func NewNanosecondsLatencyMetric(namespace, name string) prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      name,
		Help:      fmt.Sprintf("Latency of a %s call in nanoseconds", name),
		Buckets:   NanosecondsBuckets,
	})
}
