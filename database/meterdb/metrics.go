// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package meterdb

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ballot-labs/pollstore/utils/metric"
	"github.com/ballot-labs/pollstore/utils/wrappers"
)

type metrics struct {
	has,
	get,
	put,
	delete,
	newBatch,
	newIterator,
	compact,
	close,
	healthCheck,
	bPut,
	bDelete,
	bWrite,
	bReset,
	bReplay,
	iNext,
	iRelease prometheus.Histogram
}

func (m *metrics) Initialize(
	namespace string,
	registerer prometheus.Registerer,
) error {
	m.has = metric.NewNanosecondsLatencyMetric(namespace, "has")
	m.get = metric.NewNanosecondsLatencyMetric(namespace, "get")
	m.put = metric.NewNanosecondsLatencyMetric(namespace, "put")
	m.delete = metric.NewNanosecondsLatencyMetric(namespace, "delete")
	m.newBatch = metric.NewNanosecondsLatencyMetric(namespace, "new_batch")
	m.newIterator = metric.NewNanosecondsLatencyMetric(namespace, "new_iterator")
	m.compact = metric.NewNanosecondsLatencyMetric(namespace, "compact")
	m.close = metric.NewNanosecondsLatencyMetric(namespace, "close")
	m.healthCheck = metric.NewNanosecondsLatencyMetric(namespace, "health_check")
	m.bPut = metric.NewNanosecondsLatencyMetric(namespace, "batch_put")
	m.bDelete = metric.NewNanosecondsLatencyMetric(namespace, "batch_delete")
	m.bWrite = metric.NewNanosecondsLatencyMetric(namespace, "batch_write")
	m.bReset = metric.NewNanosecondsLatencyMetric(namespace, "batch_reset")
	m.bReplay = metric.NewNanosecondsLatencyMetric(namespace, "batch_replay")
	m.iNext = metric.NewNanosecondsLatencyMetric(namespace, "iterator_next")
	m.iRelease = metric.NewNanosecondsLatencyMetric(namespace, "iterator_release")

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.has),
		registerer.Register(m.get),
		registerer.Register(m.put),
		registerer.Register(m.delete),
		registerer.Register(m.newBatch),
		registerer.Register(m.newIterator),
		registerer.Register(m.compact),
		registerer.Register(m.close),
		registerer.Register(m.healthCheck),
		registerer.Register(m.bPut),
		registerer.Register(m.bDelete),
		registerer.Register(m.bWrite),
		registerer.Register(m.bReset),
		registerer.Register(m.bReplay),
		registerer.Register(m.iNext),
		registerer.Register(m.iRelease),
	)
	return errs.Err
}
