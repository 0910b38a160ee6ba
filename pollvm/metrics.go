// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pollvm

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ballot-labs/pollstore/utils/metric"
	"github.com/ballot-labs/pollstore/utils/wrappers"
)

type metrics struct {
	pollsCreated prometheus.Counter
	votesCast    prometheus.Counter

	createPoll prometheus.Histogram
	castVote   prometheus.Histogram
}

func newCounter(namespace, name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	})
}

func (m *metrics) Initialize(namespace string, registerer prometheus.Registerer) error {
	m.pollsCreated = newCounter(namespace, "polls_created", "Number of polls created")
	m.votesCast = newCounter(namespace, "votes_cast", "Number of votes committed")
	m.createPoll = metric.NewNanosecondsLatencyMetric(namespace, "create_poll")
	m.castVote = metric.NewNanosecondsLatencyMetric(namespace, "cast_vote")

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.pollsCreated),
		registerer.Register(m.votesCast),
		registerer.Register(m.createPoll),
		registerer.Register(m.castVote),
	)
	return errs.Err
}
