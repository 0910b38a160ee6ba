// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metric

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNanosecondsBucketsAscending(t *testing.T) {
	require := require.New(t)

	for i := 1; i < len(NanosecondsBuckets); i++ {
		require.Less(NanosecondsBuckets[i-1], NanosecondsBuckets[i])
	}
}

func TestNewNanosecondsLatencyMetric(t *testing.T) {
	require := require.New(t)

	registry := prometheus.NewRegistry()
	require.NoError(registry.Register(NewNanosecondsLatencyMetric("pollvm", "create_poll")))

	// The same namespace and name collide.
	err := registry.Register(NewNanosecondsLatencyMetric("pollvm", "create_poll"))
	require.Error(err)

	// A different name registers cleanly.
	require.NoError(registry.Register(NewNanosecondsLatencyMetric("pollvm", "cast_vote")))
}
