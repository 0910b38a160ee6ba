// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pollvm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ballot-labs/pollstore/ids"
)

func TestPollKeyDeterministic(t *testing.T) {
	require := require.New(t)

	creator := ids.GenerateTestID()

	require.Equal(PollKey(creator, 1), PollKey(creator, 1))
	require.NotEqual(PollKey(creator, 1), PollKey(creator, 2))
	require.NotEqual(PollKey(creator, 1), PollKey(ids.GenerateTestID(), 1))
}

func TestVoterKeyDeterministic(t *testing.T) {
	require := require.New(t)

	poll := ids.GenerateTestID()
	voter := ids.GenerateTestID()

	require.Equal(VoterKey(poll, voter), VoterKey(poll, voter))
	require.NotEqual(VoterKey(poll, voter), VoterKey(poll, ids.GenerateTestID()))
	require.NotEqual(VoterKey(poll, voter), VoterKey(ids.GenerateTestID(), voter))
}

func TestSeedTagsSeparateKeySpaces(t *testing.T) {
	// The components alone collide; the seed tags must not.
	a := ids.GenerateTestID()
	b := ids.GenerateTestID()

	voterKey := VoterKey(a, b)

	pollKeyLike := PollKey(a, 0)
	require.NotEqual(t, voterKey, pollKeyLike)
}
