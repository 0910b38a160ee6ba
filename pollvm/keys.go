// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pollvm

import (
	"github.com/ballot-labs/pollstore/ids"
	"github.com/ballot-labs/pollstore/utils/hashing"
	"github.com/ballot-labs/pollstore/utils/wrappers"
)

// Seed tags bind each record type to its own key space. Because a derived key
// commits to its seed tag, a poll key and a voter-record key can never
// collide.
var (
	pollSeed  = []byte("poll")
	voterSeed = []byte("voter")
)

// PollKey derives the storage key of the poll created by [creator] under
// [pollID]. The derivation is pure, so the same creator reusing the same
// pollID maps to the same key and the store's create-if-absent check rejects
// the duplicate.
func PollKey(creator ids.ID, pollID uint64) ids.ID {
	pk := wrappers.Packer{
		MaxSize: len(pollSeed) + ids.IDLen + wrappers.LongLen,
		Bytes:   make([]byte, 0, len(pollSeed)+ids.IDLen+wrappers.LongLen),
	}
	pk.PackFixedBytes(pollSeed)
	pk.PackFixedBytes(creator[:])
	pk.PackLong(pollID)
	return ids.ID(hashing.ComputeHash256Array(pk.Bytes))
}

// VoterKey derives the storage key of the voter record for [voter] on [poll].
// At most one record can ever exist at that key, which is the sole
// double-vote guard. No index of past voters is kept.
func VoterKey(poll ids.ID, voter ids.ID) ids.ID {
	pk := wrappers.Packer{
		MaxSize: len(voterSeed) + 2*ids.IDLen,
		Bytes:   make([]byte, 0, len(voterSeed)+2*ids.IDLen),
	}
	pk.PackFixedBytes(voterSeed)
	pk.PackFixedBytes(poll[:])
	pk.PackFixedBytes(voter[:])
	return ids.ID(hashing.ComputeHash256Array(pk.Bytes))
}
