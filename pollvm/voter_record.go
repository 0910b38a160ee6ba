// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pollvm

import "github.com/ballot-labs/pollstore/ids"

// VoterRecord is a one-time marker record. Its storage key is a pure function
// of (poll, voter), so its mere existence proves that the identity voted on
// the poll. It is created exactly once and never mutated or deleted.
type VoterRecord struct {
	// HasVoted is always true once the record exists. The record's existence
	// is the real signal; the flag is kept for the persisted layout.
	HasVoted    bool
	VotedOption uint8
	VotedAt     int64
	Voter       ids.ID
	Poll        ids.ID
}
