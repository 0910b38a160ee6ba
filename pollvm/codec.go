// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pollvm

import (
	"errors"

	"github.com/ballot-labs/pollstore/ids"
	"github.com/ballot-labs/pollstore/utils/wrappers"
)

/* Poll record layout (little-endian, 407 bytes):
 * PollID         |   8 bytes
 * Creator        |  32 bytes
 * Question       | 200 bytes
 * QuestionLength |   2 bytes
 * Options        | 120 bytes (30 * 4)
 * OptionLengths  |   4 bytes
 * Votes          |  32 bytes (8 * 4)
 * OptionCount    |   1 byte
 * CreatedAt      |   8 bytes
 */
const pollByteLen = wrappers.LongLen +
	ids.IDLen +
	MaxQuestionLen +
	wrappers.ShortLen +
	MaxOptions*MaxOptionLen +
	MaxOptions +
	MaxOptions*wrappers.LongLen +
	wrappers.ByteLen +
	wrappers.LongLen

/* VoterRecord layout (little-endian, 74 bytes):
 * HasVoted    |  1 byte
 * VotedOption |  1 byte
 * VotedAt     |  8 bytes
 * Voter       | 32 bytes
 * Poll        | 32 bytes
 */
const voterRecordByteLen = wrappers.BoolLen +
	wrappers.ByteLen +
	wrappers.LongLen +
	2*ids.IDLen

var errExtraSpace = errors.New("trailing buffer space")

// Bytes returns the fixed-size byte representation of the poll record.
func (p *Poll) Bytes() ([]byte, error) {
	pk := wrappers.Packer{
		MaxSize: pollByteLen,
		Bytes:   make([]byte, 0, pollByteLen),
	}

	pk.PackLong(p.PollID)
	pk.PackFixedBytes(p.Creator[:])
	pk.PackFixedBytes(p.question[:])
	pk.PackShort(p.questionLength)
	for i := range p.options {
		pk.PackFixedBytes(p.options[i][:])
	}
	pk.PackFixedBytes(p.optionLengths[:])
	for _, votes := range p.Votes {
		pk.PackLong(votes)
	}
	pk.PackByte(p.OptionCount)
	pk.PackLong(uint64(p.CreatedAt))

	return pk.Bytes, pk.Err
}

// ParsePoll is the inverse of Poll.Bytes.
func ParsePoll(bytes []byte) (*Poll, error) {
	pk := wrappers.Packer{Bytes: bytes}
	poll := &Poll{}

	poll.PollID = pk.UnpackLong()
	copy(poll.Creator[:], pk.UnpackFixedBytes(ids.IDLen))
	copy(poll.question[:], pk.UnpackFixedBytes(MaxQuestionLen))
	poll.questionLength = pk.UnpackShort()
	for i := range poll.options {
		copy(poll.options[i][:], pk.UnpackFixedBytes(MaxOptionLen))
	}
	copy(poll.optionLengths[:], pk.UnpackFixedBytes(MaxOptions))
	for i := range poll.Votes {
		poll.Votes[i] = pk.UnpackLong()
	}
	poll.OptionCount = pk.UnpackByte()
	poll.CreatedAt = int64(pk.UnpackLong())

	if pk.Errored() {
		return nil, pk.Err
	}
	if pk.Offset != len(bytes) {
		return nil, errExtraSpace
	}
	return poll, nil
}

// Bytes returns the fixed-size byte representation of the voter record.
func (vr *VoterRecord) Bytes() ([]byte, error) {
	pk := wrappers.Packer{
		MaxSize: voterRecordByteLen,
		Bytes:   make([]byte, 0, voterRecordByteLen),
	}

	pk.PackBool(vr.HasVoted)
	pk.PackByte(vr.VotedOption)
	pk.PackLong(uint64(vr.VotedAt))
	pk.PackFixedBytes(vr.Voter[:])
	pk.PackFixedBytes(vr.Poll[:])

	return pk.Bytes, pk.Err
}

// ParseVoterRecord is the inverse of VoterRecord.Bytes.
func ParseVoterRecord(bytes []byte) (*VoterRecord, error) {
	pk := wrappers.Packer{Bytes: bytes}
	record := &VoterRecord{}

	record.HasVoted = pk.UnpackBool()
	record.VotedOption = pk.UnpackByte()
	record.VotedAt = int64(pk.UnpackLong())
	copy(record.Voter[:], pk.UnpackFixedBytes(ids.IDLen))
	copy(record.Poll[:], pk.UnpackFixedBytes(ids.IDLen))

	if pk.Errored() {
		return nil, pk.Err
	}
	if pk.Offset != len(bytes) {
		return nil, errExtraSpace
	}
	return record, nil
}
