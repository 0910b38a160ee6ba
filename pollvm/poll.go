// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pollvm

import "github.com/ballot-labs/pollstore/ids"

const (
	// MaxQuestionLen is the capacity, in bytes, of the question field.
	MaxQuestionLen = 200
	// MaxOptionLen is the capacity, in bytes, of each option field.
	MaxOptionLen = 30
	// MinOptions and MaxOptions bound how many option slots may be populated.
	MinOptions = 2
	MaxOptions = 4
)

// Poll is the persistent record describing a question, its bounded option
// set, and running vote tallies. The text fields are stored packed so the
// record always serializes to the same number of bytes.
type Poll struct {
	PollID  uint64
	Creator ids.ID

	question       [MaxQuestionLen]byte
	questionLength uint16

	options       [MaxOptions][MaxOptionLen]byte
	optionLengths [MaxOptions]uint8

	// Votes[i] is meaningful only for i < OptionCount.
	Votes       [MaxOptions]uint64
	OptionCount uint8
	CreatedAt   int64
}

// NewPoll validates the inputs and returns a fully initialized poll record
// with all tallies zero. The validation failures are distinct so a caller can
// surface each one to an end user.
func NewPoll(
	pollID uint64,
	creator ids.ID,
	question string,
	options []string,
	createdAt int64,
) (*Poll, error) {
	if len(question) > MaxQuestionLen {
		return nil, ErrQuestionTooLong
	}
	switch {
	case len(options) < MinOptions:
		return nil, ErrInsufficientOptions
	case len(options) > MaxOptions:
		return nil, ErrTooManyOptions
	}
	for _, option := range options {
		if len(option) > MaxOptionLen {
			return nil, ErrOptionTooLong
		}
	}

	poll := &Poll{
		PollID:      pollID,
		Creator:     creator,
		OptionCount: uint8(len(options)),
		CreatedAt:   createdAt,
	}

	questionBuf, questionLength, err := EncodeText(question, MaxQuestionLen)
	if err != nil {
		return nil, err
	}
	copy(poll.question[:], questionBuf)
	poll.questionLength = uint16(questionLength)

	for i, option := range options {
		optionBuf, optionLength, err := EncodeText(option, MaxOptionLen)
		if err != nil {
			return nil, err
		}
		copy(poll.options[i][:], optionBuf)
		poll.optionLengths[i] = uint8(optionLength)
	}
	return poll, nil
}

// Question returns the poll's question text.
func (p *Poll) Question() string {
	return DecodeText(p.question[:], int(p.questionLength))
}

// Option returns the text of option [index], or false if the slot is not
// populated.
func (p *Poll) Option(index uint8) (string, bool) {
	if index >= p.OptionCount {
		return "", false
	}
	return DecodeText(p.options[index][:], int(p.optionLengths[index])), true
}

// Options returns the populated option texts in order.
func (p *Poll) Options() []string {
	options := make([]string, 0, p.OptionCount)
	for i := uint8(0); i < p.OptionCount; i++ {
		option, _ := p.Option(i)
		options = append(options, option)
	}
	return options
}
