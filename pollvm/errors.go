// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pollvm

import "errors"

var (
	// Validation errors, detected before any write.
	ErrQuestionTooLong     = errors.New("question is too long")
	ErrInsufficientOptions = errors.New("insufficient options provided")
	ErrTooManyOptions      = errors.New("too many options provided")
	ErrOptionTooLong       = errors.New("option is too long")
	ErrInvalidOption       = errors.New("invalid option index")

	// Uniqueness errors, detected by the create-if-absent check on the
	// derived key.
	ErrDuplicatePoll = errors.New("poll already exists")
	ErrAlreadyVoted  = errors.New("voter has already voted for this poll")

	ErrPollNotFound = errors.New("poll not found")
	ErrUnauthorized = errors.New("unauthorized action")

	// ErrPollClosingUnsupported is returned by ClosePoll, which is reserved
	// but intentionally not implemented.
	ErrPollClosingUnsupported = errors.New("poll closing is not supported")
)
