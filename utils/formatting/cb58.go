// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package formatting

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58/base58"

	"github.com/ballot-labs/pollstore/utils/hashing"
)

const (
	checksumLen = 4

	// maximum length a byte slice can be marshalled to a string. Must be
	// longer than an identifier plus its checksum.
	maxCB58Size = 16 * 1024 // 16 KiB
)

var (
	ErrEncodingOverflow = errors.New("encoding overflow")
	errMissingChecksum  = errors.New("input string is smaller than the checksum size")
	errBadChecksum      = errors.New("invalid input checksum")
)

// Encode returns the checksummed base-58 encoding of [b].
func Encode(b []byte) (string, error) {
	if len(b) > maxCB58Size {
		return "", fmt.Errorf("%w: byte slice length (%d) > maximum for cb58 (%d)", ErrEncodingOverflow, len(b), maxCB58Size)
	}
	checked := make([]byte, len(b)+checksumLen)
	copy(checked, b)
	copy(checked[len(b):], hashing.Checksum(b, checksumLen))
	return base58.Encode(checked), nil
}

// Decode is the inverse of Encode. It verifies the trailing checksum before
// returning the raw bytes.
func Decode(str string) ([]byte, error) {
	b, err := base58.Decode(str)
	if err != nil {
		return nil, err
	}
	if len(b) < checksumLen {
		return nil, errMissingChecksum
	}

	rawBytes := b[:len(b)-checksumLen]
	checksum := b[len(b)-checksumLen:]

	if !bytes.Equal(checksum, hashing.Checksum(rawBytes, checksumLen)) {
		return nil, errBadChecksum
	}
	return rawBytes, nil
}
