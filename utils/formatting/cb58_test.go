// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package formatting

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	require := require.New(t)

	id := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	str, err := Encode(id)
	require.NoError(err)

	decoded, err := Decode(str)
	require.NoError(err)
	require.Equal(id, decoded)
}

func TestDecodeBadChecksum(t *testing.T) {
	require := require.New(t)

	str, err := Encode([]byte{1, 2, 3})
	require.NoError(err)

	// Flip a character to corrupt the checksum.
	corrupted := []byte(str)
	if corrupted[0] == '2' {
		corrupted[0] = '3'
	} else {
		corrupted[0] = '2'
	}
	_, err = Decode(string(corrupted))
	require.Error(err)
}

func TestDecodeTooShort(t *testing.T) {
	// "1" is valid base58 but decodes to a single byte, shorter than the
	// checksum itself.
	_, err := Decode("1")
	require.ErrorIs(t, err, errMissingChecksum)
}
