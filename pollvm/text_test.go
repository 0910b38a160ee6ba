// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pollvm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeTextRoundTrip(t *testing.T) {
	tests := []string{
		"",
		"Yes",
		"Pineapple on pizza?",
		"with multibyte: ñandú 🗳️",
		strings.Repeat("a", MaxQuestionLen),
	}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			require := require.New(t)

			buf, length, err := EncodeText(text, MaxQuestionLen)
			require.NoError(err)
			require.Len(buf, MaxQuestionLen)
			require.Equal(len(text), length)
			require.Equal(text, DecodeText(buf, length))
		})
	}
}

func TestEncodeTextTooLong(t *testing.T) {
	require := require.New(t)

	_, _, err := EncodeText(strings.Repeat("a", MaxOptionLen+1), MaxOptionLen)
	require.ErrorIs(err, ErrTextTooLong)

	// Exactly at capacity still fits.
	buf, length, err := EncodeText(strings.Repeat("a", MaxOptionLen), MaxOptionLen)
	require.NoError(err)
	require.Equal(MaxOptionLen, length)
	require.Equal(strings.Repeat("a", MaxOptionLen), DecodeText(buf, length))
}

func TestEncodeTextCountsBytesNotRunes(t *testing.T) {
	require := require.New(t)

	// 16 runes, 32 bytes: over a 30 byte capacity.
	_, _, err := EncodeText(strings.Repeat("ñ", 16), MaxOptionLen)
	require.ErrorIs(err, ErrTextTooLong)
}

func TestDecodeTextLenient(t *testing.T) {
	require := require.New(t)

	// A stray continuation byte is substituted, not rejected.
	decoded := DecodeText([]byte{'o', 'k', 0x80}, 3)
	require.Equal("ok�", decoded)

	// A length beyond the buffer is clamped.
	require.Equal("ok", DecodeText([]byte("ok"), 5))
}

func TestDecodeTextIgnoresPadding(t *testing.T) {
	require := require.New(t)

	buf, length, err := EncodeText("No", MaxOptionLen)
	require.NoError(err)
	require.Equal("No", DecodeText(buf, length))
}
