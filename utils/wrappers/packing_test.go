// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wrappers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackerPackByte(t *testing.T) {
	require := require.New(t)

	p := Packer{MaxSize: 1}

	p.PackByte(0x01)
	require.NoError(p.Err)
	require.Equal([]byte{0x01}, p.Bytes)

	p.PackByte(0x02)
	require.ErrorIs(p.Err, ErrInsufficientLength)
}

func TestPackerUnpackByte(t *testing.T) {
	require := require.New(t)

	p := Packer{Bytes: []byte{0x01}}

	require.Equal(byte(0x01), p.UnpackByte())
	require.NoError(p.Err)

	require.Zero(p.UnpackByte())
	require.ErrorIs(p.Err, ErrInsufficientLength)
}

func TestPackerShortLittleEndian(t *testing.T) {
	require := require.New(t)

	p := Packer{MaxSize: ShortLen}
	p.PackShort(0x0102)
	require.NoError(p.Err)
	require.Equal([]byte{0x02, 0x01}, p.Bytes)

	up := Packer{Bytes: p.Bytes}
	require.Equal(uint16(0x0102), up.UnpackShort())
	require.NoError(up.Err)
}

func TestPackerLongLittleEndian(t *testing.T) {
	require := require.New(t)

	p := Packer{MaxSize: LongLen}
	p.PackLong(0x0102030405060708)
	require.NoError(p.Err)
	require.Equal([]byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}, p.Bytes)

	up := Packer{Bytes: p.Bytes}
	require.Equal(uint64(0x0102030405060708), up.UnpackLong())
	require.NoError(up.Err)
}

func TestPackerBool(t *testing.T) {
	require := require.New(t)

	p := Packer{MaxSize: 2*BoolLen + 1}
	p.PackBool(false)
	p.PackBool(true)
	require.NoError(p.Err)
	require.Equal([]byte{0x00, 0x01}, p.Bytes)

	up := Packer{Bytes: p.Bytes}
	require.False(up.UnpackBool())
	require.True(up.UnpackBool())
	require.NoError(up.Err)

	bad := Packer{Bytes: []byte{0x02}}
	bad.UnpackBool()
	require.ErrorIs(bad.Err, errBadBool)
}

func TestPackerFixedBytes(t *testing.T) {
	require := require.New(t)

	p := Packer{MaxSize: 4}
	p.PackFixedBytes([]byte("Cats"))
	require.NoError(p.Err)
	require.Equal([]byte("Cats"), p.Bytes)

	p.PackFixedBytes([]byte("Cats"))
	require.ErrorIs(p.Err, ErrInsufficientLength)

	up := Packer{Bytes: p.Bytes}
	require.Equal([]byte("Cats"), up.UnpackFixedBytes(4))
	require.NoError(up.Err)

	require.Nil(up.UnpackFixedBytes(1))
	require.ErrorIs(up.Err, ErrInsufficientLength)
}

func TestPackerExpand(t *testing.T) {
	require := require.New(t)

	p := Packer{Bytes: make([]byte, 0, 16), MaxSize: 16}
	p.PackLong(1)
	p.PackLong(2)
	require.NoError(p.Err)
	require.Len(p.Bytes, 16)

	p.PackByte(0)
	require.ErrorIs(p.Err, ErrInsufficientLength)
}
