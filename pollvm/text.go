// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pollvm

import (
	"errors"
	"strings"
)

// ErrTextTooLong is returned by EncodeText when the text does not fit the
// field capacity.
var ErrTextTooLong = errors.New("text exceeds field capacity")

// EncodeText packs a variable-length UTF-8 string into a fixed-size buffer.
// The text is copied left-aligned into a fresh buffer of [capacity] bytes and
// the exact byte length is returned alongside it. Bytes past the returned
// length are zero padding and carry no meaning.
func EncodeText(text string, capacity int) ([]byte, int, error) {
	if len(text) > capacity {
		return nil, 0, ErrTextTooLong
	}
	buf := make([]byte, capacity)
	copy(buf, text)
	return buf, len(text), nil
}

// DecodeText returns the UTF-8 text formed by the first [length] bytes of
// [buf]. Malformed UTF-8 is replaced with the replacement character rather
// than rejected; well-formed input was enforced when the record was written,
// so the read path stays infallible.
func DecodeText(buf []byte, length int) string {
	if length > len(buf) {
		length = len(buf)
	}
	return strings.ToValidUTF8(string(buf[:length]), "�")
}
