// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ids

import (
	"bytes"
	"fmt"

	"github.com/ballot-labs/pollstore/utils/formatting"
	"github.com/ballot-labs/pollstore/utils/hashing"
)

// IDLen is the number of bytes in an ID.
const IDLen = 32

// Empty is a useful all zero value.
var Empty = ID{}

// ID wraps a 32 byte hash used as an identifier for records and identities.
type ID [IDLen]byte

// ToID attempts to convert a byte slice into an id.
func ToID(bytes []byte) (ID, error) {
	hash, err := hashing.ToHash256(bytes)
	return ID(hash), err
}

// FromString is the inverse of ID.String().
func FromString(idStr string) (ID, error) {
	b, err := formatting.Decode(idStr)
	if err != nil {
		return ID{}, err
	}
	return ToID(b)
}

// Any modification to Bytes will be lost since id is passed-by-value.
// Directly access id[:] if you need to modify the ID.
func (id ID) Bytes() []byte {
	return id[:]
}

func (id ID) String() string {
	// Encoding an ID can never overflow the encoder's input limit.
	str, _ := formatting.Encode(id[:])
	return str
}

func (id ID) MarshalJSON() ([]byte, error) {
	return []byte("\"" + id.String() + "\""), nil
}

func (id *ID) UnmarshalJSON(b []byte) error {
	str := string(b)
	if str == "null" {
		return nil
	}
	if len(str) < 2 || str[0] != '"' || str[len(str)-1] != '"' {
		return fmt.Errorf("expected a quoted id, got %q", str)
	}
	newID, err := FromString(str[1 : len(str)-1])
	if err != nil {
		return err
	}
	*id = newID
	return nil
}

func (id ID) Compare(other ID) int {
	return bytes.Compare(id[:], other[:])
}
