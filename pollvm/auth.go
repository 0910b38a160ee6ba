// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pollvm

import "github.com/ballot-labs/pollstore/ids"

var (
	_ Authorizer = AllowAll{}
	_ Authorizer = DenyAll{}
)

// Authorizer is the identity collaborator. The host runtime that verified the
// caller's signature decides whether an identity may act; the service never
// assumes a specific execution environment.
type Authorizer interface {
	Authorize(identity ids.ID) bool
}

// AllowAll authorizes every identity.
type AllowAll struct{}

func (AllowAll) Authorize(ids.ID) bool {
	return true
}

// DenyAll rejects every identity. Useful for tests.
type DenyAll struct{}

func (DenyAll) Authorize(ids.ID) bool {
	return false
}
