// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pollvm

import (
	"sync"

	"github.com/ballot-labs/pollstore/ids"
)

var (
	_ Dispatcher = NoOpDispatcher{}
	_ Dispatcher = (*FanOut)(nil)
)

// VoteCast is emitted to subscribers after a vote has committed. No event is
// emitted for poll creation.
type VoteCast struct {
	Poll        ids.ID `json:"poll"`
	Voter       ids.ID `json:"voter"`
	OptionIndex uint8  `json:"optionIndex"`
	Timestamp   int64  `json:"timestamp"`
}

// Dispatcher delivers committed vote events to external subscribers.
type Dispatcher interface {
	Dispatch(event VoteCast)
}

// NoOpDispatcher drops every event.
type NoOpDispatcher struct{}

func (NoOpDispatcher) Dispatch(VoteCast) {}

// FanOut delivers each event to every registered subscriber channel. A
// subscriber whose channel is full misses the event rather than stalling the
// voting path.
type FanOut struct {
	lock        sync.RWMutex
	subscribers []chan VoteCast
}

func NewFanOut() *FanOut {
	return &FanOut{}
}

// Register returns a channel that will receive up to [buffer] undelivered
// events.
func (f *FanOut) Register(buffer int) <-chan VoteCast {
	f.lock.Lock()
	defer f.lock.Unlock()

	subscriber := make(chan VoteCast, buffer)
	f.subscribers = append(f.subscribers, subscriber)
	return subscriber
}

func (f *FanOut) Dispatch(event VoteCast) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	for _, subscriber := range f.subscribers {
		select {
		case subscriber <- event:
		default:
		}
	}
}
