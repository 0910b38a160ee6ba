// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pollvm

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ballot-labs/pollstore/database"
	"github.com/ballot-labs/pollstore/database/memdb"
	"github.com/ballot-labs/pollstore/ids"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	s, err := New(Config{DB: memdb.New()})
	require.NoError(t, err)
	return s
}

func TestCreatePollValidation(t *testing.T) {
	tests := []struct {
		name        string
		question    string
		options     []string
		expectedErr error
	}{
		{
			name:     "two options",
			question: "Pineapple on pizza?",
			options:  []string{"Yes", "No"},
		},
		{
			name:     "four options",
			question: "favorite season",
			options:  []string{"spring", "summer", "fall", "winter"},
		},
		{
			name:     "question at limit",
			question: strings.Repeat("q", MaxQuestionLen),
			options:  []string{"a", "b"},
		},
		{
			name:     "option at limit",
			question: "q",
			options:  []string{strings.Repeat("o", MaxOptionLen), "b"},
		},
		{
			name:        "question over limit",
			question:    strings.Repeat("q", MaxQuestionLen+1),
			options:     []string{"a", "b"},
			expectedErr: ErrQuestionTooLong,
		},
		{
			name:        "one option",
			question:    "q",
			options:     []string{"only"},
			expectedErr: ErrInsufficientOptions,
		},
		{
			name:        "no options",
			question:    "q",
			options:     nil,
			expectedErr: ErrInsufficientOptions,
		},
		{
			name:        "five options",
			question:    "q",
			options:     []string{"a", "b", "c", "d", "e"},
			expectedErr: ErrTooManyOptions,
		},
		{
			name:        "option over limit",
			question:    "q",
			options:     []string{strings.Repeat("o", MaxOptionLen+1), "b"},
			expectedErr: ErrOptionTooLong,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			s := newTestService(t)
			key, err := s.CreatePoll(ids.GenerateTestID(), 1, test.question, test.options, 0)
			require.ErrorIs(err, test.expectedErr)
			if test.expectedErr != nil {
				require.Equal(ids.Empty, key)
				return
			}

			poll, err := s.GetPoll(key)
			require.NoError(err)
			require.Equal(test.question, poll.Question())
			require.Equal(test.options, poll.Options())
			require.Equal([MaxOptions]uint64{}, poll.Votes)
		})
	}
}

func TestCreatePollValidationOrder(t *testing.T) {
	require := require.New(t)

	// The question is checked before the option count, and the count before
	// the option lengths.
	s := newTestService(t)

	_, err := s.CreatePoll(
		ids.GenerateTestID(),
		1,
		strings.Repeat("q", MaxQuestionLen+1),
		[]string{"only"},
		0,
	)
	require.ErrorIs(err, ErrQuestionTooLong)

	_, err = s.CreatePoll(
		ids.GenerateTestID(),
		1,
		"q",
		[]string{strings.Repeat("o", MaxOptionLen+1)},
		0,
	)
	require.ErrorIs(err, ErrInsufficientOptions)
}

func TestCreatePollDuplicate(t *testing.T) {
	require := require.New(t)

	s := newTestService(t)
	creator := ids.GenerateTestID()

	key, err := s.CreatePoll(creator, 7, "first", []string{"a", "b"}, 0)
	require.NoError(err)

	_, err = s.CreatePoll(creator, 7, "second", []string{"c", "d"}, 0)
	require.ErrorIs(err, ErrDuplicatePoll)

	// The original record is untouched.
	poll, err := s.GetPoll(key)
	require.NoError(err)
	require.Equal("first", poll.Question())

	// A different pollID or a different creator is a different key.
	otherKey, err := s.CreatePoll(creator, 8, "second", []string{"c", "d"}, 0)
	require.NoError(err)
	require.NotEqual(key, otherKey)

	_, err = s.CreatePoll(ids.GenerateTestID(), 7, "second", []string{"c", "d"}, 0)
	require.NoError(err)
}

func TestCreatePollDeterministicKey(t *testing.T) {
	require := require.New(t)

	s := newTestService(t)
	creator := ids.GenerateTestID()

	key, err := s.CreatePoll(creator, 3, "q", []string{"a", "b"}, 0)
	require.NoError(err)

	// A reader can derive the key without ever having seen the create.
	require.Equal(PollKey(creator, 3), key)
}

func TestCastVoteScenario(t *testing.T) {
	require := require.New(t)

	s := newTestService(t)

	key, err := s.CreatePoll(ids.GenerateTestID(), 1, "Pineapple on pizza?", []string{"Yes", "No"}, 0)
	require.NoError(err)

	voterA := ids.GenerateTestID()
	voterB := ids.GenerateTestID()

	require.NoError(s.CastVote(voterA, key, 0))
	poll, err := s.GetPoll(key)
	require.NoError(err)
	require.Equal([MaxOptions]uint64{1, 0, 0, 0}, poll.Votes)

	require.NoError(s.CastVote(voterB, key, 1))
	poll, err = s.GetPoll(key)
	require.NoError(err)
	require.Equal([MaxOptions]uint64{1, 1, 0, 0}, poll.Votes)

	// Voter A tries again, on either option.
	err = s.CastVote(voterA, key, 1)
	require.ErrorIs(err, ErrAlreadyVoted)
	err = s.CastVote(voterA, key, 0)
	require.ErrorIs(err, ErrAlreadyVoted)

	poll, err = s.GetPoll(key)
	require.NoError(err)
	require.Equal([MaxOptions]uint64{1, 1, 0, 0}, poll.Votes)

	record, err := s.GetVoterRecord(key, voterA)
	require.NoError(err)
	require.True(record.HasVoted)
	require.Equal(uint8(0), record.VotedOption)
	require.Equal(voterA, record.Voter)
	require.Equal(key, record.Poll)
}

func TestCastVoteInvalidOption(t *testing.T) {
	require := require.New(t)

	s := newTestService(t)

	key, err := s.CreatePoll(ids.GenerateTestID(), 1, "q", []string{"a", "b", "c"}, 0)
	require.NoError(err)

	voter := ids.GenerateTestID()

	// The first out-of-range index is exactly the option count.
	err = s.CastVote(voter, key, 3)
	require.ErrorIs(err, ErrInvalidOption)

	// Nothing committed: the voter may still vote and the tallies are clean.
	hasVoted, err := s.HasVoted(key, voter)
	require.NoError(err)
	require.False(hasVoted)

	poll, err := s.GetPoll(key)
	require.NoError(err)
	require.Equal([MaxOptions]uint64{}, poll.Votes)

	require.NoError(s.CastVote(voter, key, 2))
}

func TestCastVotePollNotFound(t *testing.T) {
	require := require.New(t)

	s := newTestService(t)

	err := s.CastVote(ids.GenerateTestID(), ids.GenerateTestID(), 0)
	require.ErrorIs(err, ErrPollNotFound)

	_, err = s.GetPoll(ids.GenerateTestID())
	require.ErrorIs(err, ErrPollNotFound)
}

func TestCastVoteSameVoterAcrossPolls(t *testing.T) {
	require := require.New(t)

	s := newTestService(t)
	creator := ids.GenerateTestID()
	voter := ids.GenerateTestID()

	keyA, err := s.CreatePoll(creator, 1, "first", []string{"a", "b"}, 0)
	require.NoError(err)
	keyB, err := s.CreatePoll(creator, 2, "second", []string{"a", "b"}, 0)
	require.NoError(err)

	// One vote per poll, not one vote globally.
	require.NoError(s.CastVote(voter, keyA, 0))
	require.NoError(s.CastVote(voter, keyB, 1))

	err = s.CastVote(voter, keyA, 1)
	require.ErrorIs(err, ErrAlreadyVoted)
}

func TestCastVoteConcurrentVoters(t *testing.T) {
	require := require.New(t)

	const numVoters = 64

	s := newTestService(t)

	key, err := s.CreatePoll(ids.GenerateTestID(), 1, "q", []string{"a", "b"}, 0)
	require.NoError(err)

	voters := make([]ids.ID, numVoters)
	for i := range voters {
		voters[i] = ids.GenerateTestID()
	}

	eg := errgroup.Group{}
	for _, voter := range voters {
		voter := voter
		eg.Go(func() error {
			return s.CastVote(voter, key, 0)
		})
	}
	require.NoError(eg.Wait())

	poll, err := s.GetPoll(key)
	require.NoError(err)
	require.Equal(uint64(numVoters), poll.Votes[0])

	count, err := database.Count(s.voters)
	require.NoError(err)
	require.Equal(numVoters, count)
}

func TestCastVoteConcurrentSameVoter(t *testing.T) {
	require := require.New(t)

	const attempts = 16

	s := newTestService(t)

	key, err := s.CreatePoll(ids.GenerateTestID(), 1, "q", []string{"a", "b"}, 0)
	require.NoError(err)

	voter := ids.GenerateTestID()

	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			results <- s.CastVote(voter, key, 0)
		}()
	}

	succeeded := 0
	for i := 0; i < attempts; i++ {
		err := <-results
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(err, ErrAlreadyVoted)
	}
	require.Equal(1, succeeded)

	poll, err := s.GetPoll(key)
	require.NoError(err)
	require.Equal(uint64(1), poll.Votes[0])
}

func TestUnauthorized(t *testing.T) {
	require := require.New(t)

	s, err := New(Config{
		DB:         memdb.New(),
		Authorizer: DenyAll{},
	})
	require.NoError(err)

	_, err = s.CreatePoll(ids.GenerateTestID(), 1, "q", []string{"a", "b"}, 0)
	require.ErrorIs(err, ErrUnauthorized)

	err = s.CastVote(ids.GenerateTestID(), ids.GenerateTestID(), 0)
	require.ErrorIs(err, ErrUnauthorized)
}

func TestClosePoll(t *testing.T) {
	require := require.New(t)

	s := newTestService(t)
	creator := ids.GenerateTestID()

	key, err := s.CreatePoll(creator, 1, "q", []string{"a", "b"}, 0)
	require.NoError(err)

	// Only the creator may even attempt the close.
	err = s.ClosePoll(ids.GenerateTestID(), key)
	require.ErrorIs(err, ErrUnauthorized)

	err = s.ClosePoll(creator, key)
	require.ErrorIs(err, ErrPollClosingUnsupported)

	err = s.ClosePoll(creator, ids.GenerateTestID())
	require.ErrorIs(err, ErrPollNotFound)
}

func TestVoteCastEvents(t *testing.T) {
	require := require.New(t)

	fanOut := NewFanOut()
	events := fanOut.Register(4)

	s, err := New(Config{
		DB:         memdb.New(),
		Dispatcher: fanOut,
	})
	require.NoError(err)

	now := time.Unix(1700000000, 0)
	s.clock.Set(now)

	key, err := s.CreatePoll(ids.GenerateTestID(), 1, "q", []string{"a", "b"}, 0)
	require.NoError(err)

	// Creation is silent.
	select {
	case event := <-events:
		require.FailNow("unexpected event", "%+v", event)
	default:
	}

	voter := ids.GenerateTestID()
	require.NoError(s.CastVote(voter, key, 1))

	event := <-events
	require.Equal(VoteCast{
		Poll:        key,
		Voter:       voter,
		OptionIndex: 1,
		Timestamp:   now.Unix(),
	}, event)

	// A rejected vote emits nothing.
	err = s.CastVote(voter, key, 0)
	require.ErrorIs(err, ErrAlreadyVoted)
	select {
	case event := <-events:
		require.FailNow("unexpected event", "%+v", event)
	default:
	}
}

func TestTimestampsFromClock(t *testing.T) {
	require := require.New(t)

	s := newTestService(t)

	createdAt := time.Unix(1700000000, 0)
	s.clock.Set(createdAt)

	creator := ids.GenerateTestID()
	key, err := s.CreatePoll(creator, 1, "q", []string{"a", "b"}, 0)
	require.NoError(err)

	poll, err := s.GetPoll(key)
	require.NoError(err)
	require.Equal(createdAt.Unix(), poll.CreatedAt)

	votedAt := createdAt.Add(time.Hour)
	s.clock.Set(votedAt)

	voter := ids.GenerateTestID()
	require.NoError(s.CastVote(voter, key, 0))

	record, err := s.GetVoterRecord(key, voter)
	require.NoError(err)
	require.Equal(votedAt.Unix(), record.VotedAt)
}

func TestVoterRecordNotFound(t *testing.T) {
	require := require.New(t)

	s := newTestService(t)

	key, err := s.CreatePoll(ids.GenerateTestID(), 1, "q", []string{"a", "b"}, 0)
	require.NoError(err)

	_, err = s.GetVoterRecord(key, ids.GenerateTestID())
	require.ErrorIs(err, database.ErrNotFound)

	hasVoted, err := s.HasVoted(key, ids.GenerateTestID())
	require.NoError(err)
	require.False(hasVoted)
}

func TestNewRequiresDatabase(t *testing.T) {
	_, err := New(Config{})
	require.ErrorIs(t, err, errNilDatabase)
}

func TestServiceStateSurvivesReopen(t *testing.T) {
	require := require.New(t)

	db := memdb.New()

	s, err := New(Config{DB: db})
	require.NoError(err)

	creator := ids.GenerateTestID()
	voter := ids.GenerateTestID()

	key, err := s.CreatePoll(creator, 1, "q", []string{"a", "b"}, 0)
	require.NoError(err)
	require.NoError(s.CastVote(voter, key, 1))

	// A fresh service over the same store sees the committed records.
	reopened, err := New(Config{DB: db})
	require.NoError(err)

	poll, err := reopened.GetPoll(key)
	require.NoError(err)
	require.Equal([MaxOptions]uint64{0, 1, 0, 0}, poll.Votes)

	err = reopened.CastVote(voter, key, 0)
	require.ErrorIs(err, ErrAlreadyVoted)
}
