// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pollvm implements the polling program: polls and voter records
// stored at deterministically derived keys, with at-most-one-vote-per-voter
// enforced by the key space itself.
package pollvm

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ballot-labs/pollstore/database"
	"github.com/ballot-labs/pollstore/database/meterdb"
	"github.com/ballot-labs/pollstore/database/prefixdb"
	"github.com/ballot-labs/pollstore/database/versiondb"
	"github.com/ballot-labs/pollstore/ids"
	"github.com/ballot-labs/pollstore/utils/logging"
	"github.com/ballot-labs/pollstore/utils/timer/mockable"
)

const metricsNamespace = "pollvm"

var errNilDatabase = errors.New("nil database")

// Config parameterizes a Service. Only DB is required.
type Config struct {
	// DB is the backing record store.
	DB database.Database

	// Log defaults to a no-op logger.
	Log logging.Logger

	// Registerer receives the service and store metrics. Defaults to a
	// private registry.
	Registerer prometheus.Registerer

	// Authorizer defaults to allowing every identity. Signature verification
	// belongs to the host runtime, not to this service.
	Authorizer Authorizer

	// Dispatcher receives VoteCast events. Defaults to dropping them.
	Dispatcher Dispatcher
}

// Service executes poll operations as atomic, serializable transactions
// against the record store.
type Service struct {
	// lock serializes the check-then-stage-then-commit sequence of the
	// mutating operations. Reads hold the read lock.
	lock  sync.RWMutex
	clock mockable.Clock

	log        logging.Logger
	auth       Authorizer
	dispatcher Dispatcher
	metrics    metrics

	// baseDB stages every write of an operation; a single Commit applies them
	// all or none.
	baseDB *versiondb.Database
	polls  database.Database
	voters database.Database
}

// New returns a Service storing its records in config.DB.
func New(config Config) (*Service, error) {
	if config.DB == nil {
		return nil, errNilDatabase
	}

	log := config.Log
	if log == nil {
		log = logging.NoLog{}
	}
	auth := config.Authorizer
	if auth == nil {
		auth = AllowAll{}
	}
	dispatcher := config.Dispatcher
	if dispatcher == nil {
		dispatcher = NoOpDispatcher{}
	}
	registerer := config.Registerer
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}

	db, err := meterdb.New("db", registerer, config.DB)
	if err != nil {
		return nil, err
	}

	s := &Service{
		log:        log,
		auth:       auth,
		dispatcher: dispatcher,
	}
	if err := s.metrics.Initialize(metricsNamespace, registerer); err != nil {
		return nil, err
	}

	s.baseDB = versiondb.New(db)
	s.polls = prefixdb.New(pollSeed, s.baseDB)
	s.voters = prefixdb.New(voterSeed, s.baseDB)
	return s, nil
}

// CreatePoll validates the inputs, packs them into a new poll record and
// creates it at the key derived from (creator, pollID). [duration] is
// accepted for forward compatibility but not enforced; no poll-closing
// schedule exists.
func (s *Service) CreatePoll(
	creator ids.ID,
	pollID uint64,
	question string,
	options []string,
	duration int64,
) (ids.ID, error) {
	start := time.Now()
	defer func() {
		s.metrics.createPoll.Observe(float64(time.Since(start)))
	}()

	if !s.auth.Authorize(creator) {
		return ids.Empty, ErrUnauthorized
	}

	poll, err := NewPoll(pollID, creator, question, options, s.clock.Unix())
	if err != nil {
		return ids.Empty, err
	}
	pollBytes, err := poll.Bytes()
	if err != nil {
		return ids.Empty, err
	}

	key := PollKey(creator, pollID)

	s.lock.Lock()
	defer s.lock.Unlock()
	defer s.baseDB.Abort()

	// Create-if-absent: the derived key must be vacant. The same creator
	// reusing the same pollID is the only way to collide.
	has, err := s.polls.Has(key[:])
	if err != nil {
		return ids.Empty, err
	}
	if has {
		return ids.Empty, ErrDuplicatePoll
	}

	if err := s.polls.Put(key[:], pollBytes); err != nil {
		return ids.Empty, err
	}
	if err := s.baseDB.Commit(); err != nil {
		return ids.Empty, err
	}

	s.metrics.pollsCreated.Inc()
	s.log.Info("created poll",
		zap.Stringer("key", key),
		zap.Uint64("pollID", pollID),
		zap.Stringer("creator", creator),
		zap.Uint8("optionCount", poll.OptionCount),
		zap.Int64("duration", duration),
	)
	// Intentionally no event here: only votes are announced to subscribers.
	return key, nil
}

// CastVote records [voter]'s vote for option [optionIndex] of the poll at
// [pollKey]. The tally increment and the voter record creation commit
// together or not at all.
func (s *Service) CastVote(voter ids.ID, pollKey ids.ID, optionIndex uint8) error {
	start := time.Now()
	defer func() {
		s.metrics.castVote.Observe(float64(time.Since(start)))
	}()

	if !s.auth.Authorize(voter) {
		return ErrUnauthorized
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	defer s.baseDB.Abort()

	poll, err := s.getPoll(pollKey)
	if err != nil {
		return err
	}
	if optionIndex >= poll.OptionCount {
		return ErrInvalidOption
	}

	// The voter record's key is a pure function of (poll, voter), so a vacant
	// key is the one and only proof the voter has not voted. If two votes for
	// the same pair race, this check runs under the lock and exactly one of
	// them observes the vacancy.
	voterKey := VoterKey(pollKey, voter)
	has, err := s.voters.Has(voterKey[:])
	if err != nil {
		return err
	}
	if has {
		return ErrAlreadyVoted
	}

	now := s.clock.Unix()
	poll.Votes[optionIndex]++
	record := &VoterRecord{
		HasVoted:    true,
		VotedOption: optionIndex,
		VotedAt:     now,
		Voter:       voter,
		Poll:        pollKey,
	}

	pollBytes, err := poll.Bytes()
	if err != nil {
		return err
	}
	recordBytes, err := record.Bytes()
	if err != nil {
		return err
	}

	if err := s.polls.Put(pollKey[:], pollBytes); err != nil {
		return err
	}
	if err := s.voters.Put(voterKey[:], recordBytes); err != nil {
		return err
	}
	if err := s.baseDB.Commit(); err != nil {
		return err
	}

	s.metrics.votesCast.Inc()
	s.dispatcher.Dispatch(VoteCast{
		Poll:        pollKey,
		Voter:       voter,
		OptionIndex: optionIndex,
		Timestamp:   now,
	})
	s.log.Debug("vote cast",
		zap.Stringer("poll", pollKey),
		zap.Stringer("voter", voter),
		zap.Uint8("optionIndex", optionIndex),
	)
	return nil
}

// ClosePoll is reserved. The record layout carries no closing state and
// [duration] is never enforced, so closing is rejected outright rather than
// guessed at.
func (s *Service) ClosePoll(creator ids.ID, pollKey ids.ID) error {
	if !s.auth.Authorize(creator) {
		return ErrUnauthorized
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	poll, err := s.getPoll(pollKey)
	if err != nil {
		return err
	}
	if poll.Creator != creator {
		return ErrUnauthorized
	}
	return ErrPollClosingUnsupported
}

// GetPoll returns the poll stored at [pollKey].
func (s *Service) GetPoll(pollKey ids.ID) (*Poll, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.getPoll(pollKey)
}

func (s *Service) getPoll(pollKey ids.ID) (*Poll, error) {
	pollBytes, err := s.polls.Get(pollKey[:])
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrPollNotFound
	}
	if err != nil {
		return nil, err
	}
	return ParsePoll(pollBytes)
}

// GetVoterRecord returns the voter record for [voter] on the poll at
// [pollKey], or database.ErrNotFound if the identity has not voted.
func (s *Service) GetVoterRecord(pollKey ids.ID, voter ids.ID) (*VoterRecord, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	voterKey := VoterKey(pollKey, voter)
	recordBytes, err := s.voters.Get(voterKey[:])
	if err != nil {
		return nil, err
	}
	return ParseVoterRecord(recordBytes)
}

// HasVoted reports whether [voter] has voted on the poll at [pollKey].
func (s *Service) HasVoted(pollKey ids.ID, voter ids.ID) (bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	voterKey := VoterKey(pollKey, voter)
	return s.voters.Has(voterKey[:])
}
