// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package prefixdb partitions a database into sub-databases by prefixing all
// keys with a unique value. The poll and voter-record key spaces live in
// separate partitions of one backing store.
package prefixdb

import (
	"context"
	"sync"

	"github.com/ballot-labs/pollstore/database"
	"github.com/ballot-labs/pollstore/utils/hashing"
)

var (
	_ database.Database = (*Database)(nil)
	_ database.Batch    = (*batch)(nil)
	_ database.Iterator = (*iterator)(nil)
)

// Database partitions a database into a sub-database by prefixing all keys
// with a unique value.
type Database struct {
	// All keys in this db begin with this byte slice
	dbPrefix []byte
	// Lexically one greater than dbPrefix, defining the end of this db's key
	// range
	dbLimit []byte

	// lock needs to be held during Close to guarantee db will not be set to
	// nil concurrently with another operation. All other operations can hold
	// RLock.
	lock sync.RWMutex
	// The underlying storage
	db     database.Database
	closed bool
}

// New returns a new prefixed database. Prefixes are hashed so that nested
// partitions can never construct colliding key ranges.
func New(prefix []byte, db database.Database) *Database {
	if prefixDB, ok := db.(*Database); ok {
		return newDB(
			JoinPrefixes(prefixDB.dbPrefix, prefix),
			prefixDB.db,
		)
	}
	return newDB(
		MakePrefix(prefix),
		db,
	)
}

func newDB(prefix []byte, db database.Database) *Database {
	return &Database{
		dbPrefix: prefix,
		dbLimit:  incrementByteSlice(prefix),
		db:       db,
	}
}

func MakePrefix(prefix []byte) []byte {
	return hashing.ComputeHash256(prefix)
}

func JoinPrefixes(firstPrefix, secondPrefix []byte) []byte {
	simplePrefix := make([]byte, len(firstPrefix)+len(secondPrefix))
	copy(simplePrefix, firstPrefix)
	copy(simplePrefix[len(firstPrefix):], secondPrefix)
	return MakePrefix(simplePrefix)
}

func incrementByteSlice(orig []byte) []byte {
	n := len(orig)
	buf := make([]byte, n)
	copy(buf, orig)
	for i := n - 1; i >= 0; i-- {
		buf[i]++
		if buf[i] != 0 {
			break
		}
	}
	return buf
}

// prefix returns a copy of [key] with the database prefix prepended.
func (db *Database) prefix(key []byte) []byte {
	prefixedKey := make([]byte, len(db.dbPrefix)+len(key))
	copy(prefixedKey, db.dbPrefix)
	copy(prefixedKey[len(db.dbPrefix):], key)
	return prefixedKey
}

func (db *Database) Has(key []byte) (bool, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return false, database.ErrClosed
	}
	return db.db.Has(db.prefix(key))
}

func (db *Database) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, database.ErrClosed
	}
	return db.db.Get(db.prefix(key))
}

func (db *Database) Put(key, value []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	return db.db.Put(db.prefix(key), value)
}

func (db *Database) Delete(key []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	return db.db.Delete(db.prefix(key))
}

func (db *Database) NewBatch() database.Batch {
	return &batch{
		db:    db,
		inner: db.db.NewBatch(),
	}
}

func (db *Database) NewIterator() database.Iterator {
	return db.NewIteratorWithStartAndPrefix(nil, nil)
}

func (db *Database) NewIteratorWithStart(start []byte) database.Iterator {
	return db.NewIteratorWithStartAndPrefix(start, nil)
}

func (db *Database) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	return db.NewIteratorWithStartAndPrefix(nil, prefix)
}

func (db *Database) NewIteratorWithStartAndPrefix(start, prefix []byte) database.Iterator {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return &database.IteratorError{
			Err: database.ErrClosed,
		}
	}
	return &iterator{
		Iterator:  db.db.NewIteratorWithStartAndPrefix(db.prefix(start), db.prefix(prefix)),
		prefixLen: len(db.dbPrefix),
	}
}

func (db *Database) Compact(start, limit []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	prefixedStart := db.prefix(start)
	prefixedLimit := db.dbLimit
	if limit != nil {
		prefixedLimit = db.prefix(limit)
	}
	return db.db.Compact(prefixedStart, prefixedLimit)
}

// Close flags this partition as closed. The underlying database is left open
// for the other partitions that share it.
func (db *Database) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return database.ErrClosed
	}
	db.closed = true
	return nil
}

func (db *Database) HealthCheck(ctx context.Context) (interface{}, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, database.ErrClosed
	}
	return db.db.HealthCheck(ctx)
}

// batch forwards prefixed operations to a batch on the underlying database
// and mirrors them in BatchOps so Replay can reconstruct the caller's view.
type batch struct {
	database.BatchOps

	db    *Database
	inner database.Batch
}

// Put queues the prefixed key for writing.
func (b *batch) Put(key, value []byte) error {
	prefixedKey := b.db.prefix(key)
	if err := b.BatchOps.Put(prefixedKey, value); err != nil {
		return err
	}
	return b.inner.Put(prefixedKey, value)
}

// Delete queues the prefixed key for deletion.
func (b *batch) Delete(key []byte) error {
	prefixedKey := b.db.prefix(key)
	if err := b.BatchOps.Delete(prefixedKey); err != nil {
		return err
	}
	return b.inner.Delete(prefixedKey)
}

func (b *batch) Write() error {
	b.db.lock.RLock()
	defer b.db.lock.RUnlock()

	if b.db.closed {
		return database.ErrClosed
	}
	return b.inner.Write()
}

func (b *batch) Reset() {
	b.BatchOps.Reset()
	b.inner.Reset()
}

// Replay replays the queued operations with the partition prefix stripped, so
// the target sees the keys the caller originally wrote.
func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	prefixLen := len(b.db.dbPrefix)
	for _, op := range b.Ops {
		key := op.Key[prefixLen:]
		if op.Delete {
			if err := w.Delete(key); err != nil {
				return err
			}
		} else if err := w.Put(key, op.Value); err != nil {
			return err
		}
	}
	return nil
}

// Inner returns the batch on the underlying database holding the prefixed
// operations queued so far.
func (b *batch) Inner() database.Batch {
	return b.inner
}

// iterator strips the partition prefix from the keys of the wrapped iterator.
type iterator struct {
	database.Iterator

	prefixLen int
}

func (it *iterator) Key() []byte {
	key := it.Iterator.Key()
	if len(key) >= it.prefixLen {
		return key[it.prefixLen:]
	}
	return key
}
