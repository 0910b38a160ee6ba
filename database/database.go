// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package database defines the contract of the record store: a key-value
// database whose keys are derived from declared seed tuples by the layers
// above it.
package database

import (
	"context"
	"io"
)

// KeyValueReader allows the reading of a database.
type KeyValueReader interface {
	// Has returns if the key is set in the database
	Has(key []byte) (bool, error)

	// Get returns the value the key maps to in the database
	Get(key []byte) ([]byte, error)
}

// KeyValueWriter allows the writing of a database.
type KeyValueWriter interface {
	// Put sets the value of the provided key to the provided value
	Put(key []byte, value []byte) error
}

// KeyValueDeleter allows the deletion of keys from a database.
type KeyValueDeleter interface {
	// Delete removes the key from the database
	Delete(key []byte) error
}

// KeyValueReaderWriter allows the reading and writing of a database.
type KeyValueReaderWriter interface {
	KeyValueReader
	KeyValueWriter
}

// KeyValueWriterDeleter allows the writing and deleting of a database.
type KeyValueWriterDeleter interface {
	KeyValueWriter
	KeyValueDeleter
}

// KeyValueReaderWriterDeleter allows the reading, writing and deleting of a
// database.
type KeyValueReaderWriterDeleter interface {
	KeyValueReader
	KeyValueWriter
	KeyValueDeleter
}

// Batch is a write-only database that commits changes to its host database
// when Write is called. A batch cannot be used concurrently.
type Batch interface {
	KeyValueWriterDeleter

	// Size retrieves the amount of data queued up for writing, this includes
	// the keys, values, and deleted keys.
	Size() int

	// Write flushes any accumulated data to disk.
	Write() error

	// Reset resets the batch for reuse.
	Reset()

	// Replay replays the batch contents in the same order they were written
	// to the batch.
	Replay(w KeyValueWriterDeleter) error

	// Inner returns a Batch writing to the inner database, if one exists. If
	// this batch is already writing to the base DB, then itself should be
	// returned.
	Inner() Batch
}

// Batcher is implemented by any database that supports batched writes.
type Batcher interface {
	// NewBatch creates a write-only database that buffers changes to its host
	// db until a final write is called.
	NewBatch() Batch
}

// Iterator iterates over a database's key/value pairs in ascending key order.
//
// When it encounters an error any seek will return false and will yield no
// key/value pairs. The error can be queried by calling the Error method.
// Calling Release is still necessary.
//
// An iterator must be released after use, but it is not necessary to read an
// iterator until exhaustion. An iterator is not safe for concurrent use, but
// it is safe to use multiple iterators concurrently.
type Iterator interface {
	// Next moves the iterator to the next key/value pair. It returns whether
	// the iterator is exhausted.
	Next() bool

	// Error returns any accumulated error. Exhausting all the key/value pairs
	// is not considered to be an error.
	Error() error

	// Key returns the key of the current key/value pair, or nil if done.
	Key() []byte

	// Value returns the value of the current key/value pair, or nil if done.
	Value() []byte

	// Release releases associated resources. Release should always succeed
	// and can be called multiple times without causing error.
	Release()
}

// Iteratee is implemented by any database that supports iteration.
type Iteratee interface {
	// NewIterator creates an iterator over the entire keyspace contained
	// within the key-value database.
	NewIterator() Iterator

	// NewIteratorWithStart creates an iterator over a subset of database
	// content starting at a particular initial key.
	NewIteratorWithStart(start []byte) Iterator

	// NewIteratorWithPrefix creates an iterator over a subset of database
	// content with a particular key prefix.
	NewIteratorWithPrefix(prefix []byte) Iterator

	// NewIteratorWithStartAndPrefix creates an iterator over a subset of
	// database content with a particular key prefix, starting at a particular
	// initial key.
	NewIteratorWithStartAndPrefix(start, prefix []byte) Iterator
}

// Compacter allows the compaction of a database.
type Compacter interface {
	// Compact the underlying DB for the given key range.
	// Specifically, deleted and overwritten versions are discarded,
	// and the data is rearranged to reduce the cost of operations
	// needed to access the data. This operation should typically only
	// be invoked by users who understand the underlying implementation.
	//
	// A nil start is treated as a key before all keys in the DB.
	// And a nil limit is treated as a key after all keys in the DB.
	// Therefore if both are nil then it will compact entire DB.
	Compact(start []byte, limit []byte) error
}

// Database contains all the methods required to interact with a database.
type Database interface {
	KeyValueReaderWriterDeleter
	Batcher
	Iteratee
	Compacter
	io.Closer

	// HealthCheck returns nil if the database is healthy.
	HealthCheck(context.Context) (interface{}, error)
}

// IteratorError is an iterator that immediately reports an error.
type IteratorError struct {
	Err error
}

func (*IteratorError) Next() bool {
	return false
}

func (i *IteratorError) Error() error {
	return i.Err
}

func (*IteratorError) Key() []byte {
	return nil
}

func (*IteratorError) Value() []byte {
	return nil
}

func (*IteratorError) Release() {}
