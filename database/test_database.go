// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// Tests is the list of conformance tests every Database implementation must
// pass.
var Tests = []func(t *testing.T, db Database){
	TestSimpleKeyValue,
	TestKeyEmptyValue,
	TestSimpleKeyValueClosed,
	TestBatchPut,
	TestBatchDelete,
	TestBatchReset,
	TestBatchReplay,
	TestBatchInner,
	TestIterator,
	TestIteratorStart,
	TestIteratorPrefix,
	TestIteratorStartAndPrefix,
	TestIteratorClosed,
	TestCompactNoPanic,
	TestClear,
	TestHealthCheck,
}

// TestSimpleKeyValue tests to make sure that simple Put + Get + Delete + Has
// calls return the expected values.
func TestSimpleKeyValue(t *testing.T, db Database) {
	require := require.New(t)

	key := []byte("hello")
	value := []byte("world")

	has, err := db.Has(key)
	require.NoError(err)
	require.False(has)

	_, err = db.Get(key)
	require.ErrorIs(err, ErrNotFound)

	require.NoError(db.Delete(key))

	require.NoError(db.Put(key, value))

	has, err = db.Has(key)
	require.NoError(err)
	require.True(has)

	v, err := db.Get(key)
	require.NoError(err)
	require.Equal(value, v)

	require.NoError(db.Delete(key))

	has, err = db.Has(key)
	require.NoError(err)
	require.False(has)

	_, err = db.Get(key)
	require.ErrorIs(err, ErrNotFound)

	require.NoError(db.Delete(key))
}

// TestKeyEmptyValue tests to make sure the database supports storing a zero
// length value.
func TestKeyEmptyValue(t *testing.T, db Database) {
	require := require.New(t)

	key := []byte("hello")

	_, err := db.Get(key)
	require.ErrorIs(err, ErrNotFound)

	require.NoError(db.Put(key, nil))

	value, err := db.Get(key)
	require.NoError(err)
	require.Empty(value)
}

// TestSimpleKeyValueClosed tests to make sure that Put + Get + Delete + Has
// calls return the correct error when the database has been closed.
func TestSimpleKeyValueClosed(t *testing.T, db Database) {
	require := require.New(t)

	key := []byte("hello")
	value := []byte("world")

	require.NoError(db.Put(key, value))
	require.NoError(db.Close())

	_, err := db.Has(key)
	require.ErrorIs(err, ErrClosed)

	_, err = db.Get(key)
	require.ErrorIs(err, ErrClosed)

	require.ErrorIs(db.Put(key, value), ErrClosed)
	require.ErrorIs(db.Delete(key), ErrClosed)
	require.ErrorIs(db.Close(), ErrClosed)
}

// TestBatchPut tests to make sure that batched writes work as expected.
func TestBatchPut(t *testing.T, db Database) {
	require := require.New(t)

	key := []byte("hello")
	value := []byte("world")

	batch := db.NewBatch()
	require.NotNil(batch)
	require.NoError(batch.Put(key, value))

	// The write must not be visible before the batch commits.
	has, err := db.Has(key)
	require.NoError(err)
	require.False(has)

	require.NoError(batch.Write())

	v, err := db.Get(key)
	require.NoError(err)
	require.Equal(value, v)

	require.NoError(db.Delete(key))
	require.NoError(db.Close())

	batch = db.NewBatch()
	require.NotNil(batch)
	require.NoError(batch.Put(key, value))
	require.ErrorIs(batch.Write(), ErrClosed)
}

// TestBatchDelete tests to make sure that batched deletes work as expected.
func TestBatchDelete(t *testing.T, db Database) {
	require := require.New(t)

	key := []byte("hello")
	value := []byte("world")

	require.NoError(db.Put(key, value))

	batch := db.NewBatch()
	require.NoError(batch.Delete(key))
	require.NoError(batch.Write())

	has, err := db.Has(key)
	require.NoError(err)
	require.False(has)
}

// TestBatchReset tests to make sure that a batch drops any queued operations
// when it is reset.
func TestBatchReset(t *testing.T, db Database) {
	require := require.New(t)

	key := []byte("hello")
	value := []byte("world")

	batch := db.NewBatch()
	require.NoError(batch.Put(key, value))
	batch.Reset()
	require.Zero(batch.Size())
	require.NoError(batch.Write())

	has, err := db.Has(key)
	require.NoError(err)
	require.False(has)
}

// TestBatchReplay tests to make sure that batches replay their operations in
// the order they were queued.
func TestBatchReplay(t *testing.T, db Database) {
	require := require.New(t)

	key := []byte("hello")
	first := []byte("world")
	second := []byte("there")

	batch := db.NewBatch()
	require.NoError(batch.Put(key, first))
	require.NoError(batch.Put(key, second))

	ops := &BatchOps{}
	require.NoError(batch.Replay(ops))
	require.Len(ops.Ops, 2)
	require.Equal(first, ops.Ops[0].Value)
	require.Equal(second, ops.Ops[1].Value)

	require.NoError(batch.Write())
	v, err := db.Get(key)
	require.NoError(err)
	require.Equal(second, v)
}

// TestBatchInner tests that writing through a batch's inner batch updates the
// database.
func TestBatchInner(t *testing.T, db Database) {
	require := require.New(t)

	key := []byte("hello")
	value := []byte("world")

	batch := db.NewBatch()
	require.NoError(batch.Put(key, value))

	inner := batch.Inner()
	require.NotNil(inner)
	require.NoError(inner.Write())

	v, err := db.Get(key)
	require.NoError(err)
	require.Equal(value, v)
}

// TestIterator tests that an iterator walks all keys in ascending order.
func TestIterator(t *testing.T, db Database) {
	require := require.New(t)

	require.NoError(db.Put([]byte("hello2"), []byte("world2")))
	require.NoError(db.Put([]byte("hello1"), []byte("world1")))

	iterator := db.NewIterator()
	require.NotNil(iterator)
	defer iterator.Release()

	require.True(iterator.Next())
	require.Equal([]byte("hello1"), iterator.Key())
	require.Equal([]byte("world1"), iterator.Value())

	require.True(iterator.Next())
	require.Equal([]byte("hello2"), iterator.Key())
	require.Equal([]byte("world2"), iterator.Value())

	require.False(iterator.Next())
	require.NoError(iterator.Error())
}

// TestIteratorStart tests that an iterator skips keys before the start key.
func TestIteratorStart(t *testing.T, db Database) {
	require := require.New(t)

	require.NoError(db.Put([]byte("hello1"), []byte("world1")))
	require.NoError(db.Put([]byte("hello2"), []byte("world2")))

	iterator := db.NewIteratorWithStart([]byte("hello2"))
	require.NotNil(iterator)
	defer iterator.Release()

	require.True(iterator.Next())
	require.Equal([]byte("hello2"), iterator.Key())
	require.Equal([]byte("world2"), iterator.Value())
	require.False(iterator.Next())
	require.NoError(iterator.Error())
}

// TestIteratorPrefix tests that an iterator only yields keys with the
// requested prefix.
func TestIteratorPrefix(t *testing.T, db Database) {
	require := require.New(t)

	require.NoError(db.Put([]byte("hello"), []byte("world")))
	require.NoError(db.Put([]byte("goodbye"), []byte("world")))
	require.NoError(db.Put([]byte("hello2"), []byte("world2")))

	iterator := db.NewIteratorWithPrefix([]byte("hello"))
	require.NotNil(iterator)
	defer iterator.Release()

	require.True(iterator.Next())
	require.Equal([]byte("hello"), iterator.Key())
	require.True(iterator.Next())
	require.Equal([]byte("hello2"), iterator.Key())
	require.False(iterator.Next())
	require.NoError(iterator.Error())
}

// TestIteratorStartAndPrefix tests the combination of a start key and a
// prefix.
func TestIteratorStartAndPrefix(t *testing.T, db Database) {
	require := require.New(t)

	require.NoError(db.Put([]byte("a1"), []byte("v1")))
	require.NoError(db.Put([]byte("a2"), []byte("v2")))
	require.NoError(db.Put([]byte("b1"), []byte("v3")))

	iterator := db.NewIteratorWithStartAndPrefix([]byte("a2"), []byte("a"))
	require.NotNil(iterator)
	defer iterator.Release()

	require.True(iterator.Next())
	require.Equal([]byte("a2"), iterator.Key())
	require.False(iterator.Next())
	require.NoError(iterator.Error())
}

// TestIteratorClosed tests that an iterator on a closed database reports
// ErrClosed.
func TestIteratorClosed(t *testing.T, db Database) {
	require := require.New(t)

	require.NoError(db.Put([]byte("hello"), []byte("world")))
	require.NoError(db.Close())

	iterator := db.NewIterator()
	require.NotNil(iterator)
	defer iterator.Release()

	require.False(iterator.Next())
	require.ErrorIs(iterator.Error(), ErrClosed)
}

// TestCompactNoPanic tests that Compact never panics.
func TestCompactNoPanic(t *testing.T, db Database) {
	require := require.New(t)

	require.NoError(db.Compact(nil, nil))
	require.NoError(db.Close())
	require.ErrorIs(db.Compact(nil, nil), ErrClosed)
}

// TestClear tests the Clear helper.
func TestClear(t *testing.T, db Database) {
	require := require.New(t)

	require.NoError(db.Put([]byte("hello1"), []byte("world1")))
	require.NoError(db.Put([]byte("hello2"), []byte("world2")))

	count, err := Count(db)
	require.NoError(err)
	require.Equal(2, count)

	require.NoError(Clear(db, db))

	count, err = Count(db)
	require.NoError(err)
	require.Zero(count)
}

// TestHealthCheck tests that the health check reflects the database state.
func TestHealthCheck(t *testing.T, db Database) {
	require := require.New(t)

	_, err := db.HealthCheck(context.Background())
	require.NoError(err)

	require.NoError(db.Close())

	_, err = db.HealthCheck(context.Background())
	require.ErrorIs(err, ErrClosed)
}
