// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package versiondb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ballot-labs/pollstore/database"
	"github.com/ballot-labs/pollstore/database/memdb"
)

func TestInterface(t *testing.T) {
	for _, test := range database.Tests {
		test(t, New(memdb.New()))
	}
}

func TestCommit(t *testing.T) {
	require := require.New(t)

	baseDB := memdb.New()
	db := New(baseDB)

	key1 := []byte("hello1")
	key2 := []byte("hello2")

	require.NoError(db.Put(key1, []byte("world1")))
	require.NoError(db.Put(key2, []byte("world2")))

	// Nothing reaches the base database before Commit.
	has, err := baseDB.Has(key1)
	require.NoError(err)
	require.False(has)

	require.NoError(db.Commit())

	v, err := baseDB.Get(key1)
	require.NoError(err)
	require.Equal([]byte("world1"), v)

	v, err = baseDB.Get(key2)
	require.NoError(err)
	require.Equal([]byte("world2"), v)
}

func TestAbort(t *testing.T) {
	require := require.New(t)

	baseDB := memdb.New()
	db := New(baseDB)

	key := []byte("hello")
	require.NoError(db.Put(key, []byte("world")))

	db.Abort()

	has, err := db.Has(key)
	require.NoError(err)
	require.False(has)

	require.NoError(db.Commit())

	has, err = baseDB.Has(key)
	require.NoError(err)
	require.False(has)
}

func TestCommitShadowsUnderlying(t *testing.T) {
	require := require.New(t)

	baseDB := memdb.New()
	db := New(baseDB)

	key := []byte("hello")
	require.NoError(baseDB.Put(key, []byte("old")))

	require.NoError(db.Put(key, []byte("new")))

	v, err := db.Get(key)
	require.NoError(err)
	require.Equal([]byte("new"), v)

	require.NoError(db.Delete(key))

	_, err = db.Get(key)
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(db.Commit())

	_, err = baseDB.Get(key)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestIteratorMergesStagedWrites(t *testing.T) {
	require := require.New(t)

	baseDB := memdb.New()
	db := New(baseDB)

	require.NoError(baseDB.Put([]byte("a"), []byte("base")))
	require.NoError(baseDB.Put([]byte("c"), []byte("base")))

	require.NoError(db.Put([]byte("b"), []byte("staged")))
	require.NoError(db.Put([]byte("c"), []byte("staged")))
	require.NoError(db.Delete([]byte("a")))

	iterator := db.NewIterator()
	defer iterator.Release()

	require.True(iterator.Next())
	require.Equal([]byte("b"), iterator.Key())
	require.Equal([]byte("staged"), iterator.Value())

	require.True(iterator.Next())
	require.Equal([]byte("c"), iterator.Key())
	require.Equal([]byte("staged"), iterator.Value())

	require.False(iterator.Next())
	require.NoError(iterator.Error())
}
