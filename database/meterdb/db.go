// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package meterdb wraps a database and records the latency of each call.
package meterdb

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ballot-labs/pollstore/database"
)

var (
	_ database.Database = (*Database)(nil)
	_ database.Batch    = (*batch)(nil)
	_ database.Iterator = (*iterator)(nil)
)

// Database tracks the latency of each database call in a histogram registered
// with the provided registerer.
type Database struct {
	metrics
	db database.Database
}

// New returns a new database with added metrics.
func New(
	namespace string,
	registerer prometheus.Registerer,
	db database.Database,
) (*Database, error) {
	meterDB := &Database{db: db}
	return meterDB, meterDB.metrics.Initialize(namespace, registerer)
}

func (db *Database) Has(key []byte) (bool, error) {
	start := time.Now()
	has, err := db.db.Has(key)
	db.has.Observe(float64(time.Since(start)))
	return has, err
}

func (db *Database) Get(key []byte) ([]byte, error) {
	start := time.Now()
	value, err := db.db.Get(key)
	db.get.Observe(float64(time.Since(start)))
	return value, err
}

func (db *Database) Put(key, value []byte) error {
	start := time.Now()
	err := db.db.Put(key, value)
	db.put.Observe(float64(time.Since(start)))
	return err
}

func (db *Database) Delete(key []byte) error {
	start := time.Now()
	err := db.db.Delete(key)
	db.delete.Observe(float64(time.Since(start)))
	return err
}

func (db *Database) NewBatch() database.Batch {
	start := time.Now()
	b := &batch{
		batch: db.db.NewBatch(),
		db:    db,
	}
	db.newBatch.Observe(float64(time.Since(start)))
	return b
}

func (db *Database) NewIterator() database.Iterator {
	return db.newIteratorWith(db.db.NewIterator())
}

func (db *Database) NewIteratorWithStart(start []byte) database.Iterator {
	return db.newIteratorWith(db.db.NewIteratorWithStart(start))
}

func (db *Database) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	return db.newIteratorWith(db.db.NewIteratorWithPrefix(prefix))
}

func (db *Database) NewIteratorWithStartAndPrefix(start, prefix []byte) database.Iterator {
	return db.newIteratorWith(db.db.NewIteratorWithStartAndPrefix(start, prefix))
}

func (db *Database) newIteratorWith(it database.Iterator) database.Iterator {
	start := time.Now()
	wrapped := &iterator{
		iterator: it,
		db:       db,
	}
	db.newIterator.Observe(float64(time.Since(start)))
	return wrapped
}

func (db *Database) Compact(start, limit []byte) error {
	startTime := time.Now()
	err := db.db.Compact(start, limit)
	db.compact.Observe(float64(time.Since(startTime)))
	return err
}

func (db *Database) Close() error {
	start := time.Now()
	err := db.db.Close()
	db.close.Observe(float64(time.Since(start)))
	return err
}

func (db *Database) HealthCheck(ctx context.Context) (interface{}, error) {
	start := time.Now()
	result, err := db.db.HealthCheck(ctx)
	db.healthCheck.Observe(float64(time.Since(start)))
	return result, err
}

type batch struct {
	batch database.Batch
	db    *Database
}

func (b *batch) Put(key, value []byte) error {
	start := time.Now()
	err := b.batch.Put(key, value)
	b.db.bPut.Observe(float64(time.Since(start)))
	return err
}

func (b *batch) Delete(key []byte) error {
	start := time.Now()
	err := b.batch.Delete(key)
	b.db.bDelete.Observe(float64(time.Since(start)))
	return err
}

func (b *batch) Size() int {
	return b.batch.Size()
}

func (b *batch) Write() error {
	start := time.Now()
	err := b.batch.Write()
	b.db.bWrite.Observe(float64(time.Since(start)))
	return err
}

func (b *batch) Reset() {
	start := time.Now()
	b.batch.Reset()
	b.db.bReset.Observe(float64(time.Since(start)))
}

func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	start := time.Now()
	err := b.batch.Replay(w)
	b.db.bReplay.Observe(float64(time.Since(start)))
	return err
}

func (b *batch) Inner() database.Batch {
	return b.batch.Inner()
}

type iterator struct {
	iterator database.Iterator
	db       *Database
}

func (it *iterator) Next() bool {
	start := time.Now()
	next := it.iterator.Next()
	it.db.iNext.Observe(float64(time.Since(start)))
	return next
}

func (it *iterator) Error() error {
	return it.iterator.Error()
}

func (it *iterator) Key() []byte {
	return it.iterator.Key()
}

func (it *iterator) Value() []byte {
	return it.iterator.Value()
}

func (it *iterator) Release() {
	start := time.Now()
	it.iterator.Release()
	it.db.iRelease.Observe(float64(time.Since(start)))
}
