// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package database

import "slices"

const (
	// If, when a batch is reset, cap(ops)/len(ops) exceeds
	// MaxExcessCapacityFactor, the underlying array's capacity is reduced by
	// CapacityReductionFactor. This bounds the amount of memory pinned by a
	// batch that briefly grew large.
	MaxExcessCapacityFactor = 4
	CapacityReductionFactor = 2
)

var _ KeyValueWriterDeleter = (*BatchOps)(nil)

// BatchOp is a single operation recorded in a batch.
type BatchOp struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// BatchOps implements the write-side accumulation shared by Batch
// implementations.
type BatchOps struct {
	Ops  []BatchOp
	size int
}

func (b *BatchOps) Put(key, value []byte) error {
	b.Ops = append(b.Ops, BatchOp{
		Key:   slices.Clone(key),
		Value: slices.Clone(value),
	})
	b.size += len(key) + len(value)
	return nil
}

func (b *BatchOps) Delete(key []byte) error {
	b.Ops = append(b.Ops, BatchOp{
		Key:    slices.Clone(key),
		Delete: true,
	})
	b.size += len(key)
	return nil
}

func (b *BatchOps) Size() int {
	return b.size
}

func (b *BatchOps) Reset() {
	if cap(b.Ops) > len(b.Ops)*MaxExcessCapacityFactor {
		b.Ops = make([]BatchOp, 0, cap(b.Ops)/CapacityReductionFactor)
	} else {
		b.Ops = b.Ops[:0]
	}
	b.size = 0
}

func (b *BatchOps) Replay(w KeyValueWriterDeleter) error {
	for _, op := range b.Ops {
		if op.Delete {
			if err := w.Delete(op.Key); err != nil {
				return err
			}
		} else if err := w.Put(op.Key, op.Value); err != nil {
			return err
		}
	}
	return nil
}
