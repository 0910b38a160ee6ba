// Copyright (C) 2024-2026, Ballot Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package database

// Count iterates [db] and returns the number of stored key-value pairs.
func Count(db Iteratee) (int, error) {
	iterator := db.NewIterator()
	defer iterator.Release()

	count := 0
	for iterator.Next() {
		count++
	}
	return count, iterator.Error()
}

// Clear removes all keys from [db] reachable through [iterable].
func Clear(iterable Iteratee, db KeyValueDeleter) error {
	iterator := iterable.NewIterator()
	defer iterator.Release()

	for iterator.Next() {
		if err := db.Delete(iterator.Key()); err != nil {
			return err
		}
	}
	return iterator.Error()
}
