// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

// Package dirtable implements the chained hashtable that backs one
// directory's name-to-inode bindings (spec.md §4.2), grounded on
// ramfs_directory / ramfs_direntry / ramfs_directory_new / _insert /
// _new_entry in original_source/src/fs/vfs.c.
package dirtable

import (
	"github.com/hobbyos/vfs"
	"github.com/hobbyos/vfs/internal/strhash"
)

const initialCapacity = 8

// loadFactorNumerator/Denominator gates growth: the table doubles on
// insert once count/capacity would exceed 3/4. This resolves spec.md's
// open question in favor of a doubling strategy (see SPEC_FULL.md §3).
const loadFactorNumerator = 3
const loadFactorDenominator = 4

type entry struct {
	hash uint32
	name string
	ino  vfs.InodeNumber
	next *entry
}

// Table is a directory's entry set: a chained hashtable over (name hash,
// name).
type Table struct {
	count    int
	capacity int
	buckets  []*entry

	// onCollision is invoked (if set) whenever two distinct names hash to
	// the same bucket slot and the hashes themselves collide too — the Go
	// analogue of the original's logmsgef("hash collision detected...").
	onCollision func(existing, inserted string, hash uint32)
}

// New creates an empty directory table with the initial capacity.
func New() *Table {
	return &Table{
		capacity: initialCapacity,
		buckets:  make([]*entry, initialCapacity),
	}
}

// OnCollision registers a callback invoked on same-hash, different-name
// collisions, for diagnostic logging by the owning driver.
func (t *Table) OnCollision(f func(existing, inserted string, hash uint32)) {
	t.onCollision = f
}

// Count returns the number of entries currently stored.
func (t *Table) Count() int { return t.count }

// Insert adds a (name, ino) binding. It returns vfs.ErrAlreadyExists if name
// is already bound.
func (t *Table) Insert(name string, ino vfs.InodeNumber) error {
	if t.count+1 > (t.capacity*loadFactorNumerator)/loadFactorDenominator {
		t.grow()
	}

	hash := strhash.Hash(name)
	bucket := hash % uint32(t.capacity)

	for e := t.buckets[bucket]; e != nil; e = e.next {
		if e.hash == hash {
			if e.name == name {
				return vfs.ErrAlreadyExists
			}
			if t.onCollision != nil {
				t.onCollision(e.name, name, hash)
			}
		}
	}

	e := &entry{hash: hash, name: name, ino: ino, next: t.buckets[bucket]}
	t.buckets[bucket] = e
	t.count++
	return nil
}

// Lookup returns the inode bound to name, if any.
func (t *Table) Lookup(name string) (vfs.InodeNumber, bool) {
	hash := strhash.Hash(name)
	bucket := hash % uint32(t.capacity)

	for e := t.buckets[bucket]; e != nil; e = e.next {
		if e.hash == hash && e.name == name {
			return e.ino, true
		}
	}
	return vfs.InvalidInode, false
}

// Remove deletes the binding for name, if any, returning whether it was
// present.
func (t *Table) Remove(name string) bool {
	hash := strhash.Hash(name)
	bucket := hash % uint32(t.capacity)

	var prev *entry
	for e := t.buckets[bucket]; e != nil; e = e.next {
		if e.hash == hash && e.name == name {
			if prev == nil {
				t.buckets[bucket] = e.next
			} else {
				prev.next = e.next
			}
			t.count--
			return true
		}
		prev = e
	}
	return false
}

// grow doubles capacity and rehashes every entry into the new bucket array.
func (t *Table) grow() {
	newCapacity := t.capacity * 2
	newBuckets := make([]*entry, newCapacity)

	for _, head := range t.buckets {
		for e := head; e != nil; {
			next := e.next
			bucket := e.hash % uint32(newCapacity)
			e.next = newBuckets[bucket]
			newBuckets[bucket] = e
			e = next
		}
	}

	t.capacity = newCapacity
	t.buckets = newBuckets
}

// cursorDepthBits splits a vfs.DirIter into an explicit (bucket index,
// chain depth) pair — bucket in the high bits, depth in the low
// cursorDepthBits bits — rather than the original C's bare name hash:
// ramfs_get_direntry reuses the hash itself as its iterator, which
// cannot tell apart two different entries whose names collide on the same
// 32-bit hash (exactly the case Insert's onCollision hook exists to
// report) — resuming from such a hash re-finds the head-most entry with
// that hash every time and iteration never terminates. Packing (bucket+1,
// depth) the way mode.go's Makedev packs (major, minor) avoids that: depth
// counts how many entries of that bucket's chain have already been
// returned, so resuming is a plain re-walk-and-skip rather than an
// identity lookup by hash. This bounds a single directory to at most
// 2^16-1 buckets and 2^16-1 entries per bucket chain, well past what an
// in-memory filesystem's directory is expected to hold.
const cursorDepthBits = 16
const cursorDepthMask = uint32(1)<<cursorDepthBits - 1

func encodeCursor(bucket, depth int) vfs.DirIter {
	return vfs.DirIter((uint32(bucket+1) << cursorDepthBits) | (uint32(depth) & cursorDepthMask))
}

func decodeCursor(cur vfs.DirIter) (bucket, depth int) {
	if cur == 0 {
		return 0, 0
	}
	v := uint32(cur)
	bucket = int(v>>cursorDepthBits) - 1
	depth = int(v & cursorDepthMask)
	return bucket, depth
}

// Next takes a cursor that is either zero (meaning "before first") or the
// value returned as next by a previous call, and returns the entry it
// identifies along with the cursor for the following one. ok is false once
// iteration is exhausted.
func (t *Table) Next(cur vfs.DirIter) (name string, ino vfs.InodeNumber, next vfs.DirIter, ok bool) {
	bucket, depth := decodeCursor(cur)

	for bucket < t.capacity {
		e := t.buckets[bucket]
		for skip := depth; skip > 0 && e != nil; skip-- {
			e = e.next
		}

		if e != nil {
			return e.name, e.ino, encodeCursor(bucket, depth+1), true
		}

		bucket++
		depth = 0
	}

	return "", vfs.InvalidInode, 0, false
}
