// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

// Package strhash provides the single 32-bit byte-string hash shared by the
// mount tree's mount-path cache and the ramfs directory table, standing in
// for the kernel's strhash() collaborator (spec.md §6: "a deterministic
// non-cryptographic string hash shared with the directory table").
package strhash

// Hash computes the FNV-1a 32-bit hash of s. Any deterministic hash would
// satisfy the contract; FNV-1a is cheap, has no external dependency, and is
// a common choice in the example pack's adjacent hashtable code.
func Hash(s string) uint32 {
	const offsetBasis uint32 = 2166136261
	const prime uint32 = 16777619

	h := offsetBasis
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime
	}
	return h
}
