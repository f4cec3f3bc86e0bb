// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package vfs

// Superblock is one mounted filesystem instance: its device, driver, root
// inode and place in the mount tree.
//
// Tree links are an owned slice of children rather than sibling pointers —
// see the Design Notes' guidance to replace circular/intrusive linked lists
// with owned sequences in a typed language; no cyclic ownership is needed
// since the mount tree owns superblocks strictly parent-to-child.
type Superblock struct {
	Dev    DevID
	Driver *Driver

	BlockSize int64
	Dirty     bool
	ReadOnly  bool

	RootIno InodeNumber

	// Private is driver-specific opaque state (for ramfs, the inode B-tree
	// root).
	Private interface{}

	// MountPath is the path segment by which this mount is attached to its
	// parent; empty for the top-level root mount.
	MountPath     string
	MountPathHash uint32

	Parent   *Superblock
	Children []*Superblock
}
