// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package vfs

// InodeNumber indexes an Inode within one superblock's B-tree. Zero is
// reserved as the invalid sentinel and is never returned to callers.
type InodeNumber uint64

// InvalidInode is the sentinel occupying slot zero of every inode index.
const InvalidInode InodeNumber = 0

// RegularPayload is the per-type payload of a regular-file inode. The block
// layout is reserved for a future on-disk driver; an in-memory backend may
// leave it zeroed and keep the actual bytes elsewhere.
type RegularPayload struct {
	BlockCount    int64
	DirectBlocks  [12]uint64
	Indirect1     uint64
	Indirect2     uint64
	Indirect3     uint64
}

// DirPayload is the per-type payload of a directory inode: an opaque handle
// to its directory table, owned by the driver that created it.
type DirPayload struct {
	Table interface{}
}

// DeviceInfo is the per-type payload of a character- or block-device inode.
type DeviceInfo struct {
	Dev DevID
}

// SymlinkInfo is the per-type payload of a symlink inode: an inline buffer
// for short targets plus an overflow pointer for long ones. The VFS layer
// never follows the link, and neither it nor ramfs fills in a target:
// Mknod rejects symlink modes, so the type only reserves the storage.
type SymlinkInfo struct {
	Short    [60]byte
	ShortLen int
	Long     string
}

// Inode is the metadata record for one filesystem object. Payload holds one
// of RegularPayload, DirPayload, DeviceInfo, SymlinkInfo, or nil for fifo
// and socket inodes, keyed by Mode.FileType().
type Inode struct {
	Ino     InodeNumber
	Mode    Mode
	Nlinks  uint32
	Size    int64
	Payload interface{}
}
