// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vfs

// DriverOps is the operation contract every filesystem backend must
// provide, one method per row of the driver dispatch table. A driver that
// doesn't support an operation should embed vfsutil.NotImplementedDriverOps
// and override only the methods it cares about; the embedded defaults
// return ErrNotSupported.
type DriverOps interface {
	// ReadSuperblock initializes block size, root inode and private state on
	// a freshly allocated superblock, and creates the root directory.
	ReadSuperblock(sb *Superblock) error

	// MakeDirectory creates a new directory inode at the driver-local path,
	// links "." and "..", and returns its inode number.
	MakeDirectory(sb *Superblock, path string, mode Mode) (InodeNumber, error)

	// MakeInode creates a non-directory inode of the given mode. info
	// carries kind-specific data (a DevID for char/block devices). It does
	// not link the inode into any directory.
	MakeInode(sb *Superblock, mode Mode, info interface{}) (InodeNumber, error)

	// FreeInode removes the inode record and its payload.
	FreeInode(sb *Superblock, ino InodeNumber) error

	// InodeData copies the inode record for ino.
	InodeData(sb *Superblock, ino InodeNumber) (Inode, error)

	// ReadInode reads up to len(buf) bytes starting at pos. It fails
	// ErrIsDir for directories.
	ReadInode(sb *Superblock, ino InodeNumber, pos int64, buf []byte) (int, error)

	// WriteInode writes len(buf) bytes starting at pos, extending Size as
	// needed.
	WriteInode(sb *Superblock, ino InodeNumber, pos int64, buf []byte) (int, error)

	// GetDirEntry fills in the entry at iter and returns the cursor to pass
	// on the next call; the returned cursor is zero after the last entry.
	GetDirEntry(sb *Superblock, ino InodeNumber, iter DirIter) (Dirent, DirIter, error)

	// LookupInode resolves a driver-local path to an inode number.
	LookupInode(sb *Superblock, path string) (InodeNumber, error)

	// LinkInode adds a hard link to ino named name inside dirIno,
	// incrementing Nlinks.
	LinkInode(sb *Superblock, ino InodeNumber, dirIno InodeNumber, name string) error

	// UnlinkInode removes the hard link named by path, freeing the inode if
	// Nlinks reaches zero.
	UnlinkInode(sb *Superblock, path string) error
}

// Driver names one registered filesystem implementation.
type Driver struct {
	Name string
	ID   uint32
	Ops  DriverOps
}
