// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

// Package ramfs is an in-memory vfs.DriverOps backend: every inode and
// directory table lives in process memory for the lifetime of its
// superblock. It is grounded on the ramfs_* family in
// original_source/src/fs/vfs.c, reshaped onto vfs.DriverOps.
package ramfs

import (
	"strings"

	"github.com/jacobsa/syncutil"

	"github.com/hobbyos/vfs"
	"github.com/hobbyos/vfs/internal/btree"
	"github.com/hobbyos/vfs/internal/dirtable"
	"github.com/hobbyos/vfs/internal/strhash"
	"github.com/hobbyos/vfs/vfsutil"
)

// Fanout is the B-tree fanout used to index inodes, matching
// ramfs_data_new's btree_new(64) in the original source.
const Fanout = 64

// DriverID is the 32-bit little-endian encoding of "RAM\0", the
// well-known fs_id ramfs registers itself under (spec.md §6, §8).
const DriverID uint32 = 0x004d4152

// NewDriver returns a vfs.Driver ready to pass to VFS.RegisterFilesystem.
func NewDriver() *vfs.Driver {
	return &vfs.Driver{
		Name: "ramfs",
		ID:   DriverID,
		Ops:  &Driver{},
	}
}

// pathSeparator matches the kernel's FS_SEP.
const pathSeparator = '/'

// Driver is the ramfs vfs.DriverOps implementation. The zero value is
// ready to register; state lives entirely in the Superblock it is asked
// to initialize.
type Driver struct {
	vfsutil.NotImplementedDriverOps
}

var _ vfs.DriverOps = &Driver{}

// state is the private payload stashed in Superblock.Private: the inode
// index plus the file content ramfs keeps outside the inode record
// itself (RegularPayload reserves its block fields for a future
// on-disk driver; see inode.go).
type state struct {
	mu syncutil.InvariantMutex

	// GUARDED_BY(mu)
	btreeRoot *btree.Node

	// GUARDED_BY(mu)
	content map[vfs.InodeNumber][]byte
}

func (s *state) checkInvariants() {
	if s.btreeRoot == nil {
		panic("ramfs: nil btreeRoot")
	}
}

// ReadSuperblock implements vfs.DriverOps.
func (d *Driver) ReadSuperblock(sb *vfs.Superblock) error {
	s := &state{
		btreeRoot: btree.New(Fanout),
		content:   make(map[vfs.InodeNumber][]byte),
	}
	s.mu = syncutil.NewInvariantMutex(s.checkInvariants)
	sb.Private = s
	sb.BlockSize = 4096

	s.mu.Lock()
	defer s.mu.Unlock()

	// Slot 0 is the shared invalid sentinel, occupying index 0 so the
	// first real inode lands at index 1.
	btree.Insert(&s.btreeRoot, &vfs.Inode{Ino: vfs.InvalidInode})

	rootIno, err := d.makeDirectoryLocked(sb, s, "", vfs.S_IFDIR|0755)
	if err != nil {
		return err
	}
	sb.RootIno = rootIno
	return nil
}

func stateOf(sb *vfs.Superblock) *state {
	return sb.Private.(*state)
}

func idataByInode(s *state, ino vfs.InodeNumber) *vfs.Inode {
	return btree.Lookup(s.btreeRoot, uint64(ino))
}

func dirTable(idata *vfs.Inode) (*dirtable.Table, error) {
	payload, ok := idata.Payload.(vfs.DirPayload)
	if !ok {
		return nil, vfs.ErrNotADir
	}
	return payload.Table.(*dirtable.Table), nil
}

// getInodeByBasename resolves basename against dir's table, mirroring
// ramfs_get_inode_by_basename.
func getInodeByBasename(dir *dirtable.Table, basename string) (vfs.InodeNumber, error) {
	ino, ok := dir.Lookup(basename)
	if !ok {
		return vfs.InvalidInode, vfs.ErrNotFound
	}
	return ino, nil
}

// LookupInode implements vfs.DriverOps, grounded on ramfs_lookup_inode.
func (d *Driver) LookupInode(sb *vfs.Superblock, path string) (vfs.InodeNumber, error) {
	s := stateOf(sb)
	s.mu.Lock()
	defer s.mu.Unlock()
	return d.lookupInodeLocked(sb, s, path)
}

// MakeDirectory implements vfs.DriverOps, grounded on ramfs_make_directory.
func (d *Driver) MakeDirectory(sb *vfs.Superblock, path string, mode vfs.Mode) (vfs.InodeNumber, error) {
	s := stateOf(sb)
	s.mu.Lock()
	defer s.mu.Unlock()
	return d.makeDirectoryLocked(sb, s, path, mode)
}

// makeDirectoryLocked requires s.mu already held; it is also called
// directly from ReadSuperblock before the superblock's private state is
// published anywhere else could take the lock.
func (d *Driver) makeDirectoryLocked(sb *vfs.Superblock, s *state, path string, mode vfs.Mode) (vfs.InodeNumber, error) {
	idata := &vfs.Inode{Mode: vfs.S_IFDIR | mode}
	btree.Insert(&s.btreeRoot, idata)

	newTable := dirtable.New()
	newTable.OnCollision(func(existing, inserted string, hash uint32) {
		getLogger().Printf("hash collision detected: %q vs %q (hash 0x%x)", existing, inserted, hash)
	})

	if path == "" {
		if sb.Parent == nil {
			if err := newTable.Insert("..", idata.Ino); err != nil {
				btree.FreeLeaf(s.btreeRoot, uint64(idata.Ino))
				return vfs.InvalidInode, err
			}
			idata.Nlinks++
		}
		// A non-root mount would look up its parent's directory here;
		// non-root mounts are out of scope (spec.md §4.5).
	} else {
		basename := path
		prefixEnd := strings.LastIndexByte(path, pathSeparator)
		prefix := ""
		if prefixEnd >= 0 {
			prefix = path[:prefixEnd]
			basename = path[prefixEnd+1:]
		}

		parIno, err := d.lookupInodeLocked(sb, s, prefix)
		if err != nil {
			btree.FreeLeaf(s.btreeRoot, uint64(idata.Ino))
			return vfs.InvalidInode, err
		}

		parIdata := idataByInode(s, parIno)
		if parIdata == nil {
			btree.FreeLeaf(s.btreeRoot, uint64(idata.Ino))
			return vfs.InvalidInode, badFs("MakeDirectory: no idata for parent ino %d", parIno)
		}
		if !parIdata.Mode.IsDir() {
			btree.FreeLeaf(s.btreeRoot, uint64(idata.Ino))
			return vfs.InvalidInode, vfs.ErrNotADir
		}

		parentDir, err := dirTable(parIdata)
		if err != nil {
			btree.FreeLeaf(s.btreeRoot, uint64(idata.Ino))
			return vfs.InvalidInode, err
		}

		if err := parentDir.Insert(basename, idata.Ino); err != nil {
			btree.FreeLeaf(s.btreeRoot, uint64(idata.Ino))
			return vfs.InvalidInode, err
		}

		if err := newTable.Insert("..", parIno); err != nil {
			parentDir.Remove(basename)
			btree.FreeLeaf(s.btreeRoot, uint64(idata.Ino))
			return vfs.InvalidInode, err
		}
		idata.Nlinks++
		parIdata.Nlinks++
	}

	if err := newTable.Insert(".", idata.Ino); err != nil {
		btree.FreeLeaf(s.btreeRoot, uint64(idata.Ino))
		return vfs.InvalidInode, err
	}
	idata.Nlinks++

	idata.Payload = vfs.DirPayload{Table: newTable}
	return idata.Ino, nil
}

// lookupInodeLocked is LookupInode's body, reentrant from within other
// locked methods that already hold s.mu.
func (d *Driver) lookupInodeLocked(sb *vfs.Superblock, s *state, path string) (vfs.InodeNumber, error) {
	if len(path) == 0 {
		return sb.RootIno, nil
	}

	rootIdata := idataByInode(s, sb.RootIno)
	if rootIdata == nil {
		return vfs.InvalidInode, badFs("lookupInodeLocked: no idata for root_ino=%d", sb.RootIno)
	}

	dir, err := dirTable(rootIdata)
	if err != nil {
		return vfs.InvalidInode, err
	}

	start := 0
	for {
		end := start
		for end < len(path) && path[end] != pathSeparator {
			end++
		}

		if end >= len(path) {
			return getInodeByBasename(dir, path[start:end])
		}

		ino, err := getInodeByBasename(dir, path[start:end])
		if err != nil {
			return vfs.InvalidInode, err
		}
		if end+1 >= len(path) {
			return ino, nil
		}

		idata := idataByInode(s, ino)
		if idata == nil {
			return vfs.InvalidInode, badFs("lookupInodeLocked: no inode for index %d", ino)
		}
		if !idata.Mode.IsDir() {
			return vfs.InvalidInode, vfs.ErrNotADir
		}

		dir, err = dirTable(idata)
		if err != nil {
			return vfs.InvalidInode, err
		}

		next := end
		for next < len(path) && path[next] == pathSeparator {
			next++
		}
		start = next
	}
}

// MakeInode implements vfs.DriverOps, grounded on ramfs_make_node. info
// carries a vfs.DevID for S_IFCHR/S_IFBLK modes.
func (d *Driver) MakeInode(sb *vfs.Superblock, mode vfs.Mode, info interface{}) (vfs.InodeNumber, error) {
	s := stateOf(sb)
	s.mu.Lock()
	defer s.mu.Unlock()

	idata := &vfs.Inode{Mode: mode}

	switch mode.FileType() {
	case vfs.TypeCharDevice, vfs.TypeBlockDevice:
		dev, ok := info.(vfs.DevID)
		if !ok {
			return vfs.InvalidInode, vfs.ErrInvalidArg
		}
		idata.Payload = vfs.DeviceInfo{Dev: dev}
	case vfs.TypeRegular:
		idata.Payload = vfs.RegularPayload{}
	}

	btree.Insert(&s.btreeRoot, idata)
	return idata.Ino, nil
}

// FreeInode implements vfs.DriverOps. The original source only stubs
// this (ramfs_free_inode calls the unimplemented btree_free_leaf); here
// it is fully implemented per SPEC_FULL.md §4.4.
func (d *Driver) FreeInode(sb *vfs.Superblock, ino vfs.InodeNumber) error {
	s := stateOf(sb)
	s.mu.Lock()
	defer s.mu.Unlock()

	idata := idataByInode(s, ino)
	if idata == nil {
		return vfs.ErrNotFound
	}

	delete(s.content, ino)
	btree.FreeLeaf(s.btreeRoot, uint64(ino))
	return nil
}

// InodeData implements vfs.DriverOps.
func (d *Driver) InodeData(sb *vfs.Superblock, ino vfs.InodeNumber) (vfs.Inode, error) {
	s := stateOf(sb)
	s.mu.Lock()
	defer s.mu.Unlock()

	idata := idataByInode(s, ino)
	if idata == nil {
		return vfs.Inode{}, vfs.ErrNotFound
	}
	return *idata, nil
}

// ReadInode implements vfs.DriverOps.
func (d *Driver) ReadInode(sb *vfs.Superblock, ino vfs.InodeNumber, pos int64, buf []byte) (int, error) {
	s := stateOf(sb)
	s.mu.Lock()
	defer s.mu.Unlock()

	idata := idataByInode(s, ino)
	if idata == nil {
		return 0, vfs.ErrNotFound
	}
	if idata.Mode.IsDir() {
		return 0, vfs.ErrIsDir
	}

	data := s.content[ino]
	if pos >= int64(len(data)) {
		return 0, nil
	}
	n := copy(buf, data[pos:])
	return n, nil
}

// WriteInode implements vfs.DriverOps.
func (d *Driver) WriteInode(sb *vfs.Superblock, ino vfs.InodeNumber, pos int64, buf []byte) (int, error) {
	s := stateOf(sb)
	s.mu.Lock()
	defer s.mu.Unlock()

	idata := idataByInode(s, ino)
	if idata == nil {
		return 0, vfs.ErrNotFound
	}
	if idata.Mode.IsDir() {
		return 0, vfs.ErrIsDir
	}

	needed := pos + int64(len(buf))
	data := s.content[ino]
	if int64(len(data)) < needed {
		grown := make([]byte, needed)
		copy(grown, data)
		data = grown
	}
	copy(data[pos:], buf)
	s.content[ino] = data

	if needed > idata.Size {
		idata.Size = needed
	}
	return len(buf), nil
}

// GetDirEntry implements vfs.DriverOps, grounded on ramfs_get_direntry.
func (d *Driver) GetDirEntry(sb *vfs.Superblock, ino vfs.InodeNumber, iter vfs.DirIter) (vfs.Dirent, vfs.DirIter, error) {
	s := stateOf(sb)
	s.mu.Lock()
	defer s.mu.Unlock()

	dirIdata := idataByInode(s, ino)
	if dirIdata == nil {
		return vfs.Dirent{}, 0, badFs("GetDirEntry: no idata for ino %d", ino)
	}
	if !dirIdata.Mode.IsDir() {
		return vfs.Dirent{}, 0, vfs.ErrNotADir
	}

	dir, err := dirTable(dirIdata)
	if err != nil {
		return vfs.Dirent{}, 0, err
	}

	name, childIno, next, ok := dir.Next(iter)
	if !ok {
		return vfs.Dirent{}, 0, vfs.ErrNotFound
	}

	dirent := vfs.Dirent{
		Ino:      childIno,
		Name:     name,
		NameHash: strhash.Hash(name),
	}

	childIdata := idataByInode(s, childIno)
	if childIdata != nil {
		dirent.Type = childIdata.Mode.FileType()
	} else {
		getLogger().Printf("GetDirEntry: no idata for child inode %d", childIno)
	}

	return dirent, next, nil
}

// LinkInode implements vfs.DriverOps, grounded on ramfs_link_inode.
func (d *Driver) LinkInode(sb *vfs.Superblock, ino vfs.InodeNumber, dirIno vfs.InodeNumber, name string) error {
	s := stateOf(sb)
	s.mu.Lock()
	defer s.mu.Unlock()

	dirIdata := idataByInode(s, dirIno)
	if dirIdata == nil {
		return badFs("LinkInode: no idata for dir inode %d", dirIno)
	}
	if !dirIdata.Mode.IsDir() {
		return vfs.ErrNotADir
	}

	dir, err := dirTable(dirIdata)
	if err != nil {
		return err
	}

	idata := idataByInode(s, ino)
	if idata == nil {
		return vfs.ErrNotFound
	}

	if err := dir.Insert(name, ino); err != nil {
		return err
	}
	idata.Nlinks++
	return nil
}

func badFs(format string, args ...interface{}) error {
	getLogger().Printf("BUG: ramfs: "+format, args...)
	return vfs.ErrBadFs
}
