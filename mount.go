// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package vfs

import (
	"strings"

	"github.com/jacobsa/reqtrace"
	"golang.org/x/net/context"

	"github.com/hobbyos/vfs/internal/strhash"
)

// VFS is the top-level handle for a driver registry and mount tree,
// replacing the module-level globals theFileSystems / theRootMnt in
// original_source/src/fs/vfs.c (see the Design Notes' guidance to wrap
// such state in an explicit struct).
type VFS struct {
	drivers []*Driver
	root    *Superblock
}

// New returns a VFS with no drivers registered and nothing mounted.
func New() *VFS {
	return &VFS{}
}

// RegisterFilesystem adds driver to the registry, grounded on
// vfs_register_filesystem.
func (v *VFS) RegisterFilesystem(driver *Driver) {
	v.drivers = append(v.drivers, driver)
}

// FilesystemByID returns the registered driver with the given id, or nil,
// grounded on vfs_fs_by_id.
func (v *VFS) FilesystemByID(id uint32) *Driver {
	for _, d := range v.drivers {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// Mount grounds vfs_mount: only a root mount (target == "/") is
// supported, matching spec.md's stated non-goal for non-root mounts.
func (v *VFS) Mount(ctx context.Context, dev DevID, target string, fsID uint32) (err error) {
	_, report := reqtrace.StartSpan(ctx, "vfs.Mount")
	defer func() { report(err) }()

	if target != "/" {
		return ErrNotSupported
	}
	if v.root != nil {
		return ErrNotSupported
	}

	driver := v.FilesystemByID(fsID)
	if driver == nil {
		return ErrNotFound
	}

	sb := &Superblock{
		Dev:           dev,
		Driver:        driver,
		MountPath:     "",
		MountPathHash: mountPathHash(""),
	}

	if err := driver.Ops.ReadSuperblock(sb); err != nil {
		return err
	}

	v.root = sb
	return nil
}

// Resolve grounds vfs_mountnode_by_path: path must start with "/"; the
// leading separator is stripped, then each mount-tree child's MountPath
// is prefix-matched in turn, descending as far as possible.
func (v *VFS) Resolve(ctx context.Context, path string) (sb *Superblock, relpath string, err error) {
	_, report := reqtrace.StartSpan(ctx, "vfs.Resolve")
	defer func() { report(err) }()

	if v.root == nil {
		return nil, "", ErrNotFound
	}
	if len(path) == 0 || path[0] != '/' {
		return nil, "", ErrInvalidArg
	}
	path = path[1:]

	mnt := v.root
	for {
		child, nextPath := matchMountPath(mnt, path)
		if child == nil {
			break
		}
		mnt = child
		path = nextPath
	}

	return mnt, path, nil
}

// matchMountPath finds the child of parent whose MountPath prefixes
// path, grounded on vfs_match_mountpath.
func matchMountPath(parent *Superblock, path string) (child *Superblock, relpath string) {
	for _, c := range parent.Children {
		if !strings.HasPrefix(path, c.MountPath) {
			continue
		}

		rest := path[len(c.MountPath):]
		if rest == "" {
			return nil, path
		}

		for len(rest) > 0 && rest[0] == '/' {
			rest = rest[1:]
		}
		return c, rest
	}
	return nil, path
}

// dirnameLen returns the length of the parent-directory prefix of path,
// grounded on vfs_path_dirname_len: the offset of the last '/' with any
// run of trailing separators before it collapsed, or 0 if path has none.
func dirnameLen(path string) int {
	lastSep := strings.LastIndexByte(path, '/')
	if lastSep < 0 {
		return 0
	}
	for lastSep > 0 && path[lastSep-1] == '/' {
		lastSep--
	}
	return lastSep
}

// Mkdir grounds vfs_mkdir: resolves path to (sb, localpath) and invokes
// the driver's MakeDirectory. mode's type bits are forced to S_IFDIR.
func (v *VFS) Mkdir(ctx context.Context, path string, mode Mode) (ino InodeNumber, err error) {
	_, report := reqtrace.StartSpan(ctx, "vfs.Mkdir")
	defer func() { report(err) }()

	sb, localpath, err := v.Resolve(ctx, path)
	if err != nil {
		return InvalidInode, err
	}

	mode = (mode &^ S_IFMT) | S_IFDIR
	return sb.Driver.Ops.MakeDirectory(sb, localpath, mode)
}

// Mknod grounds vfs_mknod: directories and symlinks are rejected
// (callers must use Mkdir, and symlink creation is out of scope), the
// new inode is created via MakeInode and linked into its parent via
// LinkInode; on link failure the inode is freed.
func (v *VFS) Mknod(ctx context.Context, path string, mode Mode, dev DevID) (ino InodeNumber, err error) {
	_, report := reqtrace.StartSpan(ctx, "vfs.Mknod")
	defer func() { report(err) }()

	if mode.FileType() == TypeDirectory || mode.FileType() == TypeSymlink {
		return InvalidInode, ErrInvalidArg
	}
	if mode&S_IFMT == 0 {
		mode |= S_IFREG
	}

	sb, fspath, err := v.Resolve(ctx, path)
	if err != nil {
		return InvalidInode, err
	}

	dirnamelen := dirnameLen(fspath)
	dirIno, err := sb.Driver.Ops.LookupInode(sb, fspath[:dirnamelen])
	if err != nil {
		return InvalidInode, err
	}

	dirIdata, err := sb.Driver.Ops.InodeData(sb, dirIno)
	if err != nil {
		return InvalidInode, err
	}
	if !dirIdata.Mode.IsDir() {
		return InvalidInode, ErrNotADir
	}

	var info interface{}
	if mode.FileType() == TypeCharDevice || mode.FileType() == TypeBlockDevice {
		info = dev
	}

	newIno, err := sb.Driver.Ops.MakeInode(sb, mode, info)
	if err != nil {
		return InvalidInode, err
	}

	name := fspath[dirnamelen:]
	for len(name) > 0 && name[0] == '/' {
		name = name[1:]
	}

	if err := sb.Driver.Ops.LinkInode(sb, newIno, dirIno, name); err != nil {
		sb.Driver.Ops.FreeInode(sb, newIno)
		return InvalidInode, err
	}

	return newIno, nil
}

// Stat is the POSIX-shaped inode summary returned by Stat, grounded on
// struct stat / vfs_inode_stat.
type Stat struct {
	Dev    DevID
	Ino    InodeNumber
	Mode   Mode
	Nlinks uint32
	Rdev   DevID
	Size   int64
}

// statInode fills in a Stat record from a driver's inode data, grounded
// on vfs_inode_stat.
func statInode(sb *Superblock, ino InodeNumber) (Stat, error) {
	idata, err := sb.Driver.Ops.InodeData(sb, ino)
	if err != nil {
		return Stat{}, err
	}

	st := Stat{
		Dev:    sb.Dev,
		Ino:    ino,
		Mode:   idata.Mode,
		Nlinks: idata.Nlinks,
		Size:   idata.Size,
	}

	if idata.Mode.FileType() == TypeCharDevice || idata.Mode.FileType() == TypeBlockDevice {
		if dev, ok := idata.Payload.(DeviceInfo); ok {
			st.Rdev = dev.Dev
		}
	}

	return st, nil
}

// Stat grounds vfs_stat: resolves path, looks up its inode, and fills in
// a Stat record.
func (v *VFS) Stat(ctx context.Context, path string) (st Stat, err error) {
	_, report := reqtrace.StartSpan(ctx, "vfs.Stat")
	defer func() { report(err) }()

	sb, fspath, err := v.Resolve(ctx, path)
	if err != nil {
		return Stat{}, err
	}

	ino, err := sb.Driver.Ops.LookupInode(sb, fspath)
	if err != nil {
		return Stat{}, err
	}

	return statInode(sb, ino)
}

// InodeRead grounds vfs_inode_read: fails ErrIsDir on directories, and
// returns a short read (0, nil) once pos is at or past the inode's size.
func (v *VFS) InodeRead(ctx context.Context, sb *Superblock, ino InodeNumber, pos int64, buf []byte) (n int, err error) {
	_, report := reqtrace.StartSpan(ctx, "vfs.InodeRead")
	defer func() { report(err) }()

	idata, err := sb.Driver.Ops.InodeData(sb, ino)
	if err != nil {
		return 0, err
	}
	if idata.Mode.IsDir() {
		return 0, ErrIsDir
	}
	if pos >= idata.Size {
		return 0, nil
	}

	return sb.Driver.Ops.ReadInode(sb, ino, pos, buf)
}

// InodeWrite grounds vfs_inode_write.
func (v *VFS) InodeWrite(ctx context.Context, sb *Superblock, ino InodeNumber, pos int64, buf []byte) (n int, err error) {
	_, report := reqtrace.StartSpan(ctx, "vfs.InodeWrite")
	defer func() { report(err) }()

	idata, err := sb.Driver.Ops.InodeData(sb, ino)
	if err != nil {
		return 0, err
	}
	if idata.Mode.IsDir() {
		return 0, ErrIsDir
	}

	return sb.Driver.Ops.WriteInode(sb, ino, pos, buf)
}

// DirIterate is a convenience wrapper over GetDirEntry for Go callers,
// added because nothing in spec.md's Non-goals excludes a more ergonomic
// iteration surface; it calls visit once per entry in bucket-major,
// chain-minor order until GetDirEntry reports the end or visit returns
// false.
func (v *VFS) DirIterate(sb *Superblock, ino InodeNumber, visit func(Dirent) bool) error {
	var iter DirIter
	for {
		dirent, next, err := sb.Driver.Ops.GetDirEntry(sb, ino, iter)
		if err == ErrNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		if !visit(dirent) {
			return nil
		}
		if next == 0 {
			return nil
		}
		iter = next
	}
}

// mountPathHash fills in MountPathHash from MountPath, using the shared
// hash (internal/strhash) spec.md §6 calls for.
func mountPathHash(path string) uint32 {
	return strhash.Hash(path)
}
