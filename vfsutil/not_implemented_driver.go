// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

// Package vfsutil provides small helpers for implementing the vfs.DriverOps
// contract.
package vfsutil

import "github.com/hobbyos/vfs"

// NotImplementedDriverOps may be embedded in a driver to obtain default
// implementations of every DriverOps method, each returning
// vfs.ErrNotSupported. Override the methods the driver actually supports.
type NotImplementedDriverOps struct{}

var _ vfs.DriverOps = &NotImplementedDriverOps{}

func (d *NotImplementedDriverOps) ReadSuperblock(sb *vfs.Superblock) error {
	return vfs.ErrNotSupported
}

func (d *NotImplementedDriverOps) MakeDirectory(
	sb *vfs.Superblock, path string, mode vfs.Mode) (vfs.InodeNumber, error) {
	return vfs.InvalidInode, vfs.ErrNotSupported
}

func (d *NotImplementedDriverOps) MakeInode(
	sb *vfs.Superblock, mode vfs.Mode, info interface{}) (vfs.InodeNumber, error) {
	return vfs.InvalidInode, vfs.ErrNotSupported
}

func (d *NotImplementedDriverOps) FreeInode(sb *vfs.Superblock, ino vfs.InodeNumber) error {
	return vfs.ErrNotSupported
}

func (d *NotImplementedDriverOps) InodeData(
	sb *vfs.Superblock, ino vfs.InodeNumber) (vfs.Inode, error) {
	return vfs.Inode{}, vfs.ErrNotSupported
}

func (d *NotImplementedDriverOps) ReadInode(
	sb *vfs.Superblock, ino vfs.InodeNumber, pos int64, buf []byte) (int, error) {
	return 0, vfs.ErrNotSupported
}

func (d *NotImplementedDriverOps) WriteInode(
	sb *vfs.Superblock, ino vfs.InodeNumber, pos int64, buf []byte) (int, error) {
	return 0, vfs.ErrNotSupported
}

func (d *NotImplementedDriverOps) GetDirEntry(
	sb *vfs.Superblock, ino vfs.InodeNumber, iter vfs.DirIter) (vfs.Dirent, vfs.DirIter, error) {
	return vfs.Dirent{}, 0, vfs.ErrNotSupported
}

func (d *NotImplementedDriverOps) LookupInode(
	sb *vfs.Superblock, path string) (vfs.InodeNumber, error) {
	return vfs.InvalidInode, vfs.ErrNotSupported
}

func (d *NotImplementedDriverOps) LinkInode(
	sb *vfs.Superblock, ino vfs.InodeNumber, dirIno vfs.InodeNumber, name string) error {
	return vfs.ErrNotSupported
}

func (d *NotImplementedDriverOps) UnlinkInode(sb *vfs.Superblock, path string) error {
	return vfs.ErrNotSupported
}
