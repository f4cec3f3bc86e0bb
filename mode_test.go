// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package vfs_test

import (
	"testing"

	. "github.com/jacobsa/ogletest"

	"github.com/hobbyos/vfs"
)

func TestMode(t *testing.T) { RunTests(t) }

////////////////////////////////////////////////////////////////////////
// Boilerplate
////////////////////////////////////////////////////////////////////////

type ModeTest struct {
}

func init() { RegisterTestSuite(&ModeTest{}) }

////////////////////////////////////////////////////////////////////////
// Test functions
////////////////////////////////////////////////////////////////////////

func (t *ModeTest) FileTypeExtractsEachKnownType() {
	cases := []struct {
		mode vfs.Mode
		want vfs.FileType
	}{
		{vfs.S_IFREG | 0644, vfs.TypeRegular},
		{vfs.S_IFDIR | 0755, vfs.TypeDirectory},
		{vfs.S_IFCHR | 0600, vfs.TypeCharDevice},
		{vfs.S_IFBLK | 0600, vfs.TypeBlockDevice},
		{vfs.S_IFLNK | 0777, vfs.TypeSymlink},
		{vfs.S_IFIFO | 0600, vfs.TypeFifo},
		{vfs.S_IFSOCK | 0600, vfs.TypeSocket},
	}

	for _, c := range cases {
		ExpectEq(c.want, c.mode.FileType())
	}
}

func (t *ModeTest) IsDirIsTrueOnlyForDirectories() {
	ExpectTrue((vfs.S_IFDIR | 0755).IsDir())
	ExpectFalse((vfs.S_IFREG | 0644).IsDir())
}

func (t *ModeTest) PermMasksOutTheTypeNibble() {
	m := vfs.S_IFREG | 0644
	ExpectEq(vfs.Mode(0644), m.Perm())
}

func (t *ModeTest) MakedevMajorMinorRoundTrip() {
	dev := vfs.Makedev(4, 0)
	ExpectEq(uint32(4), dev.Major())
	ExpectEq(uint32(0), dev.Minor())

	dev = vfs.Makedev(vfs.CharVirtMajor, 7)
	ExpectEq(uint32(vfs.CharVirtMajor), dev.Major())
	ExpectEq(uint32(7), dev.Minor())
}
