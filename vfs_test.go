// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package vfs_test

import (
	"sort"
	"testing"

	. "github.com/jacobsa/ogletest"
	"github.com/kylelemons/godebug/pretty"
	"golang.org/x/net/context"

	"github.com/hobbyos/vfs"
	"github.com/hobbyos/vfs/ramfs"
)

func TestVFS(t *testing.T) { RunTests(t) }

////////////////////////////////////////////////////////////////////////
// Boilerplate
////////////////////////////////////////////////////////////////////////

type VFSTest struct {
	ctx context.Context
	v   *vfs.VFS
}

func init() { RegisterTestSuite(&VFSTest{}) }

func (t *VFSTest) SetUp(ti *TestInfo) {
	t.ctx = context.Background()
	t.v = vfs.New()
	t.v.RegisterFilesystem(ramfs.NewDriver())
}

func (t *VFSTest) mountRoot() {
	dev := vfs.Makedev(vfs.CharVirtMajor, 0)
	AssertEq(nil, t.v.Mount(t.ctx, dev, "/", ramfs.DriverID))
}

////////////////////////////////////////////////////////////////////////
// Test functions
////////////////////////////////////////////////////////////////////////

func (t *VFSTest) MountRejectsANonRootTarget() {
	dev := vfs.Makedev(vfs.CharVirtMajor, 0)
	err := t.v.Mount(t.ctx, dev, "/mnt", ramfs.DriverID)
	ExpectEq(vfs.ErrNotSupported, err)
}

func (t *VFSTest) MountFailsOnAnUnknownDriver() {
	dev := vfs.Makedev(vfs.CharVirtMajor, 0)
	err := t.v.Mount(t.ctx, dev, "/", 0xdeadbeef)
	ExpectEq(vfs.ErrNotFound, err)
}

func (t *VFSTest) MountTwiceFails() {
	t.mountRoot()

	dev := vfs.Makedev(vfs.CharVirtMajor, 0)
	err := t.v.Mount(t.ctx, dev, "/", ramfs.DriverID)
	ExpectEq(vfs.ErrNotSupported, err)
}

func (t *VFSTest) ResolveBeforeMountFails() {
	_, _, err := t.v.Resolve(t.ctx, "/")
	ExpectEq(vfs.ErrNotFound, err)
}

func (t *VFSTest) ResolveRejectsARelativePath() {
	t.mountRoot()

	_, _, err := t.v.Resolve(t.ctx, "foo")
	ExpectEq(vfs.ErrInvalidArg, err)
}

func (t *VFSTest) ResolveStripsTheLeadingSeparator() {
	t.mountRoot()

	sb, relpath, err := t.v.Resolve(t.ctx, "/foo/bar")
	AssertEq(nil, err)
	ExpectEq("foo/bar", relpath)
	ExpectEq(ramfs.DriverID, sb.Driver.ID)
}

func (t *VFSTest) MkdirCreatesADeepTree() {
	t.mountRoot()

	_, err := t.v.Mkdir(t.ctx, "/a", 0755)
	AssertEq(nil, err)

	_, err = t.v.Mkdir(t.ctx, "/a/b", 0755)
	AssertEq(nil, err)

	st, err := t.v.Stat(t.ctx, "/a/b")
	AssertEq(nil, err)
	ExpectTrue(st.Mode.IsDir())
}

func (t *VFSTest) MknodRejectsADirectoryType() {
	t.mountRoot()

	_, err := t.v.Mknod(t.ctx, "/dir", vfs.S_IFDIR|0755, 0)
	ExpectEq(vfs.ErrInvalidArg, err)
}

func (t *VFSTest) MknodCreatesARegularFileByDefault() {
	t.mountRoot()

	ino, err := t.v.Mknod(t.ctx, "/f", 0644, 0)
	AssertEq(nil, err)

	st, err := t.v.Stat(t.ctx, "/f")
	AssertEq(nil, err)
	ExpectEq(ino, st.Ino)
	ExpectEq(vfs.TypeRegular, st.Mode.FileType())
}

func (t *VFSTest) MknodCreatesACharDeviceAndStatRoundTripsRdev() {
	t.mountRoot()

	dev := vfs.Makedev(4, 0)
	_, err := t.v.Mknod(t.ctx, "/dev_tty0", vfs.S_IFCHR|0600, dev)
	AssertEq(nil, err)

	st, err := t.v.Stat(t.ctx, "/dev_tty0")
	AssertEq(nil, err)
	ExpectEq(dev, st.Rdev)
	ExpectEq(uint32(4), st.Rdev.Major())
	ExpectEq(uint32(0), st.Rdev.Minor())
}

func (t *VFSTest) StatFailsOnAMissingPath() {
	t.mountRoot()

	_, err := t.v.Stat(t.ctx, "/nope")
	ExpectEq(vfs.ErrNotFound, err)
}

func (t *VFSTest) InodeReadWriteRoundTrips() {
	t.mountRoot()

	_, err := t.v.Mknod(t.ctx, "/f", 0644, 0)
	AssertEq(nil, err)

	sb, relpath, err := t.v.Resolve(t.ctx, "/f")
	AssertEq(nil, err)
	ino, err := sb.Driver.Ops.LookupInode(sb, relpath)
	AssertEq(nil, err)

	payload := []byte("payload")
	n, err := t.v.InodeWrite(t.ctx, sb, ino, 0, payload)
	AssertEq(nil, err)
	AssertEq(len(payload), n)

	buf := make([]byte, len(payload))
	n, err = t.v.InodeRead(t.ctx, sb, ino, 0, buf)
	AssertEq(nil, err)
	AssertEq(len(payload), n)
	ExpectEq(string(payload), string(buf))
}

func (t *VFSTest) InodeReadFailsOnADirectory() {
	t.mountRoot()

	sb, relpath, err := t.v.Resolve(t.ctx, "/")
	AssertEq(nil, err)
	ino, err := sb.Driver.Ops.LookupInode(sb, relpath)
	AssertEq(nil, err)

	_, err = t.v.InodeRead(t.ctx, sb, ino, 0, make([]byte, 4))
	ExpectEq(vfs.ErrIsDir, err)
}

func (t *VFSTest) InodeReadPastEndOfFileIsAShortRead() {
	t.mountRoot()

	_, err := t.v.Mknod(t.ctx, "/f", 0644, 0)
	AssertEq(nil, err)

	sb, relpath, err := t.v.Resolve(t.ctx, "/f")
	AssertEq(nil, err)
	ino, err := sb.Driver.Ops.LookupInode(sb, relpath)
	AssertEq(nil, err)

	n, err := t.v.InodeRead(t.ctx, sb, ino, 100, make([]byte, 4))
	AssertEq(nil, err)
	ExpectEq(0, n)
}

func (t *VFSTest) DirIterateVisitsEveryEntry() {
	t.mountRoot()

	_, err := t.v.Mkdir(t.ctx, "/a", 0755)
	AssertEq(nil, err)
	_, err = t.v.Mknod(t.ctx, "/b", 0644, 0)
	AssertEq(nil, err)

	sb, relpath, err := t.v.Resolve(t.ctx, "/")
	AssertEq(nil, err)
	ino, err := sb.Driver.Ops.LookupInode(sb, relpath)
	AssertEq(nil, err)

	var names []string
	err = t.v.DirIterate(sb, ino, func(de vfs.Dirent) bool {
		names = append(names, de.Name)
		return true
	})
	AssertEq(nil, err)
	sort.Strings(names)

	want := []string{".", "..", "a", "b"}
	if diff := pretty.Compare(want, names); diff != "" {
		AddFailure("directory listing diff:\n%s", diff)
	}
}

func (t *VFSTest) DirIterateStopsEarlyWhenVisitReturnsFalse() {
	t.mountRoot()

	_, err := t.v.Mknod(t.ctx, "/a", 0644, 0)
	AssertEq(nil, err)
	_, err = t.v.Mknod(t.ctx, "/b", 0644, 0)
	AssertEq(nil, err)

	sb, relpath, err := t.v.Resolve(t.ctx, "/")
	AssertEq(nil, err)
	ino, err := sb.Driver.Ops.LookupInode(sb, relpath)
	AssertEq(nil, err)

	count := 0
	err = t.v.DirIterate(sb, ino, func(de vfs.Dirent) bool {
		count++
		return false
	})
	AssertEq(nil, err)
	ExpectEq(1, count)
}
