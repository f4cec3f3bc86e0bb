// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package vfs

import (
	"fmt"
	"io"

	"golang.org/x/net/context"
)

// PrintLS writes one "ino\tname" line per entry of the directory named
// by path to w, grounded on print_ls.
func (v *VFS) PrintLS(ctx context.Context, w io.Writer, path string) error {
	sb, localpath, err := v.Resolve(ctx, path)
	if err != nil {
		return fmt.Errorf("ls: path %q not found: %w", path, err)
	}

	ino, err := sb.Driver.Ops.LookupInode(sb, localpath)
	if err != nil {
		return fmt.Errorf("no inode at %q: %w", localpath, err)
	}

	return v.DirIterate(sb, ino, func(de Dirent) bool {
		fmt.Fprintf(w, "%d\t%s\n", de.Ino, de.Name)
		return true
	})
}

// PrintMount writes the name of the filesystem driver mounted at the
// root, grounded on print_mount. Non-root mounts are out of scope, so
// there are no child mounts to report.
func (v *VFS) PrintMount(w io.Writer) {
	if v.root == nil {
		return
	}
	fmt.Fprintf(w, "%s on /\n", v.root.Driver.Name)
}
