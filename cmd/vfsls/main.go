// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

// Command vfsls mounts an empty ramfs as the root filesystem and prints
// the mount table and a listing of one directory (the path argument, "/"
// by default). It is the Go analogue of print_ls /
// print_mount, offered as a convenience reader rather than a contract
// (spec.md §6).
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/net/context"

	"github.com/hobbyos/vfs"
	"github.com/hobbyos/vfs/ramfs"
)

func main() {
	flag.Parse()

	path := "/"
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	if err := run(path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string) error {
	ctx := context.Background()

	v := vfs.New()
	v.RegisterFilesystem(ramfs.NewDriver())

	dev := vfs.Makedev(vfs.CharVirtMajor, 0)
	if err := v.Mount(ctx, dev, "/", ramfs.DriverID); err != nil {
		return fmt.Errorf("mount: %w", err)
	}

	v.PrintMount(os.Stdout)

	if err := v.PrintLS(ctx, os.Stdout, path); err != nil {
		return err
	}

	return nil
}
