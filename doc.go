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

// Package vfs implements a small in-process virtual filesystem: a
// registry of filesystem drivers, a mount tree rooted at a single
// Superblock, and the dispatch layer (Mount, Resolve, Mkdir, Mknod,
// Stat, InodeRead, InodeWrite, DirIterate) that routes a path to the
// driver responsible for it. Concrete backends implement DriverOps;
// package ramfs is the in-memory reference driver.
package vfs
