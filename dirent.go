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

// DirIter is an opaque cursor into a directory's entries, owned by the
// caller and threaded back through successive GetDirEntry calls. The zero
// value means "before first"; a driver sets it back to zero after the last
// entry.
type DirIter uint32

// Dirent is one entry produced by directory iteration.
type Dirent struct {
	Ino      InodeNumber
	Name     string
	NameHash uint32
	Type     FileType
}
