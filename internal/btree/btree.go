// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

// Package btree implements the static-fanout, growable multi-way tree that
// indexes ramfs inodes by number (spec.md §4.1). Grounded on the btree_node
// / btree_new / btree_get_index / btree_set_leaf / btree_new_leaf family in
// original_source/src/fs/vfs.c, reshaped per the Design Notes' guidance to
// use a typed node (separate leaf/interior arms) instead of the source's
// "array of child pointers of uniform type despite mixed levels" trick.
package btree

import "github.com/hobbyos/vfs"

// Node is one level of the inode index. At level 0 its leaves hold inode
// pointers directly; above level 0 its children are subtree roots of
// level-1. Capacity at level L is fanout^(L+1).
type Node struct {
	level    int
	fanout   int
	used     int
	leaves   []*vfs.Inode
	children []*Node
}

// New allocates an empty level-0 node with the given fanout.
func New(fanout int) *Node {
	return &Node{
		level:  0,
		fanout: fanout,
		leaves: make([]*vfs.Inode, fanout),
	}
}

func newInterior(level, fanout int) *Node {
	return &Node{
		level:    level,
		fanout:   fanout,
		children: make([]*Node, fanout),
	}
}

// capacity returns fanout^(level+1), the number of leaf slots this subtree
// can address.
func (n *Node) capacity() uint64 {
	cap := uint64(n.fanout)
	for i := 0; i < n.level; i++ {
		cap *= uint64(n.fanout)
	}
	return cap
}

// Lookup returns the inode at index, or nil if index is out of range or
// falls through a missing interior pointer.
func Lookup(root *Node, index uint64) *vfs.Inode {
	if index >= root.capacity() {
		return nil
	}

	n := root
	for n.level > 0 {
		size := n.capacity() / uint64(n.fanout)
		childIndex := index / size
		index %= size

		child := n.children[childIndex]
		if child == nil {
			return nil
		}
		n = child
	}

	return n.leaves[index]
}

// Insert finds the lowest-numbered free leaf slot in root (growing root if
// every leaf is occupied) and writes record there, returning the global
// index it was placed at. record.Ino is set to that index.
//
// root must not be empty (index 0 is reserved for the invalid sentinel and
// must already be occupied before the first real Insert).
func Insert(root **Node, record *vfs.Inode) uint64 {
	if index, ok := trySet(*root, record); ok {
		record.Ino = vfs.InodeNumber(index)
		return index
	}

	grow(root)

	index, ok := trySet(*root, record)
	if !ok {
		// grow always creates room for exactly one more leaf at the new
		// root's leftmost empty spine; failing here means grow is broken.
		panic("btree: insert failed immediately after grow")
	}
	record.Ino = vfs.InodeNumber(index)
	return index
}

// trySet searches left-to-right across leaves for a free slot, descending
// recursively through interior nodes and allocating any missing subtree it
// reaches. It returns the global index and true on success, or false if n
// is entirely full.
func trySet(n *Node, record *vfs.Inode) (uint64, bool) {
	if n.level == 0 {
		if n.used >= n.fanout {
			return 0, false
		}
		for i, leaf := range n.leaves {
			if leaf == nil {
				n.leaves[i] = record
				n.used++
				return uint64(i), true
			}
		}
		return 0, false
	}

	subtreeSize := n.capacity() / uint64(n.fanout)
	for i, child := range n.children {
		if child == nil {
			if n.level == 1 {
				child = New(n.fanout)
			} else {
				child = newInterior(n.level-1, n.fanout)
			}
			n.children[i] = child
			n.used++
		}
		if index, ok := trySet(child, record); ok {
			return uint64(i)*subtreeSize + index, true
		}
	}
	return 0, false
}

// grow adds one level above the current root: the old root becomes slot 0
// of the new root, and a fresh left spine of empty subtrees is allocated
// under slot 1 down to level 0, ready to receive the next Insert.
func grow(root **Node) {
	old := *root
	fanout := old.fanout
	newRoot := newInterior(old.level+1, fanout)
	newRoot.children[0] = old
	newRoot.used++

	var spine *Node
	level := old.level
	for level >= 0 {
		var node *Node
		if level == 0 {
			node = New(fanout)
		} else {
			node = newInterior(level, fanout)
		}

		if spine == nil {
			newRoot.children[1] = node
			newRoot.used++
		} else {
			spine.children[0] = node
			spine.used++
		}
		spine = node
		level--
	}

	*root = newRoot
}

// FreeLeaf removes the leaf at index. An interior node that becomes
// entirely empty is detached from its parent (the root is never
// collapsed, keeping the sentinel at index 0 reachable). It returns the
// freed inode, or nil if index was already empty or out of range.
func FreeLeaf(root *Node, index uint64) *vfs.Inode {
	if index >= root.capacity() {
		return nil
	}
	return freeLeaf(root, index)
}

func freeLeaf(n *Node, index uint64) *vfs.Inode {
	if n.level == 0 {
		freed := n.leaves[index]
		if freed != nil {
			n.leaves[index] = nil
			n.used--
		}
		return freed
	}

	subtreeSize := n.capacity() / uint64(n.fanout)
	childIndex := index / subtreeSize
	child := n.children[childIndex]
	if child == nil {
		return nil
	}

	freed := freeLeaf(child, index%subtreeSize)
	if child.used == 0 {
		n.children[childIndex] = nil
		n.used--
	}
	return freed
}

// FreeAll recursively frees every subtree under root, invoking onLeaf on
// each non-nil leaf (the driver's inode-free hook) except the sentinel at
// global index 0, per spec.md's requirement that the free-all hook run on
// each non-sentinel leaf only.
func FreeAll(root *Node, onLeaf func(*vfs.Inode)) {
	freeAll(root, 0, onLeaf)
}

func freeAll(n *Node, base uint64, onLeaf func(*vfs.Inode)) {
	if n.level == 0 {
		for i, leaf := range n.leaves {
			if leaf == nil {
				continue
			}
			if base+uint64(i) == 0 {
				continue
			}
			onLeaf(leaf)
		}
		return
	}

	subtreeSize := n.capacity() / uint64(n.fanout)
	for i, child := range n.children {
		if child != nil {
			freeAll(child, base+uint64(i)*subtreeSize, onLeaf)
		}
	}
}
