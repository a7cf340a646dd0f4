// Package smt implements a sparse Merkle trie: a persistent, copy-on-write
// binary bit-trie of depth 256 over 32-byte keys. A write allocates only the
// nodes on the path from the root to the touched leaf, sharing every
// untouched subtree with the tree it was derived from; an open/get/with
// /commit/root_hash surface lets callers open a previously committed root,
// read, build a new version, and persist it.
package smt

import (
	"fmt"

	"mel2stf.dev/mel2stf/internal/melhash"
	"mel2stf.dev/mel2stf/internal/meltypes"
)

const depth = 256

// emptyHashes[d] is the root hash of a fully-empty subtree of depth d.
// emptyHashes[0] is the hash of an empty leaf (an absent key).
var emptyHashes [depth + 1]meltypes.Hash

func init() {
	emptyHashes[0] = melhash.Sum(nil)
	for d := 1; d <= depth; d++ {
		emptyHashes[d] = melhash.Sum2(emptyHashes[d-1], emptyHashes[d-1])
	}
}

// node is one level of the persistent binary trie. At depth 0 it is a leaf
// holding a raw value; above depth 0 it is an internal fork. A nil *node
// pointer at any depth stands for an empty subtree and is never
// materialized, which is what keeps With() cheap: a write allocates only the
// nodes on the path from the root to the touched leaf.
type node struct {
	leaf        []byte
	left, right *node
	cachedHash  *meltypes.Hash
}

func hashOfNode(n *node, d int) meltypes.Hash {
	if n == nil {
		return emptyHashes[d]
	}
	if d == 0 {
		return melhash.Sum(n.leaf)
	}
	if n.cachedHash != nil {
		return *n.cachedHash
	}
	h := melhash.Sum2(hashOfNode(n.left, d-1), hashOfNode(n.right, d-1))
	n.cachedHash = &h
	return h
}

func bitAt(key [32]byte, i int) int {
	byteIdx := i / 8
	bitIdx := 7 - uint(i%8)
	return int((key[byteIdx] >> bitIdx) & 1)
}

func getNode(n *node, d int, key [32]byte, i int) []byte {
	if n == nil {
		return nil
	}
	if d == 0 {
		return n.leaf
	}
	if bitAt(key, i) == 0 {
		return getNode(n.left, d-1, key, i+1)
	}
	return getNode(n.right, d-1, key, i+1)
}

func putNode(n *node, d int, key [32]byte, i int, value []byte) *node {
	if d == 0 {
		return &node{leaf: value}
	}
	var left, right *node
	if n != nil {
		left, right = n.left, n.right
	}
	if bitAt(key, i) == 0 {
		left = putNode(left, d-1, key, i+1, value)
	} else {
		right = putNode(right, d-1, key, i+1, value)
	}
	return &node{left: left, right: right}
}

// InMemoryStore is the content-addressed backing store trees are opened
// from and committed to, backed by a plain Go map. It is sufficient for
// process-lifetime persistence and for the demonstration driver and tests;
// a persistent backend could replace it without touching the tree logic
// above, since Tree only calls openRoot/saveRoot.
type InMemoryStore struct {
	roots map[meltypes.Hash]*node
}

// NewInMemoryStore returns an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{roots: make(map[meltypes.Hash]*node)}
}

func (s *InMemoryStore) openRoot(root meltypes.Hash) (*node, bool, error) {
	if root == meltypes.ZeroHash {
		return nil, true, nil
	}
	n, ok := s.roots[root]
	if !ok {
		return nil, false, fmt.Errorf("smt: unknown root hash %s", root)
	}
	return n, true, nil
}

func (s *InMemoryStore) saveRoot(root meltypes.Hash, n *node) error {
	s.roots[root] = n
	return nil
}

// Tree is a lightweight, immutable view over the trie rooted at a particular
// node. Cloning a Tree (taking its root pointer) is O(1); With returns a new
// Tree sharing all untouched subtrees with the receiver.
type Tree struct {
	store *InMemoryStore
	root  *node
}

// Open opens a tree view rooted at the given previously-committed hash, or
// an empty tree if root is the zero hash.
func Open(store *InMemoryStore, root meltypes.Hash) (*Tree, error) {
	n, ok, err := store.openRoot(root)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("smt: root hash not found in store")
	}
	return &Tree{store: store, root: n}, nil
}

// Get returns the value stored at key, or nil if key is absent. Absence is
// the store's sole signal of "no value here"; callers distinguish a
// legitimately empty value from a decode failure themselves.
func (t *Tree) Get(key [32]byte) []byte {
	return getNode(t.root, depth, key, 0)
}

// With returns a new Tree with key set to value, leaving the receiver
// unchanged.
func (t *Tree) With(key [32]byte, value []byte) *Tree {
	newRoot := putNode(t.root, depth, key, 0, value)
	return &Tree{store: t.store, root: newRoot}
}

// RootHash computes the tree's current root hash without persisting it to
// the store.
func (t *Tree) RootHash() meltypes.Hash {
	return hashOfNode(t.root, depth)
}

// Commit persists the tree's root into the store and returns its hash, so a
// later Open can retrieve it.
func (t *Tree) Commit() (meltypes.Hash, error) {
	h := t.RootHash()
	if err := t.store.saveRoot(h, t.root); err != nil {
		return meltypes.Hash{}, err
	}
	return h, nil
}
