package index

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yndnr/hbr-recover/internal/core/domain"
)

// Separator splits an index key into path segments.
const Separator = "."

// Node is either an interior node with named children or a leaf holding a
// string value.
type Node struct {
	leaf     bool
	value    string
	children map[string]*Node
	order    []string // child keys in source order
}

func newNode() *Node {
	return &Node{children: make(map[string]*Node)}
}

// IsLeaf reports whether the node holds a value.
func (n *Node) IsLeaf() bool {
	return n.leaf
}

// IsEmpty reports whether the node is an interior node without children.
func (n *Node) IsEmpty() bool {
	return !n.leaf && len(n.children) == 0
}

// Value returns the leaf value, or "" for interior nodes.
func (n *Node) Value() string {
	return n.value
}

// Keys returns the child keys in source order.
func (n *Node) Keys() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

// Child returns the named child, or nil.
func (n *Node) Child(key string) *Node {
	return n.children[key]
}

// Len returns the number of children.
func (n *Node) Len() int {
	return len(n.children)
}

func (n *Node) child(key string) *Node {
	c, ok := n.children[key]
	if !ok {
		c = newNode()
		n.children[key] = c
		n.order = append(n.order, key)
	}
	return c
}

// Tree is a parsed replication index.
type Tree struct {
	root *Node
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{root: newNode()}
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Set stores value as a leaf at path, creating interior nodes on the way.
// A path that descends through an existing leaf, or a leaf that would replace
// an existing sub-tree, is a structural error. Overwriting a leaf keeps the
// last value.
func (t *Tree) Set(path, value string) error {
	segs := split(path)
	if len(segs) == 0 {
		return domain.ErrIndexStructure.WithDetails("empty key")
	}

	n := t.root
	for i, seg := range segs[:len(segs)-1] {
		n = n.child(seg)
		if n.leaf {
			return domain.ErrIndexStructure.WithDetailsf("key %q descends through value at %q",
				path, strings.Join(segs[:i+1], Separator))
		}
	}

	last := n.child(segs[len(segs)-1])
	if len(last.children) > 0 {
		return domain.ErrIndexStructure.WithDetailsf("value for %q would replace its sub-keys", path)
	}
	last.leaf = true
	last.value = value
	return nil
}

// Lookup returns the node at path. Missing interior nodes are created empty,
// so the result is never nil; check IsEmpty to test for presence. A path
// running through a leaf yields a detached empty node.
func (t *Tree) Lookup(path string) *Node {
	n := t.root
	for _, seg := range split(path) {
		if n.leaf {
			return newNode()
		}
		n = n.child(seg)
	}
	return n
}

// find walks path without creating anything.
func (t *Tree) find(path string) *Node {
	n := t.root
	for _, seg := range split(path) {
		n = n.children[seg]
		if n == nil {
			return nil
		}
	}
	return n
}

// Has reports whether path holds a leaf value.
func (t *Tree) Has(path string) bool {
	n := t.find(path)
	return n != nil && n.leaf
}

// String returns the leaf value at path.
func (t *Tree) String(path string) (string, error) {
	n := t.find(path)
	if n == nil || !n.leaf {
		return "", domain.ErrIndexFieldMissing.WithDetails(path)
	}
	return n.value, nil
}

// Int returns the leaf value at path parsed as a base-10 integer.
func (t *Tree) Int(path string) (int, error) {
	s, err := t.String(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, domain.ErrIndexFieldMissing.WithDetailsf("%s: %q is not an integer", path, s).WithCause(err)
	}
	return v, nil
}

// Children returns the child keys of the interior node at path in source
// order, or nil if there is no such node.
func (t *Tree) Children(path string) []string {
	n := t.find(path)
	if n == nil || n.leaf {
		return nil
	}
	return n.Keys()
}

// Path joins segments into an index key, e.g. Path("instance", 2, "snapshot").
func Path(segs ...any) string {
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		parts = append(parts, fmt.Sprint(s))
	}
	return strings.Join(parts, Separator)
}

func split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}
