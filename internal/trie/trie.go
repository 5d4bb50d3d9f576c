// Package trie indexes dotted constant names by namespace.
//
// Nodes live in a single arena slice and refer to their children by index.
// A path such as Equiv.toFun is stored as the segments ["Equiv", "toFun"].
package trie

import (
	"sort"
	"strings"
)

// NodeIndex represents the index of a trie node.
type NodeIndex int

// Arena is a memory pool that stores all trie nodes.
type Arena struct {
	nodes []arenaNode
}

type arenaNode struct {
	// children maps a path segment to the node of the longer path.
	children map[string]NodeIndex
	// isEnd marks a path that was inserted, not only a namespace.
	isEnd bool
}

// NewArena creates an arena holding only the root node.
func NewArena() *Arena {
	arena := &Arena{
		nodes: make([]arenaNode, 0, 256),
	}
	arena.newNode()
	return arena
}

func (a *Arena) newNode() NodeIndex {
	idx := NodeIndex(len(a.nodes))
	a.nodes = append(a.nodes, arenaNode{children: make(map[string]NodeIndex)})
	return idx
}

// Insert inserts a sequence of path segments.
func (a *Arena) Insert(sequence []string) {
	current := NodeIndex(0)
	for _, part := range sequence {
		childIdx, exists := a.nodes[current].children[part]
		if !exists {
			childIdx = a.newNode()
			a.nodes[current].children[part] = childIdx
		}
		current = childIdx
	}
	a.nodes[current].isEnd = true
}

// find returns the node of prefix.
func (a *Arena) find(prefix []string) (NodeIndex, bool) {
	current := NodeIndex(0)
	for _, part := range prefix {
		next, ok := a.nodes[current].children[part]
		if !ok {
			return 0, false
		}
		current = next
	}
	return current, true
}

// Contains reports whether sequence was inserted.
func (a *Arena) Contains(sequence []string) bool {
	idx, ok := a.find(sequence)
	return ok && a.nodes[idx].isEnd
}

// Under returns the inserted paths that start with prefix, prefix itself
// included, in lexical order of their segments.
func (a *Arena) Under(prefix []string) [][]string {
	idx, ok := a.find(prefix)
	if !ok {
		return nil
	}
	var out [][]string
	a.collect(idx, append([]string(nil), prefix...), &out)
	return out
}

func (a *Arena) collect(idx NodeIndex, path []string, out *[][]string) {
	node := a.nodes[idx]
	if node.isEnd {
		*out = append(*out, append([]string(nil), path...))
	}
	for _, key := range sortedKeys(node.children) {
		a.collect(node.children[key], append(path, key), out)
	}
}

// Children returns the segments directly below prefix.
func (a *Arena) Children(prefix []string) []string {
	idx, ok := a.find(prefix)
	if !ok {
		return nil
	}
	return sortedKeys(a.nodes[idx].children)
}

// DebugString renders the trie as nested segments, ends marked with *.
func (a *Arena) DebugString() string {
	return a.debugStringNode(NodeIndex(0))
}

func (a *Arena) debugStringNode(idx NodeIndex) string {
	node := a.nodes[idx]
	var sb strings.Builder
	if node.isEnd {
		sb.WriteString("*")
	}
	for _, key := range sortedKeys(node.children) {
		sb.WriteString(key)
		sb.WriteString("(")
		sb.WriteString(a.debugStringNode(node.children[key]))
		sb.WriteString(")")
	}
	return sb.String()
}

func sortedKeys(m map[string]NodeIndex) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Names indexes dotted names.
type Names struct {
	arena *Arena
}

// NewNames returns an index of names.
func NewNames(names ...string) *Names {
	n := &Names{arena: NewArena()}
	for _, name := range names {
		n.Add(name)
	}
	return n
}

func split(name string) []string {
	if name == "" {
		return nil
	}
	return strings.Split(name, ".")
}

// Add inserts name.
func (n *Names) Add(name string) {
	n.arena.Insert(split(name))
}

// Has reports whether name was added.
func (n *Names) Has(name string) bool {
	return n.arena.Contains(split(name))
}

// Under returns the names in the namespace ns, ns itself included when
// it was added. The empty namespace holds every name.
func (n *Names) Under(ns string) []string {
	paths := n.arena.Under(split(ns))
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = strings.Join(p, ".")
	}
	return out
}

// Namespaces returns the segments directly inside ns.
func (n *Names) Namespaces(ns string) []string {
	return n.arena.Children(split(ns))
}

func (n *Names) String() string {
	return n.arena.DebugString()
}
