package search

import (
	"fmt"
	"strings"

	"github.com/gnoswap-labs/equivrw/internal/equiv"
	"github.com/gnoswap-labs/equivrw/internal/term"
)

// SeedName is the candidate name of the seed relation in derivations and
// traces.
const SeedName = "seed"

// Node is a closed obligation of a derivation, labeled with the candidate
// that closed it.
type Node struct {
	Rule     string
	Binders  []term.Local
	Left     term.Term
	Right    term.Term
	Children []*Node
}

// Derivation is the result of a successful search.
type Derivation struct {
	Relation *equiv.Relation
	Root     *Node
	// Steps is the number of candidate applications in the tree.
	Steps int
}

// Rules lists the candidates of the derivation in pre-order.
func (d *Derivation) Rules() []string {
	var out []string
	d.Root.walk(func(n *Node) { out = append(out, n.Rule) })
	return out
}

// SeedUses counts the applications of the seed.
func (d *Derivation) SeedUses() int {
	n := 0
	d.Root.walk(func(node *Node) {
		if node.Rule == SeedName {
			n++
		}
	})
	return n
}

func (n *Node) walk(visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, c := range n.Children {
		c.walk(visit)
	}
}

func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb, 0)
	return strings.TrimSuffix(sb.String(), "\n")
}

func (n *Node) write(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Rule)
	sb.WriteString(": ")
	for _, b := range n.Binders {
		fmt.Fprintf(sb, "(%s : %s) ", b.Name, b.Type)
	}
	fmt.Fprintf(sb, "%s ≃ %s\n", n.Left, n.Right)
	for _, c := range n.Children {
		c.write(sb, depth+1)
	}
}
