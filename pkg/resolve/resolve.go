// Package resolve picks one version per artifact from a dependency tree.
//
// The policy is nearest-wins: the occurrence closest to the root is
// selected, and among occurrences at the same depth the first one in
// declaration order wins. Subtrees below a losing occurrence are never
// consulted, so a dependency that only a loser pulls in does not appear in
// the result.
package resolve

import (
	"github.com/matzehuels/mvnresolve/pkg/artifact"
	"github.com/matzehuels/mvnresolve/pkg/graph"
)

// Selection is the winning node for one group:artifact.
type Selection struct {
	Node *graph.Node
}

// Coordinate returns the selected coordinate.
func (s Selection) Coordinate() artifact.Coordinate { return s.Node.Coordinate() }

// Scope returns the effective scope of the selected node.
func (s Selection) Scope() artifact.Scope { return s.Node.Scope }

// Conflict records an occurrence that lost to a nearer one.
type Conflict struct {
	GA          string
	Winner      artifact.Version
	WinnerDepth int
	Loser       artifact.Version
	LoserDepth  int
}

// Flatten returns one selection per group:artifact, root first, in the
// order the winners are discovered. Cycle leaves and unresolved optional
// nodes never win.
func Flatten(root *graph.Node) []Selection {
	sel, _ := walk(root)
	return sel
}

// Conflicts returns every losing occurrence whose version differs from the
// winner's, in discovery order.
func Conflicts(root *graph.Node) []Conflict {
	_, conflicts := walk(root)
	return conflicts
}

// walk visits the tree level by level. Within a level, nodes appear in the
// same order as a depth-first pre-order traversal, which gives the
// first-encountered tie-break.
func walk(root *graph.Node) ([]Selection, []Conflict) {
	if root == nil {
		return nil, nil
	}
	var (
		selected  []Selection
		conflicts []Conflict
		winners   = make(map[string]*graph.Node)
		level     = []*graph.Node{root}
	)
	for len(level) > 0 {
		var next []*graph.Node
		for _, n := range level {
			if n.Cycle || !n.Resolved() {
				continue
			}
			ga := n.Coordinate().GA()
			if w, ok := winners[ga]; ok {
				if v := n.Coordinate().Version; v != w.Coordinate().Version {
					conflicts = append(conflicts, Conflict{
						GA:          ga,
						Winner:      w.Coordinate().Version,
						WinnerDepth: w.Depth,
						Loser:       v,
						LoserDepth:  n.Depth,
					})
				}
				continue
			}
			winners[ga] = n
			selected = append(selected, Selection{Node: n})
			next = append(next, n.Children...)
		}
		level = next
	}
	return selected, conflicts
}
