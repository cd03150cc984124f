package graph

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/mvnresolve/pkg/artifact"
)

// Node is one dependency in a resolved tree.
type Node struct {
	// Dependency after management; its coordinate carries the concrete
	// version chosen for this node (empty if unresolved).
	Dependency artifact.Dependency

	// Premanaged is the version as declared, before management and range
	// expansion.
	Premanaged artifact.Version

	Scope    artifact.Scope // effective scope
	Depth    int            // 0 for the root
	Children []*Node

	// Cycle marks a leaf whose group:artifact already occurs on the path
	// from the root. It is not expanded.
	Cycle bool

	// Err is set on optional nodes whose version or metadata could not be
	// resolved. Such nodes have no children.
	Err error

	// Artifact is filled in once the node has been materialized.
	Artifact *artifact.Artifact
}

// Coordinate returns the node's coordinate.
func (n *Node) Coordinate() artifact.Coordinate { return n.Dependency.Coordinate }

// Resolved reports whether the node has a concrete version and no error.
func (n *Node) Resolved() bool {
	return n.Err == nil && n.Dependency.Coordinate.Version != ""
}

func (n *Node) String() string {
	c := n.Dependency.Coordinate
	s := c.GA() + ":" + c.Ext()
	if c.Classifier != "" {
		s += ":" + c.Classifier
	}
	if c.Version != "" {
		s += ":" + string(c.Version)
	}
	if n.Depth > 0 {
		s += ":" + string(n.Scope.OrDefault())
	}
	if n.Dependency.Optional {
		s += " (optional)"
	}
	if n.Premanaged != "" && n.Premanaged != c.Version {
		s += " (from " + string(n.Premanaged) + ")"
	}
	if n.Cycle {
		s += " (cycle)"
	}
	if n.Err != nil {
		s += " (unresolved: " + n.Err.Error() + ")"
	}
	return s
}

// Walk visits root and its descendants in pre-order. Returning false from
// fn skips the children of that node.
func Walk(root *Node, fn func(*Node) bool) {
	if root == nil || !fn(root) {
		return
	}
	for _, c := range root.Children {
		Walk(c, fn)
	}
}

// Count returns the number of nodes in the tree.
func Count(root *Node) int {
	n := 0
	Walk(root, func(*Node) bool { n++; return true })
	return n
}

// Fingerprint hashes the structure of a tree: coordinates, scopes, flags
// and shape. Two builds with the same inputs have the same fingerprint.
func Fingerprint(root *Node) uint64 {
	h := xxhash.New()
	Walk(root, func(n *Node) bool {
		_, _ = h.WriteString(strconv.Itoa(n.Depth))
		_, _ = h.WriteString("|")
		_, _ = h.WriteString(n.Dependency.Coordinate.String())
		_, _ = h.WriteString("|")
		_, _ = h.WriteString(string(n.Scope))
		_, _ = h.WriteString("|")
		_, _ = h.WriteString(strconv.FormatBool(n.Dependency.Optional))
		_, _ = h.WriteString(strconv.FormatBool(n.Cycle))
		_, _ = h.WriteString(strconv.FormatBool(n.Err != nil))
		_, _ = h.WriteString("\n")
		return true
	})
	return h.Sum64()
}

// Dump writes the tree in dependency:tree layout:
//
//	org.example:app:jar:1.0
//	+- junit:junit:jar:4.13.2:test
//	|  \- org.hamcrest:hamcrest-core:jar:1.3:test
//	\- org.slf4j:slf4j-api:jar:2.0.9:compile
func Dump(w io.Writer, root *Node) error {
	if root == nil {
		return nil
	}
	if _, err := fmt.Fprintln(w, root.String()); err != nil {
		return err
	}
	return dumpChildren(w, root, "")
}

func dumpChildren(w io.Writer, n *Node, prefix string) error {
	for i, c := range n.Children {
		last := i == len(n.Children)-1
		branch, indent := "+- ", "|  "
		if last {
			branch, indent = `\- `, "   "
		}
		if _, err := io.WriteString(w, prefix+branch+c.String()+"\n"); err != nil {
			return err
		}
		if err := dumpChildren(w, c, prefix+indent); err != nil {
			return err
		}
	}
	return nil
}

// Render returns [Dump] output as a string.
func Render(root *Node) string {
	var b strings.Builder
	_ = Dump(&b, root)
	return b.String()
}
