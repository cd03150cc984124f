package graph

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/mvnresolve/pkg/artifact"
	"github.com/matzehuels/mvnresolve/pkg/errors"
)

// Graph is the JSON form of a dependency tree. Nodes are listed in
// pre-order; node ids are only meaningful within one document.
type Graph struct {
	Root  string      `json:"root"`
	Nodes []GraphNode `json:"nodes"`
	Edges []Edge      `json:"edges"`
}

// GraphNode is one occurrence of a dependency in a [Graph].
type GraphNode struct {
	ID         string               `json:"id"`
	GroupID    string               `json:"group"`
	ArtifactID string               `json:"artifact"`
	Extension  string               `json:"extension,omitempty"`
	Classifier string               `json:"classifier,omitempty"`
	Version    string               `json:"version,omitempty"`
	Premanaged string               `json:"premanaged,omitempty"` // Declared version, when it differs
	Scope      string               `json:"scope,omitempty"`
	Depth      int                  `json:"depth"`
	Optional   bool                 `json:"optional,omitempty"`
	Exclusions []artifact.Exclusion `json:"exclusions,omitempty"`
	Cycle      bool                 `json:"cycle,omitempty"`
	Error      string               `json:"error,omitempty"`
	ErrorCode  string               `json:"error_code,omitempty"`
	File       string               `json:"file,omitempty"`
	Repository string               `json:"repository,omitempty"`
}

// Edge links a node to one of its children.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Export converts a tree to its JSON form.
func Export(root *Node) Graph {
	var g Graph
	if root == nil {
		return g
	}
	ids := make(map[*Node]string)
	Walk(root, func(n *Node) bool {
		id := "n" + strconv.Itoa(len(ids))
		ids[n] = id
		g.Nodes = append(g.Nodes, exportNode(id, n))
		return true
	})
	Walk(root, func(n *Node) bool {
		for _, c := range n.Children {
			g.Edges = append(g.Edges, Edge{From: ids[n], To: ids[c]})
		}
		return true
	})
	g.Root = ids[root]
	return g
}

func exportNode(id string, n *Node) GraphNode {
	c := n.Dependency.Coordinate
	out := GraphNode{
		ID:         id,
		GroupID:    c.GroupID,
		ArtifactID: c.ArtifactID,
		Extension:  c.Extension,
		Classifier: c.Classifier,
		Version:    string(c.Version),
		Scope:      string(n.Scope),
		Depth:      n.Depth,
		Optional:   n.Dependency.Optional,
		Exclusions: n.Dependency.Exclusions,
		Cycle:      n.Cycle,
	}
	if n.Premanaged != c.Version {
		out.Premanaged = string(n.Premanaged)
	}
	if n.Err != nil {
		code := errors.GetCode(n.Err)
		out.ErrorCode = string(code)
		out.Error = strings.TrimPrefix(n.Err.Error(), string(code)+": ")
	}
	if n.Artifact != nil {
		out.File = n.Artifact.File
		out.Repository = n.Artifact.Repository
	}
	return out
}

// Import rebuilds the tree described by g. Node errors come back as
// [*errors.Error] values with the recorded code and message (code
// [errors.ErrCodeResolution] if none was recorded), and the declared scope
// of each dependency is replaced by its effective scope.
func Import(g Graph) (*Node, error) {
	nodes := make(map[string]*Node, len(g.Nodes))
	for _, gn := range g.Nodes {
		if _, dup := nodes[gn.ID]; dup {
			return nil, errors.New(errors.ErrCodeCorrupt, "duplicate node id %q", gn.ID)
		}
		nodes[gn.ID] = importNode(gn)
	}
	hasParent := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		from, ok := nodes[e.From]
		if !ok {
			return nil, errors.New(errors.ErrCodeCorrupt, "edge from unknown node %q", e.From)
		}
		to, ok := nodes[e.To]
		if !ok {
			return nil, errors.New(errors.ErrCodeCorrupt, "edge to unknown node %q", e.To)
		}
		if hasParent[e.To] || e.To == g.Root {
			return nil, errors.New(errors.ErrCodeCorrupt, "node %q has more than one parent", e.To)
		}
		hasParent[e.To] = true
		from.Children = append(from.Children, to)
	}
	root, ok := nodes[g.Root]
	if !ok {
		return nil, errors.New(errors.ErrCodeCorrupt, "unknown root %q", g.Root)
	}
	return root, nil
}

func importNode(gn GraphNode) *Node {
	c := artifact.Coordinate{
		GroupID:    gn.GroupID,
		ArtifactID: gn.ArtifactID,
		Extension:  gn.Extension,
		Classifier: gn.Classifier,
		Version:    artifact.Version(gn.Version),
	}
	n := &Node{
		Dependency: artifact.Dependency{
			Coordinate: c,
			Scope:      artifact.Scope(gn.Scope),
			Optional:   gn.Optional,
			Exclusions: gn.Exclusions,
		},
		Premanaged: c.Version,
		Scope:      artifact.Scope(gn.Scope),
		Depth:      gn.Depth,
		Cycle:      gn.Cycle,
	}
	if gn.Premanaged != "" {
		n.Premanaged = artifact.Version(gn.Premanaged)
	}
	if gn.Error != "" || gn.ErrorCode != "" {
		code := errors.Code(gn.ErrorCode)
		if code == "" {
			code = errors.ErrCodeResolution
		}
		n.Err = &errors.Error{Code: code, Message: gn.Error}
	}
	if gn.File != "" {
		n.Artifact = &artifact.Artifact{Coordinate: c, File: gn.File, Repository: gn.Repository}
	}
	return n
}

// WriteJSON writes the tree as indented JSON.
func WriteJSON(w io.Writer, root *Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Export(root)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
	}
	return nil
}

// ReadJSON decodes a tree written by [WriteJSON].
func ReadJSON(r io.Reader) (*Node, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCorrupt, err, "decode graph")
	}
	return Import(g)
}
