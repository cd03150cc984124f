package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mvnresolve/pkg/artifact"
	"github.com/matzehuels/mvnresolve/pkg/graph"
	"github.com/matzehuels/mvnresolve/pkg/repository"
	"github.com/matzehuels/mvnresolve/pkg/resolve"
)

// resolveOpts holds the flags shared by tree and deps.
type resolveOpts struct {
	scope        string   // scope of the root dependency
	scopes       []string // keep only these effective scopes
	managed      []string // group:artifact:version pins
	exclusions   []string // group:artifact patterns
	repositories []string // extra id=url repositories
}

func (o *resolveOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.scope, "scope", "", "scope of the root dependency (compile, runtime, test, provided)")
	cmd.Flags().StringSliceVar(&o.scopes, "only", nil, "keep only dependencies with these effective scopes")
	cmd.Flags().StringArrayVarP(&o.managed, "manage", "m", nil, "pin a version (group:artifact:version, repeatable)")
	cmd.Flags().StringArrayVarP(&o.exclusions, "exclude", "x", nil, "exclude group:artifact everywhere (repeatable, * allowed)")
	cmd.Flags().StringArrayVarP(&o.repositories, "repository", "r", nil, "extra repository as id=url (repeatable)")
}

// request is a parsed resolveOpts.
type request struct {
	root    artifact.Dependency
	managed []artifact.Dependency
	filter  graph.Filter
	extra   []repository.Remote
}

func (o *resolveOpts) request(coord string) (*request, error) {
	root, err := parseDependency(coord, o.scope)
	if err != nil {
		return nil, err
	}
	managed, err := parseManaged(o.managed)
	if err != nil {
		return nil, err
	}
	exclusions, err := parseExclusions(o.exclusions)
	if err != nil {
		return nil, err
	}
	extra, err := parseRepositories(o.repositories)
	if err != nil {
		return nil, err
	}
	scopes, err := parseScopes(o.scopes)
	if err != nil {
		return nil, err
	}

	var filter graph.Filter
	if len(scopes) > 0 {
		filter = graph.ScopeFilter(scopes...)
	}
	if len(exclusions) > 0 {
		filter = graph.AndFilter(filter, graph.ExcludeFilter(exclusions...))
	}
	return &request{root: root, managed: managed, filter: filter, extra: extra}, nil
}

// printConflicts lists every version that lost to a nearer one.
func printConflicts(cmd *cobra.Command, root *graph.Node) {
	conflicts := resolve.Conflicts(root)
	if len(conflicts) == 0 {
		return
	}
	w := cmd.ErrOrStderr()
	printNewline(w)
	printWarning(w, "%d version conflicts", len(conflicts))
	for _, c := range conflicts {
		printDetail(w, "%s: %s (depth %d) omitted for %s (depth %d)", c.GA, c.Loser, c.LoserDepth, c.Winner, c.WinnerDepth)
	}
}
