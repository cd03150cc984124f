package graph

import (
	"slices"

	"github.com/matzehuels/mvnresolve/pkg/artifact"
)

// Filter decides whether a dependency enters the tree. dep carries its
// effective scope; parents lists the dependencies on the path from the root,
// root first. A rejected dependency is dropped with its whole subtree.
type Filter interface {
	Accept(dep artifact.Dependency, parents []artifact.Dependency) bool
}

// FilterFunc adapts a function to [Filter].
type FilterFunc func(dep artifact.Dependency, parents []artifact.Dependency) bool

// Accept calls f.
func (f FilterFunc) Accept(dep artifact.Dependency, parents []artifact.Dependency) bool {
	return f(dep, parents)
}

// ScopeFilter accepts dependencies whose effective scope is listed.
func ScopeFilter(scopes ...artifact.Scope) Filter {
	return FilterFunc(func(dep artifact.Dependency, _ []artifact.Dependency) bool {
		return slices.Contains(scopes, dep.Scope.OrDefault())
	})
}

// ExcludeFilter rejects dependencies matching any of the exclusions,
// anywhere in the tree.
func ExcludeFilter(exclusions ...artifact.Exclusion) Filter {
	return FilterFunc(func(dep artifact.Dependency, _ []artifact.Dependency) bool {
		for _, e := range exclusions {
			if e.Matches(dep.Coordinate) {
				return false
			}
		}
		return true
	})
}

// AndFilter accepts what every non-nil filter accepts.
func AndFilter(filters ...Filter) Filter {
	return FilterFunc(func(dep artifact.Dependency, parents []artifact.Dependency) bool {
		for _, f := range filters {
			if f != nil && !f.Accept(dep, parents) {
				return false
			}
		}
		return true
	})
}

// RuntimeFilter keeps what is needed on a runtime classpath.
func RuntimeFilter() Filter {
	return ScopeFilter(artifact.ScopeCompile, artifact.ScopeRuntime)
}
