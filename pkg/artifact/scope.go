package artifact

// Scope declares at which lifecycle phase a dependency is needed.
type Scope string

const (
	ScopeCompile  Scope = "compile"
	ScopeRuntime  Scope = "runtime"
	ScopeProvided Scope = "provided"
	ScopeTest     Scope = "test"
	ScopeSystem   Scope = "system"
)

// OrDefault returns s, or compile when s is unspecified.
func (s Scope) OrDefault() Scope {
	if s == "" {
		return ScopeCompile
	}
	return s
}

// Transitive reports whether dependencies declared with s are inherited by
// consumers of the declaring artifact.
func (s Scope) Transitive() bool {
	switch s.OrDefault() {
	case ScopeCompile, ScopeRuntime:
		return true
	}
	return false
}

// rank orders scopes by breadth: compile > runtime > provided/test/system.
func (s Scope) rank() int {
	switch s.OrDefault() {
	case ScopeCompile:
		return 3
	case ScopeRuntime:
		return 2
	}
	return 1
}

// EffectiveScope computes the scope of a dependency declared with child
// scope, reached through an edge whose effective scope is parent. depth is
// the depth of the child node (direct dependencies have depth 1).
//
// Direct dependencies keep their declared scope. Deeper dependencies take the
// narrower of the two scopes, and non-transitive scopes declared below depth 1
// drop the dependency entirely (ok == false).
func EffectiveScope(parent, child Scope, depth int) (scope Scope, ok bool) {
	child = child.OrDefault()
	if depth <= 1 {
		return child, true
	}
	if !child.Transitive() {
		return child, false
	}
	parent = parent.OrDefault()
	if !parent.Transitive() {
		return parent, true
	}
	if child.rank() < parent.rank() {
		return child, true
	}
	return parent, true
}
