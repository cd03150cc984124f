package graph

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mvnresolve/pkg/artifact"
	"github.com/matzehuels/mvnresolve/pkg/errors"
)

// fakeRepo is an in-memory metadata source and version lister.
type fakeRepo struct {
	deps     map[string][]artifact.Dependency // by "g:a:v"
	versions map[string][]artifact.Version    // by "g:a"

	mu    sync.Mutex
	calls map[string]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		deps:     make(map[string][]artifact.Dependency),
		versions: make(map[string][]artifact.Version),
		calls:    make(map[string]int),
	}
}

func (f *fakeRepo) add(coord string, deps ...artifact.Dependency) {
	f.deps[coord] = deps
}

func (f *fakeRepo) Dependencies(ctx context.Context, c artifact.Coordinate) ([]artifact.Dependency, error) {
	f.mu.Lock()
	f.calls[c.String()]++
	f.mu.Unlock()
	deps, ok := f.deps[c.String()]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "%s", c)
	}
	return deps, nil
}

// ListVersions serves snapshot versions only to snapshot queries and
// releases only to release queries, like separate repositories would.
func (f *fakeRepo) ListVersions(ctx context.Context, c artifact.Coordinate, r artifact.Range, snapshots bool) ([]artifact.Version, error) {
	var out []artifact.Version
	for _, v := range r.Filter(f.versions[c.GA()]) {
		if v.IsSnapshot() == snapshots {
			out = append(out, v)
		}
	}
	return out, nil
}

// dep parses "g:a:v[@scope][?]" where "?" marks the dependency optional.
func dep(s string, exclusions ...string) artifact.Dependency {
	optional := strings.HasSuffix(s, "?")
	s = strings.TrimSuffix(s, "?")
	s, scope, _ := strings.Cut(s, "@")
	parts := strings.Split(s, ":")
	d := artifact.Dependency{
		Coordinate: artifact.Coordinate{GroupID: parts[0], ArtifactID: parts[1]},
		Scope:      artifact.Scope(scope),
		Optional:   optional,
	}
	if len(parts) > 2 {
		d.Coordinate.Version = artifact.Version(parts[2])
	}
	for _, e := range exclusions {
		ex, err := artifact.ParseExclusion(e)
		if err != nil {
			panic(err)
		}
		d.Exclusions = append(d.Exclusions, ex)
	}
	return d
}

func buildTree(t *testing.T, f *fakeRepo, root string, managed []artifact.Dependency, filter Filter) (*Node, error) {
	t.Helper()
	b := NewBuilder(f, f, Options{Logger: log.New(io.Discard)})
	return b.Build(context.Background(), dep(root), managed, filter)
}

func TestBuild_Tree(t *testing.T) {
	f := newFakeRepo()
	f.add("org:app:1.0", dep("org:a:1.0"), dep("junit:junit:4.13@test"))
	f.add("org:a:1.0", dep("org:b:2.0@runtime"))
	f.add("org:b:2.0")
	f.add("junit:junit:4.13", dep("org.hamcrest:hamcrest-core:1.3"))
	f.add("org.hamcrest:hamcrest-core:1.3")

	root, err := buildTree(t, f, "org:app:1.0", nil, nil)
	require.NoError(t, err)

	want := `org:app:jar:1.0
+- org:a:jar:1.0:compile
|  \- org:b:jar:2.0:runtime
\- junit:junit:jar:4.13:test
   \- org.hamcrest:hamcrest-core:jar:1.3:test
`
	assert.Equal(t, want, Render(root))
	assert.Equal(t, 5, Count(root))
}

func TestBuild_Idempotent(t *testing.T) {
	f := newFakeRepo()
	f.add("r:root:1", dep("r:a:1"), dep("r:b:1"), dep("r:c:1"))
	for _, x := range []string{"a", "b", "c"} {
		f.add("r:"+x+":1", dep("r:d:1"), dep("r:e:1"))
	}
	f.add("r:d:1", dep("r:f:1"))
	f.add("r:e:1", dep("r:f:1"))
	f.add("r:f:1")

	first, err := buildTree(t, f, "r:root:1", nil, nil)
	require.NoError(t, err)
	second, err := buildTree(t, f, "r:root:1", nil, nil)
	require.NoError(t, err)
	serial, err := NewBuilder(f, f, Options{Concurrency: 1, Logger: log.New(io.Discard)}).
		Build(context.Background(), dep("r:root:1"), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, Fingerprint(first), Fingerprint(second))
	assert.Equal(t, Fingerprint(first), Fingerprint(serial))
	assert.Equal(t, Render(first), Render(serial))
}

func TestBuild_ExclusionScoping(t *testing.T) {
	f := newFakeRepo()
	f.add("r:root:1", dep("r:a:1", "r:c"), dep("r:b:1"))
	f.add("r:a:1", dep("r:x:1"), dep("r:c:1"))
	f.add("r:x:1", dep("r:c:1"))
	f.add("r:b:1", dep("r:c:1"))
	f.add("r:c:1")

	root, err := buildTree(t, f, "r:root:1", nil, nil)
	require.NoError(t, err)

	a, b := root.Children[0], root.Children[1]
	Walk(a, func(n *Node) bool {
		assert.NotEqual(t, "r:c", n.Coordinate().GA(), "excluded under a at depth %d", n.Depth)
		return true
	})
	require.Len(t, b.Children, 1)
	assert.Equal(t, "r:c", b.Children[0].Coordinate().GA())
}

func TestBuild_WildcardExclusion(t *testing.T) {
	f := newFakeRepo()
	f.add("r:root:1", dep("r:a:1", "*:*"))
	f.add("r:a:1", dep("s:b:1"), dep("t:c:1"))

	root, err := buildTree(t, f, "r:root:1", nil, nil)
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	assert.Empty(t, root.Children[0].Children)
}

func TestBuild_Cycle(t *testing.T) {
	f := newFakeRepo()
	f.add("r:root:1", dep("r:a:1"))
	f.add("r:a:1", dep("r:b:1"))
	f.add("r:b:1", dep("r:root:2"), dep("r:a:1"))

	root, err := buildTree(t, f, "r:root:1", nil, nil)
	require.NoError(t, err)

	b := root.Children[0].Children[0]
	require.Len(t, b.Children, 2)
	for _, c := range b.Children {
		assert.True(t, c.Cycle, "%s should be a cycle leaf", c)
		assert.Empty(t, c.Children)
	}
	assert.Equal(t, 5, Count(root))
}

func TestBuild_Optional(t *testing.T) {
	f := newFakeRepo()
	f.add("r:root:1", dep("r:a:1"), dep("r:missing:1?"), dep("r:unversioned?"))
	f.add("r:a:1", dep("r:opt:1?"))
	f.add("r:opt:1")

	root, err := buildTree(t, f, "r:root:1", nil, nil)
	require.NoError(t, err)
	require.Len(t, root.Children, 3)

	assert.True(t, root.Children[0].Children[0].Resolved(), "transitive optional dependency is kept")
	assert.True(t, errors.Is(root.Children[1].Err, errors.ErrCodeNotFound))
	assert.Error(t, root.Children[2].Err)
	assert.False(t, root.Children[2].Resolved())
}

func TestBuild_RequiredFailureAborts(t *testing.T) {
	f := newFakeRepo()
	f.add("r:root:1", dep("r:a:1"))
	f.add("r:a:1", dep("r:missing:1"))

	_, err := buildTree(t, f, "r:root:1", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "got %v", err)
	assert.Contains(t, err.Error(), "r:root -> r:a")

	_, err = buildTree(t, f, "r:nothing:1", nil, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "root failure: %v", err)
}

func TestBuild_Managed(t *testing.T) {
	f := newFakeRepo()
	f.add("r:root:1", dep("r:a"), dep("r:b:1.0"))
	f.add("r:a:3.0", dep("r:c:1.0@runtime"))
	f.add("r:b:1.0")
	f.add("r:c:1.0")

	managed := []artifact.Dependency{
		dep("r:a:3.0"),
		dep("r:b:9.9@test"),
		dep("r:c:2.0@compile"),
	}
	root, err := buildTree(t, f, "r:root:1", managed, nil)
	require.NoError(t, err)

	a, b := root.Children[0], root.Children[1]
	assert.Equal(t, artifact.Version("3.0"), a.Coordinate().Version)
	assert.Equal(t, artifact.Version(""), a.Premanaged)
	assert.Equal(t, artifact.Version("1.0"), b.Coordinate().Version, "declared version wins")
	assert.Equal(t, artifact.ScopeTest, b.Scope, "managed scope fills an unset scope")

	c := a.Children[0]
	assert.Equal(t, artifact.Version("1.0"), c.Coordinate().Version)
	assert.Equal(t, artifact.ScopeRuntime, c.Scope)
}

func TestBuild_Ranges(t *testing.T) {
	f := newFakeRepo()
	f.versions["r:a"] = []artifact.Version{"1.0", "1.5", "2.0"}
	f.add("r:root:1", dep("r:a:[1.0,2.0)"), dep("r:none:[5,6)?"))
	f.add("r:a:1.5")

	root, err := buildTree(t, f, "r:root:1", nil, nil)
	require.NoError(t, err)
	a := root.Children[0]
	assert.Equal(t, artifact.Version("1.5"), a.Coordinate().Version)
	assert.Equal(t, artifact.Version("[1.0,2.0)"), a.Premanaged)
	assert.Contains(t, a.String(), "(from [1.0,2.0))")
	assert.Error(t, root.Children[1].Err)
}

func TestBuild_RangesWithSnapshots(t *testing.T) {
	f := newFakeRepo()
	f.versions["r:a"] = []artifact.Version{"1.0", "1.1", "1.2-SNAPSHOT", "3.0-SNAPSHOT"}
	f.add("r:root:1", dep("r:a:[1.0,2.0)"))
	f.add("r:a:1.1")
	f.add("r:a:1.2-SNAPSHOT")

	releases, err := buildTree(t, f, "r:root:1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, artifact.Version("1.1"), releases.Children[0].Coordinate().Version)

	b := NewBuilder(f, f, Options{Logger: log.New(io.Discard), Snapshots: true})
	withSnapshots, err := b.Build(context.Background(), dep("r:root:1"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, artifact.Version("1.2-SNAPSHOT"), withSnapshots.Children[0].Coordinate().Version)
}

func TestBuild_MalformedRange(t *testing.T) {
	f := newFakeRepo()
	f.add("r:root:1", dep("r:a:[1.0,"))

	_, err := buildTree(t, f, "r:root:1", nil, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeMalformedRange), "got %v", err)
}

func TestBuild_Scopes(t *testing.T) {
	f := newFakeRepo()
	f.add("r:root:1", dep("r:t:1@test"), dep("r:p:1@provided"), dep("r:c:1"))
	f.add("r:t:1", dep("r:tc:1"), dep("r:tt:1@test"))
	f.add("r:p:1", dep("r:pr:1@runtime"))
	f.add("r:c:1", dep("r:cr:1@runtime"), dep("r:cp:1@provided"))
	for _, x := range []string{"tc", "tt", "pr", "cr", "cp"} {
		f.add("r:" + x + ":1")
	}

	root, err := buildTree(t, f, "r:root:1", nil, nil)
	require.NoError(t, err)

	scopes := map[string]artifact.Scope{}
	Walk(root, func(n *Node) bool {
		if n.Depth > 0 {
			scopes[n.Coordinate().ArtifactID] = n.Scope
		}
		return true
	})
	assert.Equal(t, map[string]artifact.Scope{
		"t":  artifact.ScopeTest,
		"tc": artifact.ScopeTest,
		"p":  artifact.ScopeProvided,
		"pr": artifact.ScopeProvided,
		"c":  artifact.ScopeCompile,
		"cr": artifact.ScopeRuntime,
	}, scopes)
}

func TestBuild_Filter(t *testing.T) {
	f := newFakeRepo()
	f.add("r:root:1", dep("r:a:1"), dep("r:t:1@test"), dep("r:x:1"))
	f.add("r:a:1", dep("r:x:1"), dep("r:y:1"))
	f.add("r:x:1")
	f.add("r:y:1")

	var sawParents bool
	onlyUnderA := FilterFunc(func(d artifact.Dependency, parents []artifact.Dependency) bool {
		if d.Coordinate.ArtifactID == "y" {
			sawParents = len(parents) == 2 && parents[1].Coordinate.ArtifactID == "a"
		}
		return true
	})
	filter := AndFilter(RuntimeFilter(), ExcludeFilter(artifact.Exclusion{GroupID: "r", ArtifactID: "x"}), onlyUnderA, nil)

	root, err := buildTree(t, f, "r:root:1", nil, filter)
	require.NoError(t, err)
	assert.Equal(t, "r:root:jar:1\n\\- r:a:jar:1:compile\n   \\- r:y:jar:1:compile\n", Render(root))
	assert.True(t, sawParents, "filter receives the path from the root")
}

func TestBuild_MetadataOncePerCoordinate(t *testing.T) {
	f := newFakeRepo()
	f.add("r:root:1", dep("r:a:1"), dep("r:b:1"), dep("r:c:1"))
	f.add("r:a:1", dep("r:shared:1"))
	f.add("r:b:1", dep("r:shared:1"))
	f.add("r:c:1", dep("r:shared:1"))
	f.add("r:shared:1", dep("r:leaf:1"))
	f.add("r:leaf:1")

	_, err := buildTree(t, f, "r:root:1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls["r:shared:1"])
	assert.Equal(t, 1, f.calls["r:leaf:1"])
}

func TestBuild_MaxDepth(t *testing.T) {
	f := newFakeRepo()
	f.add("r:root:1", dep("r:a:1"))
	f.add("r:a:1", dep("r:b:1"))
	f.add("r:b:1", dep("r:c:1"))

	b := NewBuilder(f, f, Options{MaxDepth: 2, Logger: log.New(io.Discard)})
	root, err := b.Build(context.Background(), dep("r:root:1"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, Count(root))
}

func TestBuild_Cancelled(t *testing.T) {
	f := newFakeRepo()
	f.add("r:root:1", dep("r:a:1"))
	f.add("r:a:1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewBuilder(f, f, Options{Logger: log.New(io.Discard)}).Build(ctx, dep("r:root:1"), nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
