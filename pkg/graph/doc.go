// Package graph expands a root dependency into its transitive dependency tree.
//
// # Building
//
// [Builder.Build] walks depth-first from the root. For every node it asks a
// [MetadataSource] for the declared dependencies and turns each into a child:
//
//  1. merge with the managed entry of the same group:artifact
//  2. drop it if the [Filter] rejects it or an ancestor edge excludes it
//  3. compute its effective scope; test/provided/system below depth 1 drop out
//  4. expand a version range to the highest matching version
//  5. recurse, unless the group:artifact is already on the path (a cycle)
//
// Children keep their declared order, so the tree is deterministic even
// though sibling subtrees are expanded concurrently. Each branch carries its
// own path and inherited exclusions; nothing is shared between branches
// except the per-build metadata memo.
//
// Optional dependencies stay in the tree even when their version or metadata
// cannot be resolved: such nodes carry [Node.Err] and no children. Any other
// failure aborts the build.
//
// # Inspecting
//
// [Walk] visits a tree in pre-order, [Fingerprint] hashes its structure and
// [Dump] prints it in the familiar dependency:tree layout. [WriteJSON] and
// [ReadJSON] store a tree as a flat node/edge document.
package graph
