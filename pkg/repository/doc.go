// Package repository answers the two questions the resolver asks of the
// outside world: which versions of an artifact exist, and where are its bytes.
//
// # Remotes
//
// A [Remote] is a Maven-layout repository reached through a [Transport].
// Each remote serves either releases or snapshots, never both. [NewRemote]
// derives the split from the URL: a URL ending in "snapshots" is a snapshot
// repository that is re-checked on every request, anything else is a release
// repository whose metadata never goes stale.
//
// # Index
//
// [Index] combines the ordered remotes with the local repository:
//
//   - [Index.ListVersions] merges maven-metadata.xml from every eligible
//     remote. Repositories that fail are logged and skipped.
//   - [Index.FetchArtifact] tries the local repository, then the remotes,
//     then any caller-supplied extras. Downloads are checked against their
//     .sha1 sidecar and written through to the local repository.
//
// Metadata responses are cached in a [cache.Cache] for as long as the
// owning remote's update policy allows.
package repository
