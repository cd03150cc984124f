// Package artifact defines the value types of the resolution engine:
// coordinates, versions, version ranges, scopes, dependencies, exclusions
// and materialized artifacts.
//
// # Coordinates
//
// A [Coordinate] names a publishable unit as group:artifact[:extension[:classifier]]:version:
//
//	c, err := artifact.ParseCoordinate("junit:junit:4.13.2")
//	c.GA()   // "junit:junit"
//	c.Path() // "junit/junit/4.13.2/junit-4.13.2.jar"
//
// Two coordinates that differ only in version refer to the same artifact;
// [Coordinate.Key] and [Coordinate.GA] are the version-insensitive identities
// used for deduplication, conflict resolution and cycle detection.
//
// # Versions
//
// [CompareVersions] orders versions segment by segment. Numeric segments
// compare numerically, trailing zeros are insignificant ("1" == "1.0"), and a
// version carrying a qualifier sorts before the same numeric version without
// one: "1.0-SNAPSHOT" and "1.0-rc1" both sort before "1.0".
//
// # Ranges
//
// [ParseRange] accepts interval notation ("[1.0,2.0)", "(,1.5]", "[1.2]") and
// prefix wildcards ("1.2.*", "*"). Ranges are immutable once parsed.
//
// # Scopes
//
// [EffectiveScope] computes the scope a transitive dependency inherits from
// its parent edge: the narrower of the two wins, and test/provided/system
// dependencies of dependencies are not transitive.
package artifact
