// Package pom reads dependency metadata from Maven project object models.
//
// [Source] downloads the POM of a coordinate, follows its <parent> chain and
// dependencyManagement imports, interpolates ${...} properties and returns
// the declared dependencies in document order. It is the metadata source
// the graph builder uses when expanding a dependency tree.
//
// Dependencies whose groupId or artifactId still contain an unresolved
// property after interpolation are skipped. A version left unresolved is
// treated as missing and filled from dependency management when possible.
package pom
