// Package graph defines the design graph types for Whittle.
// The design graph is an immutable DAG of primitives, transforms,
// boolean operations, and groups that represents a solid model.
package graph
