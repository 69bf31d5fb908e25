package graph

import "github.com/google/uuid"

// NodeID identifies a node within one design graph. IDs are random UUIDs;
// they are unique per evaluation, not content-addressed, so re-evaluating
// the same source produces fresh IDs.
type NodeID string

// NewNodeID returns a fresh random node ID.
func NewNodeID() NodeID {
	return NodeID(uuid.NewString())
}

// IsZero reports whether the ID is unset.
func (id NodeID) IsZero() bool {
	return id == ""
}

// Short returns an abbreviated form of the ID for log and error output.
func (id NodeID) Short() string {
	const n = 8
	if len(id) <= n {
		return string(id)
	}
	return string(id[:n])
}

// Vec3 is a plain 3-component vector used in node payloads. It stays a
// simple struct (rather than a math library type) so graphs serialize to
// readable JSON.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// IsZero reports whether all components are exactly zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}
