// Package tessellate walks a design graph and produces triangle meshes
// using a geometry kernel. One mesh is produced per root.
package tessellate

import (
	"fmt"

	"github.com/whittle-cad/whittle/pkg/graph"
	"github.com/whittle-cad/whittle/pkg/kernel"
)

// Tessellate evaluates the design graph bottom-up with the provided
// geometry kernel and returns one triangle mesh per root. The tessellator
// is read-only and never mutates the graph.
func Tessellate(g *graph.DesignGraph, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if g == nil {
		return nil, nil
	}

	var meshes []*kernel.Mesh
	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			continue
		}
		solid, err := buildSolid(g, k, root)
		if err != nil {
			return nil, fmt.Errorf("tessellate: root %s: %w", rootID.Short(), err)
		}
		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh for root %s: %w", rootID.Short(), err)
		}
		if root.Name != "" {
			mesh.PartName = root.Name
		} else {
			mesh.PartName = root.ID.Short()
		}
		meshes = append(meshes, mesh)
	}

	return meshes, nil
}

// buildSolid recursively evaluates a node into a kernel solid.
func buildSolid(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node) (kernel.Solid, error) {
	switch n.Kind {
	case graph.NodePrimitive:
		return buildPrimitive(g, k, n)

	case graph.NodeTransform:
		return buildTransform(g, k, n)

	case graph.NodeBoolean:
		return buildBoolean(g, k, n)

	case graph.NodeGroup:
		// A group renders as the union of its children.
		return unionChildren(g, k, n)

	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

func buildPrimitive(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node) (kernel.Solid, error) {
	switch data := n.Data.(type) {
	case graph.BoxData:
		return k.Box(data.Dimensions.X, data.Dimensions.Y, data.Dimensions.Z), nil
	case graph.CylinderData:
		segments := data.Segments
		if segments == 0 {
			segments = g.Defaults.Segments
		}
		return k.Cylinder(data.Height, data.Radius, segments), nil
	default:
		return nil, fmt.Errorf("primitive node %s has unsupported data type %T", n.ID.Short(), n.Data)
	}
}

// buildTransform evaluates the single child, then rotates and translates
// it. Rotation is applied before translation, so a rotated solid pivots
// about its own origin and then moves into place.
func buildTransform(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node) (kernel.Solid, error) {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	children := g.Children(n)
	if len(children) != 1 {
		return nil, fmt.Errorf("transform node %s has %d children, want 1", n.ID.Short(), len(children))
	}

	solid, err := buildSolid(g, k, children[0])
	if err != nil {
		return nil, err
	}
	if td.Rotation != nil && !td.Rotation.IsZero() {
		solid = k.Rotate(solid, td.Rotation.X, td.Rotation.Y, td.Rotation.Z)
	}
	if td.Translation != nil && !td.Translation.IsZero() {
		solid = k.Translate(solid, td.Translation.X, td.Translation.Y, td.Translation.Z)
	}
	return solid, nil
}

// buildBoolean folds the node's operator left over its children: union and
// intersection are associative, and difference subtracts every child after
// the first from the first.
func buildBoolean(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node) (kernel.Solid, error) {
	bd, ok := n.Data.(graph.BooleanData)
	if !ok {
		return nil, fmt.Errorf("boolean node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	children := g.Children(n)
	if len(children) < 2 {
		return nil, fmt.Errorf("boolean node %s has %d children, want at least 2", n.ID.Short(), len(children))
	}

	acc, err := buildSolid(g, k, children[0])
	if err != nil {
		return nil, err
	}
	for _, child := range children[1:] {
		operand, err := buildSolid(g, k, child)
		if err != nil {
			return nil, err
		}
		switch bd.Op {
		case graph.BoolUnion:
			acc = k.Union(acc, operand)
		case graph.BoolDifference:
			acc = k.Difference(acc, operand)
		case graph.BoolIntersection:
			acc = k.Intersection(acc, operand)
		default:
			return nil, fmt.Errorf("boolean node %s has unknown op %v", n.ID.Short(), bd.Op)
		}
	}
	return acc, nil
}

func unionChildren(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node) (kernel.Solid, error) {
	children := g.Children(n)
	if len(children) == 0 {
		return nil, fmt.Errorf("group node %s has no children", n.ID.Short())
	}

	acc, err := buildSolid(g, k, children[0])
	if err != nil {
		return nil, err
	}
	for _, child := range children[1:] {
		operand, err := buildSolid(g, k, child)
		if err != nil {
			return nil, err
		}
		acc = k.Union(acc, operand)
	}
	return acc, nil
}
