package export

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/whittle-cad/whittle/pkg/kernel"
)

// STL writes meshes as a single binary STL file. STL has no notion of
// named parts, so all meshes are flattened into one triangle soup.
func STL(path string, meshes []*kernel.Mesh) error {
	var triangles []*sdf.Triangle3
	for _, m := range meshes {
		tris, err := meshTriangles(m)
		if err != nil {
			return fmt.Errorf("mesh %q: %w", m.PartName, err)
		}
		triangles = append(triangles, tris...)
	}
	if len(triangles) == 0 {
		return fmt.Errorf("nothing to export: no triangles")
	}
	return render.SaveSTL(path, triangles)
}

// meshTriangles converts an indexed mesh to sdfx triangles.
func meshTriangles(m *kernel.Mesh) ([]*sdf.Triangle3, error) {
	if len(m.Indices)%3 != 0 {
		return nil, fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}

	numVerts := uint32(len(m.Vertices) / 3)
	tris := make([]*sdf.Triangle3, 0, len(m.Indices)/3)

	for i := 0; i+2 < len(m.Indices); i += 3 {
		var t sdf.Triangle3
		for j := 0; j < 3; j++ {
			idx := m.Indices[i+j]
			if idx >= numVerts {
				return nil, fmt.Errorf("index %d out of range (%d vertices)", idx, numVerts)
			}
			t[j] = v3.Vec{
				X: float64(m.Vertices[idx*3]),
				Y: float64(m.Vertices[idx*3+1]),
				Z: float64(m.Vertices[idx*3+2]),
			}
		}
		tris = append(tris, &t)
	}
	return tris, nil
}
