package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/whittle-cad/whittle/pkg/kernel"
)

// OBJ writes meshes as Wavefront OBJ text. Each mesh becomes an object
// (o <name>) so part structure survives the export. Vertex and normal
// indices are global and 1-based per the OBJ convention.
func OBJ(w io.Writer, meshes []*kernel.Mesh) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "# exported by whittle")

	vertOffset := 1
	normOffset := 1
	for i, m := range meshes {
		if len(m.Indices)%3 != 0 {
			return fmt.Errorf("mesh %q: index count %d is not a multiple of 3", m.PartName, len(m.Indices))
		}

		name := m.PartName
		if name == "" {
			name = fmt.Sprintf("part_%d", i+1)
		}
		fmt.Fprintf(bw, "o %s\n", name)

		for v := 0; v+2 < len(m.Vertices); v += 3 {
			fmt.Fprintf(bw, "v %g %g %g\n", m.Vertices[v], m.Vertices[v+1], m.Vertices[v+2])
		}
		hasNormals := len(m.Normals) == len(m.Vertices)
		if hasNormals {
			for n := 0; n+2 < len(m.Normals); n += 3 {
				fmt.Fprintf(bw, "vn %g %g %g\n", m.Normals[n], m.Normals[n+1], m.Normals[n+2])
			}
		}

		for f := 0; f+2 < len(m.Indices); f += 3 {
			a := int(m.Indices[f])
			b := int(m.Indices[f+1])
			c := int(m.Indices[f+2])
			if hasNormals {
				fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n",
					a+vertOffset, a+normOffset,
					b+vertOffset, b+normOffset,
					c+vertOffset, c+normOffset)
			} else {
				fmt.Fprintf(bw, "f %d %d %d\n", a+vertOffset, b+vertOffset, c+vertOffset)
			}
		}

		vertOffset += len(m.Vertices) / 3
		if hasNormals {
			normOffset += len(m.Normals) / 3
		}
	}

	return bw.Flush()
}
