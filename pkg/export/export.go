// Package export writes tessellated meshes to common interchange formats.
// It supports binary STL and Wavefront OBJ output.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/whittle-cad/whittle/pkg/kernel"
)

// Format identifies an output file format.
type Format int

const (
	FormatSTL Format = iota
	FormatOBJ
)

func (f Format) String() string {
	switch f {
	case FormatSTL:
		return "stl"
	case FormatOBJ:
		return "obj"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatForPath derives the output format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		return FormatSTL, nil
	case ".obj":
		return FormatOBJ, nil
	}
	return 0, fmt.Errorf("unsupported output format %q (want .stl or .obj)", filepath.Ext(path))
}

// WriteFile writes meshes to path, choosing the format from the extension.
func WriteFile(path string, meshes []*kernel.Mesh) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	switch format {
	case FormatSTL:
		return STL(path, meshes)
	case FormatOBJ:
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		werr := OBJ(f, meshes)
		cerr := f.Close()
		if werr != nil {
			return werr
		}
		return cerr
	}
	return fmt.Errorf("unsupported output format %v", format)
}
