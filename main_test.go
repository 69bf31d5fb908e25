package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/whittle-cad/whittle/pkg/kernel/csg"
)

const bracketDesign = `
; an L-bracket with two bolt holes
(defsolid "body"
  (union (box 60 40 6)
         (box 60 6 40)))

(defsolid "hole"
  (rotate (cylinder :height 20 :radius 3) :by (vec3 90 0 0)))

(emit (difference
  (solid "body")
  (translate (solid "hole") :by (vec3 15 20 20))
  (translate (solid "hole") :by (vec3 45 20 20))))
`

func writeDesign(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "design.lisp")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestRunPipeline(t *testing.T) {
	designPath := writeDesign(t, bracketDesign)

	cfg := defaultConfig()
	cfg.Output = filepath.Join(filepath.Dir(designPath), "bracket.stl")

	if err := runPipeline(quietLogger(), designPath, cfg, csg.New()); err != nil {
		t.Fatalf("runPipeline: %v", err)
	}

	info, err := os.Stat(cfg.Output)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if info.Size() <= 84 {
		t.Errorf("output size = %d, want more than an empty STL", info.Size())
	}
}

func TestRunPipelineOBJ(t *testing.T) {
	designPath := writeDesign(t, `(emit (box 10 10 10 :name "cube"))`)

	cfg := defaultConfig()
	cfg.Output = filepath.Join(filepath.Dir(designPath), "cube.obj")

	if err := runPipeline(quietLogger(), designPath, cfg, csg.New()); err != nil {
		t.Fatalf("runPipeline: %v", err)
	}

	data, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if !strings.Contains(string(data), "o cube") {
		t.Error("OBJ output should carry the part name")
	}
}

func TestRunPipelineEvalError(t *testing.T) {
	designPath := writeDesign(t, `(box 10 10`)

	cfg := defaultConfig()
	cfg.Output = filepath.Join(filepath.Dir(designPath), "out.stl")

	if err := runPipeline(quietLogger(), designPath, cfg, csg.New()); err == nil {
		t.Error("expected error for unparseable design")
	}
}

func TestRunPipelineNoEmit(t *testing.T) {
	designPath := writeDesign(t, `(box 10 10 10)`)

	cfg := defaultConfig()
	cfg.Output = filepath.Join(filepath.Dir(designPath), "out.stl")

	err := runPipeline(quietLogger(), designPath, cfg, csg.New())
	if err == nil || !strings.Contains(err.Error(), "emit") {
		t.Errorf("expected no-emit error, got %v", err)
	}
}

func TestRunPipelineMissingFile(t *testing.T) {
	cfg := defaultConfig()
	if err := runPipeline(quietLogger(), filepath.Join(t.TempDir(), "nope.lisp"), cfg, csg.New()); err == nil {
		t.Error("expected error for missing design file")
	}
}
