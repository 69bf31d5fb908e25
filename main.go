// Command whittle evaluates a Whittle Lisp design file and exports the
// resulting solids as a mesh.
//
// Usage:
//
//	whittle [flags] <design.lisp>
//
// The pipeline is evaluate -> validate -> tessellate -> export. With
// -watch, the pipeline re-runs whenever the design file changes.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/whittle-cad/whittle/pkg/engine"
	"github.com/whittle-cad/whittle/pkg/export"
	"github.com/whittle-cad/whittle/pkg/graph"
	"github.com/whittle-cad/whittle/pkg/kernel"
	"github.com/whittle-cad/whittle/pkg/kernel/csg"
	"github.com/whittle-cad/whittle/pkg/kernel/sdfx"
	"github.com/whittle-cad/whittle/pkg/tessellate"
)

func main() {
	var (
		outputFlag = flag.String("o", "", "output path (.stl or .obj)")
		kernelFlag = flag.String("kernel", "", "geometry backend: csg or sdf")
		watchFlag  = flag.Bool("watch", false, "re-run the pipeline when the design file changes")
		configFlag = flag.String("config", "", "TOML config file")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: whittle [flags] <design.lisp>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "whittle",
	})

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	designPath := flag.Arg(0)

	cfg := defaultConfig()
	if *configFlag != "" {
		var err error
		cfg, err = loadConfig(*configFlag)
		if err != nil {
			logger.Fatal("config", "err", err)
		}
	}
	if *outputFlag != "" {
		cfg.Output = *outputFlag
	}
	if *kernelFlag != "" {
		cfg.Kernel = *kernelFlag
	}
	if err := cfg.validate(); err != nil {
		logger.Fatal("config", "err", err)
	}

	k, err := selectKernel(cfg.Kernel)
	if err != nil {
		logger.Fatal("kernel", "err", err)
	}

	if *watchFlag {
		if err := watch(logger, designPath, cfg, k); err != nil {
			logger.Fatal("watch", "err", err)
		}
		return
	}

	if err := runPipeline(logger, designPath, cfg, k); err != nil {
		logger.Fatal("pipeline failed", "err", err)
	}
}

func selectKernel(name string) (kernel.Kernel, error) {
	switch name {
	case "csg":
		return csg.New(), nil
	case "sdf":
		return sdfx.New(), nil
	}
	return nil, fmt.Errorf("unknown kernel %q (want csg or sdf)", name)
}

// runPipeline executes one evaluate/validate/tessellate/export cycle.
func runPipeline(logger *log.Logger, designPath string, cfg Config, k kernel.Kernel) error {
	start := time.Now()

	source, err := os.ReadFile(designPath)
	if err != nil {
		return fmt.Errorf("reading design: %w", err)
	}

	eng := engine.NewEngine()
	g, evalErrs, err := eng.Evaluate(string(source))
	if err != nil {
		return fmt.Errorf("evaluating: %w", err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			logger.Error("eval", "file", designPath, "err", e.Error())
		}
		return fmt.Errorf("%d evaluation error(s)", len(evalErrs))
	}

	if cfg.Segments > 0 {
		g.Defaults.Segments = cfg.Segments
	}

	findings := graph.Validate(g)
	for _, f := range findings {
		if f.Severity == graph.SeverityError {
			logger.Error("validate", "node", f.NodeID.Short(), "err", f.Message)
		} else {
			logger.Warn("validate", "node", f.NodeID.Short(), "msg", f.Message)
		}
	}
	if graph.HasBlocking(findings) {
		return fmt.Errorf("design graph has blocking validation errors")
	}
	if len(g.Roots) == 0 {
		return fmt.Errorf("nothing to export: no (emit ...) in %s", designPath)
	}

	meshes, err := tessellate.Tessellate(g, k)
	if err != nil {
		return fmt.Errorf("tessellating: %w", err)
	}

	if err := export.WriteFile(cfg.Output, meshes); err != nil {
		return fmt.Errorf("exporting: %w", err)
	}

	var tris int
	for _, m := range meshes {
		tris += len(m.Indices) / 3
	}
	logger.Info("exported",
		"out", cfg.Output,
		"parts", len(meshes),
		"triangles", tris,
		"took", time.Since(start).Round(time.Millisecond))
	return nil
}

// watch re-runs the pipeline whenever the design file changes. Editors
// often replace files on save, so the watch is on the containing
// directory with events filtered to the design file.
func watch(logger *log.Logger, designPath string, cfg Config, k kernel.Kernel) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(designPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	run := func() {
		if err := runPipeline(logger, designPath, cfg, k); err != nil {
			logger.Error("pipeline failed", "err", err)
		}
	}

	logger.Info("watching", "file", designPath)
	run()

	// Debounce: editors emit bursts of events per save.
	const debounce = 100 * time.Millisecond
	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(designPath) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case <-pending:
			logger.Info("changed", "file", designPath)
			run()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher", "err", err)
		}
	}
}
