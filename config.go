package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the CLI settings, loadable from a TOML file.
// Command-line flags override file values.
type Config struct {
	// Kernel selects the geometry backend: "csg" or "sdf".
	Kernel string `toml:"kernel"`
	// Output is the mesh output path (.stl or .obj).
	Output string `toml:"output"`
	// Segments is the default circle tessellation for cylinders.
	Segments int `toml:"segments"`
}

func defaultConfig() Config {
	return Config{
		Kernel:   "csg",
		Output:   "out.stl",
		Segments: 32,
	}
}

// loadConfig reads a TOML config file over the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Kernel {
	case "csg", "sdf":
	default:
		return fmt.Errorf("unknown kernel %q (want csg or sdf)", c.Kernel)
	}
	if c.Segments != 0 && c.Segments < 3 {
		return fmt.Errorf("segments must be at least 3, got %d", c.Segments)
	}
	return nil
}
