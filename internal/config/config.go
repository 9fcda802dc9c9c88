// Package config loads stackctl's on-disk configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is stackctl's configuration: where container backing files live,
// and how to adjust the log engine's defaults.
type Config struct {
	// DataDir is the directory under which container backing files are
	// resolved. Defaults to the current directory.
	DataDir string `yaml:"data_dir"`

	// CompactionThreshold overrides the log engine's default 1 MiB
	// compaction threshold of list and map containers when positive.
	// Stack containers always use the default.
	CompactionThreshold int64 `yaml:"compaction_threshold,omitempty"`

	// Debug enables debug-level logging.
	Debug bool `yaml:"debug"`
}

// Default returns the configuration used when no config file is present.
func Default() Config {
	return Config{DataDir: "."}
}

// Load reads a YAML config file at path. A missing file is not an error;
// it yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "."
	}
	return cfg, nil
}
