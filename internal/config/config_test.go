package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefault(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("expected Default(), got %+v", cfg)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stackctl.yaml")
	contents := "data_dir: /var/lib/stackctl\ncompaction_threshold: 2048\ndebug: true\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "/var/lib/stackctl" {
		t.Errorf("expected data dir /var/lib/stackctl, got %s", cfg.DataDir)
	}
	if cfg.CompactionThreshold != 2048 {
		t.Errorf("expected threshold 2048, got %d", cfg.CompactionThreshold)
	}
	if !cfg.Debug {
		t.Error("expected debug to be true")
	}
}
