package cliconfig

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	withTempDir(t, func() {
		cfg, err := Load(nil)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
		}
		if cfg.OutPath != "" {
			t.Errorf("OutPath = %q, want empty", cfg.OutPath)
		}
	})
}

func TestLoadFlagOverridesWinOverDefaults(t *testing.T) {
	withTempDir(t, func() {
		cfg, err := Load(map[string]interface{}{"loglevel": "debug", "outpath": "/tmp/out.ttl"})
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
		}
		if cfg.OutPath != "/tmp/out.ttl" {
			t.Errorf("OutPath = %q, want /tmp/out.ttl", cfg.OutPath)
		}
	})
}

func TestLoadEnvOverridesFile(t *testing.T) {
	withTempDir(t, func() {
		writeConfigFile(t, "loglevel: warn\n")
		t.Setenv("SHAPECONV_LOGLEVEL", "error")

		cfg, err := Load(nil)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.LogLevel != "error" {
			t.Errorf("LogLevel = %q, want %q (env should win over file)", cfg.LogLevel, "error")
		}
	})
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	withTempDir(t, func() {
		writeConfigFile(t, "loglevel: warn\n")

		cfg, err := Load(nil)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.LogLevel != "warn" {
			t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "warn")
		}
	})
}

func TestLoadFlagOverridesWinOverEnvAndFile(t *testing.T) {
	withTempDir(t, func() {
		writeConfigFile(t, "loglevel: warn\n")
		t.Setenv("SHAPECONV_LOGLEVEL", "error")

		cfg, err := Load(map[string]interface{}{"loglevel": "debug"})
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want %q (flag should win over everything)", cfg.LogLevel, "debug")
		}
	})
}

func writeConfigFile(t *testing.T, content string) {
	t.Helper()
	if err := os.WriteFile(defaultConfigFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", defaultConfigFile, err)
	}
}

// withTempDir runs fn with the working directory set to a fresh temp dir,
// since Load reads defaultConfigFile relative to the process's cwd.
func withTempDir(t *testing.T, fn func()) {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%s): %v", dir, err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(old)
	})
	fn()
}
