package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	want := Default()
	if cfg.Mouse != want.Mouse || cfg.WheelStep != want.WheelStep ||
		cfg.ComposerMaxHeight != want.ComposerMaxHeight || cfg.HistoryLimit != want.HistoryLimit {
		t.Fatalf("defaults mismatch: %+v", cfg)
	}
	if cfg.Source != path {
		t.Fatalf("source path: got %q want %q", cfg.Source, path)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Source = path
	cfg.WheelStep = 5
	cfg.Mouse = false
	cfg.LogFile = "/tmp/chatpane-test.log"
	if err := Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.WheelStep != 5 || got.Mouse || got.LogFile != "/tmp/chatpane-test.log" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestLoadClampsNonPositiveValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "mouse = true\nwheel_step = 0\ncomposer_max_height = -2\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WheelStep != Default().WheelStep {
		t.Fatalf("wheel_step not clamped: %d", cfg.WheelStep)
	}
	if cfg.ComposerMaxHeight != Default().ComposerMaxHeight {
		t.Fatalf("composer_max_height not clamped: %d", cfg.ComposerMaxHeight)
	}
}

func TestLoadEnvOverridesLogFile(t *testing.T) {
	t.Setenv("CHATPANE_LOG_FILE", "/tmp/from-env.log")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("log_file = \"/tmp/from-file.log\"\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogFile != "/tmp/from-env.log" {
		t.Fatalf("env must win over file: %q", cfg.LogFile)
	}
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("mouse = {"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("malformed toml must surface an error")
	}
}
