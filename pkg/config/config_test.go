package config

import (
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestSanity(t *testing.T) {
	cfg, err := Unmarshal("../../cfg/config.default.toml")
	if err != nil {
		t.Fatalf("Can't unmarshal, err: %s", err)
	}
	pretty, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("Can't marshal, err: %s", err)
	}
	t.Logf("Config: %s\n", string(pretty))
	if cfg.Tracker.GatePx != 100 {
		t.Fatalf("Bad gate: %f", cfg.Tracker.GatePx)
	}
	if cfg.Tracker.HistoryCap != 30 {
		t.Fatalf("Bad history cap: %d", cfg.Tracker.HistoryCap)
	}
}

func TestCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.toml")
	if err := CreateDefault(path); err != nil {
		t.Fatalf("Can't create empty config: %s", err)
	}
	cfg, err := Unmarshal(path)
	if err != nil {
		t.Fatalf("Can't read back the default config: %s", err)
	}
	if cfg.Speed.FPS != 30 {
		t.Fatalf("Bad default fps: %f", cfg.Speed.FPS)
	}
}
