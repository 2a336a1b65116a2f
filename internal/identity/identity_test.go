package identity

import (
	"os"
	"testing"
)

func TestLoadWithMissingFileGeneratesHostname(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	got := Load()
	if got == "" {
		t.Error("Load() returned empty hostname")
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if err := Save("test-headset"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := Load(); got != "test-headset" {
		t.Errorf("Load() = %q, want %q", got, "test-headset")
	}
}

func TestLoadOrCreatePersists(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	first := LoadOrCreate()
	second := LoadOrCreate()
	if first != second {
		t.Errorf("LoadOrCreate() not stable across calls: %q != %q", first, second)
	}
	path, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("identity file not written: %v", err)
	}
}
