package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fseed.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "target_func: compute\nfailure_kind: runtime-crasher\ndb: runs.json\n")
	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.TargetFunc != "compute" || cfg.FailureKind != "runtime-crasher" || cfg.DB != "runs.json" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfigFileUnknownKey(t *testing.T) {
	t.Parallel()
	// "failure_kid" must fail loudly, not silently disable injection.
	path := writeConfig(t, "target_func: compute\nfailure_kid: miscompile\n")
	if _, err := LoadConfigFile(path); err == nil {
		t.Fatal("expected error on unknown key")
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	t.Parallel()
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error on missing file")
	}
}

func TestLoadConfigFileMalformed(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "target_func: [unclosed\n")
	if _, err := LoadConfigFile(path); err == nil {
		t.Fatal("expected error on malformed YAML")
	}
}

func TestMergeConfigFlagsWin(t *testing.T) {
	t.Parallel()
	file := &FileConfig{TargetFunc: "fromFile", FailureKind: "miscompile", DB: "file.json"}

	tf, kind, db := mergeConfig("fromFlag", "", "", file)
	if tf != "fromFlag" {
		t.Errorf("flag target lost: %q", tf)
	}
	if kind != "miscompile" || db != "file.json" {
		t.Errorf("file values not filled in: kind=%q db=%q", kind, db)
	}

	tf, kind, db = mergeConfig("", "", "", nil)
	if tf != "" || kind != "" || db != "" {
		t.Errorf("nil file config altered flags: %q %q %q", tf, kind, db)
	}
}
