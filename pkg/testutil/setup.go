package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BlackVectorOps/faultseed/pkg/lower"
	"github.com/BlackVectorOps/faultseed/pkg/sil"
)

// SetupTestEnv creates an isolated workspace with a valid go.mod.
// Returns the directory path and a cleanup function.
func SetupTestEnv(t *testing.T, prefix string) (string, func()) {
	t.Helper()
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	modPath := filepath.Join(dir, "go.mod")
	if err := os.WriteFile(modPath, []byte("module testmod\n\ngo 1.21\n"), 0644); err != nil {
		os.RemoveAll(dir)
		t.Fatalf("failed to create go.mod: %v", err)
	}

	return dir, func() { os.RemoveAll(dir) }
}

// CompileModule lowers Go source into an IR module via the real frontend,
// so frontend-dependent tests exercise the same path the CLI does.
func CompileModule(t *testing.T, src string) *sil.Module {
	t.Helper()
	dir, cleanup := SetupTestEnv(t, "lower-build-")
	defer cleanup()

	path := filepath.Join(dir, "main.go")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	mod, err := lower.Target(path)
	if err != nil {
		t.Fatalf("lower target: %v", err)
	}
	return mod
}
