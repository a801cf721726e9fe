package lower

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// GetHardenedEnv returns the process environment with the Go toolchain
// variables pinned. Lowering must never reach the network or a CGO
// toolchain: the input is untrusted source under analysis.
func GetHardenedEnv() []string {
	env := make([]string, 0, len(os.Environ())+7)
	for _, e := range os.Environ() {
		upperE := strings.ToUpper(e)
		switch {
		case strings.HasPrefix(upperE, "CGO_ENABLED="),
			strings.HasPrefix(upperE, "GOPROXY="),
			strings.HasPrefix(upperE, "GOFLAGS="),
			strings.HasPrefix(upperE, "GOWORK="),
			strings.HasPrefix(upperE, "GO111MODULE="),
			strings.HasPrefix(upperE, "GOTOOLCHAIN="):
			continue
		}
		env = append(env, e)
	}
	env = append(env, "CGO_ENABLED=0", "GOPROXY=off", "GOFLAGS=-mod=readonly", "GOWORK=off", "GO111MODULE=on", "GOTOOLCHAIN=local")
	return env
}

// LoadPackages loads the Go package rooted at target, which may be a
// directory (loaded as ./...) or a single .go file (loaded as file=...).
func LoadPackages(target string) ([]*packages.Package, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("stat target: %w", err)
	}

	var dir, pattern string
	if info.IsDir() {
		dir = target
		pattern = "./..."
	} else {
		dir = filepath.Dir(target)
		absTarget, err := filepath.Abs(target)
		if err != nil {
			return nil, err
		}
		pattern = "file=" + absTarget
	}

	cfg := &packages.Config{
		Mode:  packages.LoadAllSyntax,
		Dir:   dir,
		Fset:  token.NewFileSet(),
		Tests: false,
		Env:   GetHardenedEnv(),
	}

	initialPkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to execute loader: %w", err)
	}
	if len(initialPkgs) == 0 {
		return nil, fmt.Errorf("no packages found in %s", target)
	}
	return initialPkgs, nil
}

// BuildSSA constructs SSA form from loaded Go packages. Only the packages
// explicitly loaded are built; their dependencies stay as declarations.
func BuildSSA(initialPkgs []*packages.Package) (*ssa.Program, error) {
	if len(initialPkgs) == 0 {
		return nil, fmt.Errorf("input packages list is empty")
	}

	var errorMessages strings.Builder
	packages.Visit(initialPkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			errorMessages.WriteString(e.Error() + "\n")
		}
	})

	prog, _ := ssautil.AllPackages(initialPkgs, ssa.InstantiateGenerics)
	if prog == nil {
		if errorMessages.Len() > 0 {
			return nil, fmt.Errorf("failed to initialize SSA builder (packages contain errors: %s)", strings.TrimSpace(errorMessages.String()))
		}
		return nil, fmt.Errorf("failed to initialize SSA builder")
	}

	for _, p := range initialPkgs {
		if p.Types == nil {
			continue
		}
		if ssaPkg := prog.Package(p.Types); ssaPkg != nil {
			ssaPkg.Build()
		}
	}

	return prog, nil
}
