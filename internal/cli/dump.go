// -- internal/cli/dump.go --
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BlackVectorOps/faultseed/pkg/lower"
)

// RunDump lowers the target and prints its textual IR to stdout, either the
// whole module or a single named function. This is the view the injector
// mutates, so it is the first thing to look at when a run surprises you.
func RunDump(target, funcName string) error {
	cleanTarget := filepath.Clean(target)
	mod, err := lower.Target(cleanTarget)
	if err != nil {
		return fmt.Errorf("lower %s: %w", cleanTarget, err)
	}

	if funcName != "" {
		fn := mod.Lookup(funcName)
		if fn == nil {
			return fmt.Errorf("function %q not found in %s", funcName, cleanTarget)
		}
		fmt.Fprint(os.Stdout, fn.String())
		return nil
	}

	fmt.Fprint(os.Stdout, mod.String())
	return nil
}
