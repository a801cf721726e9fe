// -- internal/cli/history.go --
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BlackVectorOps/faultseed/pkg/models"
)

// RunHistory lists recorded injection runs as JSON on stdout, newest first.
func RunHistory(dbPath, targetFunc string, limit int) error {
	resolved := ResolveDBPath(dbPath)
	store, backend, err := OpenStore(resolved, true)
	if err != nil {
		return fmt.Errorf("open run history %s: %w", resolved, err)
	}
	defer store.Close()

	runs, err := store.ListRuns(targetFunc, limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	out := models.HistoryOutput{
		Database: resolved,
		Backend:  backend,
		Runs:     runs,
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("json encode failed: %w", err)
	}
	return nil
}
