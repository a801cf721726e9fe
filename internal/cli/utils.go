// -- internal/cli/utils.go --
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BlackVectorOps/faultseed/pkg/storage"
	"github.com/BlackVectorOps/faultseed/pkg/storage/jsondb"
	"github.com/BlackVectorOps/faultseed/pkg/storage/pebbledb"
)

// -- Helpers --

// ResolveDBPath picks the run-history location: explicit flag, then the
// FSEED_DB_PATH environment variable, then well-known candidates.
func ResolveDBPath(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv("FSEED_DB_PATH"); env != "" {
		return env
	}
	candidates := []string{
		"./fseed-history.json",
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".fseed", "history.json"))
		candidates = append(candidates, filepath.Join(home, ".fseed", "history.db"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return "./fseed-history.json"
}

// OpenStore opens the history backend matching the path: a .json suffix means
// the flat-file store, anything else the Pebble database. It returns the
// backend name alongside for reporting.
func OpenStore(dbPath string, readOnly bool) (storage.RunStore, string, error) {
	if IsJSON(dbPath) {
		s, err := jsondb.Open(dbPath)
		if err != nil {
			return nil, "json", err
		}
		return s, "json", nil
	}
	opts := pebbledb.DefaultOptions()
	opts.ReadOnly = readOnly
	s, err := pebbledb.Open(dbPath, opts)
	if err != nil {
		return nil, "pebble", err
	}
	return s, "pebble", nil
}

func levenshtein(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	n, m := len(r1), len(r2)
	if n > m {
		r1, r2 = r2, r1
		n, m = m, n
	}
	current := make([]int, n+1)
	for i := 0; i <= n; i++ {
		current[i] = i
	}
	for j := 1; j <= m; j++ {
		previous := current[0]
		current[0] = j
		targetChar := r2[j-1]
		for i := 1; i <= n; i++ {
			temp := current[i]
			cost := 0
			if r1[i-1] != targetChar {
				cost = 1
			}
			current[i] = min(current[i-1]+1, current[i]+1, previous+cost)
			previous = temp
		}
	}
	return current[n]
}

// SuggestCommand returns the closest known subcommand within edit distance 2,
// or the empty string when nothing is close enough to be a plausible typo.
func SuggestCommand(cmd string) string {
	commands := []string{"inject", "dump", "history", "version"}
	bestMatch := ""
	minDist := 100
	cmdLower := strings.ToLower(cmd)
	for _, c := range commands {
		dist := levenshtein(cmdLower, c)
		if dist < minDist {
			minDist = dist
			bestMatch = c
		}
	}
	if minDist <= 2 {
		return bestMatch
	}
	return ""
}

func IsJSON(path string) bool {
	return strings.HasSuffix(path, ".json")
}

func ExitError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
