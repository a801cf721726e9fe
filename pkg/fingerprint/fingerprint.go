// Package fingerprint derives stable digests from printed function bodies.
// The digests serve two purposes: proving that the optimizer-crash path
// mutated nothing, and recording which functions an injection actually
// changed in the run history.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"runtime"

	"github.com/BlackVectorOps/faultseed/pkg/sil"
	"golang.org/x/sync/errgroup"
)

// Entry pairs a function name with the digest of its printed body.
type Entry struct {
	Function string `json:"function"`
	Digest   string `json:"digest"`
}

// Function digests one function. The printer numbers registers in program
// order, so the digest depends only on the graph, not on pointer identity.
func Function(f *sil.Function) string {
	sum := sha256.Sum256([]byte(f.String()))
	return hex.EncodeToString(sum[:])
}

// Snapshot digests every function in the module, preserving definition order.
// Printing is independent per function, so the work fans out across a bounded
// group; each goroutine writes only its own slot.
func Snapshot(m *sil.Module) ([]Entry, error) {
	funcs := m.Functions()
	entries := make([]Entry, len(funcs))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, fn := range funcs {
		i, fn := i, fn
		g.Go(func() error {
			entries[i] = Entry{Function: fn.Name(), Digest: Function(fn)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Diff returns the names of functions whose digest changed between two
// snapshots, including functions present on only one side.
func Diff(before, after []Entry) []string {
	prev := make(map[string]string, len(before))
	for _, e := range before {
		prev[e.Function] = e.Digest
	}

	var changed []string
	seen := make(map[string]bool, len(after))
	for _, e := range after {
		seen[e.Function] = true
		if old, ok := prev[e.Function]; !ok || old != e.Digest {
			changed = append(changed, e.Function)
		}
	}
	for _, e := range before {
		if !seen[e.Function] {
			changed = append(changed, e.Function)
		}
	}
	return changed
}
